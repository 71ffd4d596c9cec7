package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tg-autodelete/internal/bot"
	"tg-autodelete/internal/cleaner"
	"tg-autodelete/internal/config"
	"tg-autodelete/internal/crash"
	"tg-autodelete/internal/handler"
	"tg-autodelete/internal/logger"
	"tg-autodelete/internal/service"
	"tg-autodelete/internal/storage"
)

func main() {
	defer crash.RecoverWithStackAndExit("main")

	configPath := flag.String("config", "", "Path to configuration file (optional, env vars used otherwise)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Setup(cfg); err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	db, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	messages, err := service.NewMessageService(storage.NewMessageRepository(db), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize message service: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	botService, server, err := bot.Initialize(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize bot: %v", err)
	}

	cln := cleaner.New(
		messages,
		cleaner.NewTelegramDeleter(botService.Bot),
		cleaner.NewTelegramNotifier(botService.Bot, cfg),
	)

	handler.New(cfg, messages, cln).Setup(botService.Handler, botService.Bot)

	if server != nil {
		crash.SafeGoroutine("http-server", func() {
			if err := server.Start(); err != nil {
				logger.Fatalf("HTTP server error: %v", err)
			}
		})

		// Give server time to start
		time.Sleep(500 * time.Millisecond)
	}

	scheduler := cleaner.NewScheduler(cln, cfg.Retention.CheckInterval())
	scheduler.Start(ctx)

	crash.SafeGoroutine("bot-handler", func() {
		botService.Start()
	})
	logger.Info("Bot started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	sig := <-sigChan
	logger.Infof("Received signal: %v, shutting down...", sig)

	botService.Stop()
	scheduler.Stop()

	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("HTTP server shutdown error: %v", err)
		}
	}

	logger.Info("Server gracefully stopped")
}
