// Command sweep runs one full deletion sweep and exits. It is meant for
// external schedulers (cron) driving the same store as the bot.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/mymmrac/telego"

	"tg-autodelete/internal/cleaner"
	"tg-autodelete/internal/config"
	"tg-autodelete/internal/logger"
	"tg-autodelete/internal/service"
	"tg-autodelete/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional, env vars used otherwise)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Setup(cfg); err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	logger.Info("Starting cleanup script")

	db, err := storage.Open(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}

	messages, err := service.NewMessageService(storage.NewMessageRepository(db), cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize message service: %v", err)
	}

	bot, err := telego.NewBot(cfg.Bot.Token, telego.WithDefaultLogger(false, true))
	if err != nil {
		logger.Fatalf("Failed to initialize bot: %v", err)
	}

	cln := cleaner.New(
		messages,
		cleaner.NewTelegramDeleter(bot),
		cleaner.NewTelegramNotifier(bot, cfg),
	)

	report := cln.Sweep(context.Background())
	logger.Infof("Cleanup script completed: %d deleted, %d failed, %d pruned",
		report.Deleted, report.Failed, report.Pruned)
}
