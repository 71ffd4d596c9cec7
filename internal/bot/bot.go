package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-autodelete/internal/config"
	"tg-autodelete/internal/logger"
)

// BotService represents the Telegram bot service
type BotService struct {
	Bot     *telego.Bot
	Handler *th.BotHandler
}

// Start starts the bot handler; blocks until Stop is called.
func (b *BotService) Start() {
	b.Handler.Start()
}

// Stop stops the bot handler
func (b *BotService) Stop() {
	b.Handler.Stop()
}

// Initialize creates the bot and its update source. With a configured
// webhook endpoint updates arrive over HTTPS and the returned server must
// be started; otherwise the bot long-polls and the server is nil.
func Initialize(ctx context.Context, cfg *config.Config) (*BotService, *WebhookServer, error) {
	bot, err := telego.NewBot(cfg.Bot.Token, telego.WithDefaultLogger(false, true))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize bot: %w", err)
	}

	botUser, err := bot.GetMe(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get bot info: %w", err)
	}
	logger.Infof("Authorized on account %s", botUser.Username)

	setCommands(ctx, bot)

	if cfg.Bot.Webhook.Endpoint != "" {
		bh, server, err := SetupWebhook(ctx, bot, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to setup webhook: %w", err)
		}
		return &BotService{Bot: bot, Handler: bh}, server, nil
	}

	// Long polling: make sure no stale webhook swallows the updates.
	if err := bot.DeleteWebhook(ctx, &telego.DeleteWebhookParams{}); err != nil {
		return nil, nil, fmt.Errorf("failed to delete existing webhook: %w", err)
	}

	updates, err := bot.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get updates channel: %w", err)
	}

	bh, err := th.NewBotHandler(bot, updates)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create bot handler: %w", err)
	}

	return &BotService{Bot: bot, Handler: bh}, nil, nil
}

// setCommands publishes the command menu
func setCommands(ctx context.Context, bot *telego.Bot) {
	commands := []telego.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "help", Description: "Show usage help"},
		{Command: "status", Description: "Show tracked message counts"},
		{Command: "cleanup", Description: "Remove stale records"},
		{Command: "sweep", Description: "Run a deletion sweep now"},
	}

	err := bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		logger.Warningf("Failed to set bot commands: %v", err)
	}
}
