package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-autodelete/internal/crash"
	"tg-autodelete/internal/logger"
)

// handleCommand dispatches the bot commands. Returns false when the message
// is not a command so forward handling can take over.
func (h *Handler) handleCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) (bool, error) {
	// commands may carry the bot mention suffix ("/help@bot_name")
	cmd := message.Text
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}

	switch cmd {
	case "/start":
		return true, h.sendStartMessage(ctx, bot, message)
	case "/help":
		return true, h.sendHelpMessage(ctx, bot, message)
	case "/status":
		return true, h.sendStatusMessage(ctx, bot, message)
	case "/cleanup":
		return true, h.handleCleanupCommand(ctx, bot, message)
	case "/sweep":
		return true, h.handleSweepCommand(ctx, bot, message)
	}

	return false, nil
}

func (h *Handler) sendStartMessage(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	retentionDays := int(h.cfg.Retention.DeleteAfter().Hours() / 24)
	return h.reply(ctx, bot, message, fmt.Sprintf(
		"🤖 Auto-Delete Bot is running!\n\n"+
			"Forward any message from your channel to me, and I'll automatically delete it after %d days.\n\n"+
			"Use /help for more information.", retentionDays))
}

func (h *Handler) sendHelpMessage(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	retentionDays := int(h.cfg.Retention.DeleteAfter().Hours() / 24)
	checkHours := int(h.cfg.Retention.CheckInterval().Hours())

	helpText := fmt.Sprintf("📚 <b>Auto-Delete Bot Help</b>\n\n"+
		"<b>Commands:</b>\n"+
		"/start - Start the bot\n"+
		"/help - Show this help message\n"+
		"/status - Show bot status and message count\n"+
		"/cleanup - Manually remove stale records\n"+
		"/sweep - Run a deletion sweep now\n\n"+
		"<b>How to use:</b>\n"+
		"1. Forward any message from your Telegram channel to this bot\n"+
		"2. The bot will automatically schedule it for deletion after %d days\n"+
		"3. Messages are checked every %d hours and deleted when their time is up\n\n"+
		"<b>Note:</b> The bot must be an admin in your channel with delete message permissions.",
		retentionDays, checkHours)

	return h.reply(ctx, bot, message, helpText)
}

func (h *Handler) sendStatusMessage(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	total, due := h.messages.Stats(time.Now())
	retentionDays := int(h.cfg.Retention.DeleteAfter().Hours() / 24)
	checkHours := int(h.cfg.Retention.CheckInterval().Hours())

	statusText := fmt.Sprintf("📊 <b>Bot Status</b>\n\n"+
		"<b>Total messages tracked:</b> %d\n"+
		"<b>Pending deletion:</b> %d\n"+
		"<b>Next cleanup:</b> Every %d hours\n"+
		"<b>Deletion delay:</b> %d days\n\n"+
		"Bot is running and monitoring messages.",
		total, due, checkHours, retentionDays)

	return h.reply(ctx, bot, message, statusText)
}

// handleCleanupCommand prunes stale records on demand.
func (h *Handler) handleCleanupCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	count := h.messages.PruneStale(time.Now())
	return h.reply(ctx, bot, message, fmt.Sprintf("🧹 Cleanup completed! Removed %d old records.", count))
}

// handleSweepCommand triggers a full deletion sweep. The sweep serializes
// with scheduled runs through the cleaner's run lock, so this can only
// delay, never duplicate, a timer pass.
func (h *Handler) handleSweepCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	chatID := message.Chat.ID

	crash.SafeGoroutine("manual-sweep", func() {
		report := h.cleaner.Sweep(context.Background())

		text := fmt.Sprintf("🧹 Sweep completed: %d deleted, %d failed, %d old records pruned.",
			report.Deleted, report.Failed, report.Pruned)
		_, err := bot.SendMessage(context.Background(), &telego.SendMessageParams{
			ChatID: telego.ChatID{ID: chatID},
			Text:   text,
		})
		if err != nil {
			logger.Errorf("Failed to send sweep report: %v", err)
		}
	})

	return h.reply(ctx, bot, message, "🧹 Sweep started...")
}
