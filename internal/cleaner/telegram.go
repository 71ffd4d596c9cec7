package cleaner

import (
	"context"
	"fmt"
	"time"

	"github.com/mymmrac/telego"

	"tg-autodelete/internal/config"
	"tg-autodelete/internal/logger"
)

// TelegramDeleter deletes channel messages through the bot API.
type TelegramDeleter struct {
	bot *telego.Bot
}

// NewTelegramDeleter creates a Deleter backed by the given bot.
func NewTelegramDeleter(bot *telego.Bot) *TelegramDeleter {
	return &TelegramDeleter{bot: bot}
}

func (d *TelegramDeleter) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	return d.bot.DeleteMessage(ctx, &telego.DeleteMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		MessageID: messageID,
	})
}

// TelegramNotifier sends deletion outcome messages to the configured
// operator. The numeric user id wins over the username; with neither set
// every notification is skipped with a warning.
type TelegramNotifier struct {
	bot       *telego.Bot
	recipient telego.ChatID
	enabled   bool
}

// NewTelegramNotifier resolves the notification recipient from config.
func NewTelegramNotifier(bot *telego.Bot, cfg *config.Config) *TelegramNotifier {
	n := &TelegramNotifier{bot: bot}

	switch {
	case cfg.Bot.Notify.UserID != 0:
		n.recipient = telego.ChatID{ID: cfg.Bot.Notify.UserID}
		n.enabled = true
	case cfg.Bot.Notify.Username != "":
		n.recipient = telego.ChatID{Username: "@" + cfg.Bot.Notify.Username}
		n.enabled = true
	}

	return n
}

func (n *TelegramNotifier) NotifyDeleted(ctx context.Context, messageID int, chatID int64) {
	text := fmt.Sprintf("✅ <b>Message Deleted Successfully</b>\n\n"+
		"<b>Message ID:</b> %d\n"+
		"<b>Channel ID:</b> %d\n"+
		"<b>Deleted at:</b> %s",
		messageID, chatID, time.Now().Format("2006-01-02 15:04:05"))

	n.send(ctx, text)
}

func (n *TelegramNotifier) NotifyFailed(ctx context.Context, messageID int, chatID int64, errMsg string) {
	text := fmt.Sprintf("❌ <b>Message Deletion Failed</b>\n\n"+
		"<b>Message ID:</b> %d\n"+
		"<b>Channel ID:</b> %d\n"+
		"<b>Error:</b> %s\n"+
		"<b>Time:</b> %s",
		messageID, chatID, errMsg, time.Now().Format("2006-01-02 15:04:05"))

	n.send(ctx, text)
}

// send delivers a notification, swallowing any transport error: a failed
// notification never changes a deletion outcome.
func (n *TelegramNotifier) send(ctx context.Context, text string) {
	if !n.enabled {
		logger.Warningf("No user configured for deletion notifications")
		return
	}

	_, err := n.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    n.recipient,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		logger.Errorf("Failed to send deletion notification: %v", err)
		return
	}
	logger.Infof("Deletion notification sent to %v", n.recipient)
}
