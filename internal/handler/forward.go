package handler

import (
	"fmt"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-autodelete/internal/logger"
)

// rejection outcomes of the forward validation chain
type rejectReason int

const (
	rejectNone rejectReason = iota
	rejectNotForward
	rejectWrongChannel
	rejectNoMessageID
)

// forwardInfo is the extracted identity of a forwarded channel message.
type forwardInfo struct {
	MessageID   int
	ChatID      int64
	ForwardDate time.Time
}

// extractChannelForward validates a forwarded message against the monitored
// channel. The forward origin timestamp is used when present, now otherwise.
func extractChannelForward(message telego.Message, channelID int64, now time.Time) (forwardInfo, rejectReason) {
	origin, ok := message.ForwardOrigin.(*telego.MessageOriginChannel)
	if !ok || origin == nil {
		return forwardInfo{}, rejectNotForward
	}

	if origin.Chat.ID != channelID {
		return forwardInfo{}, rejectWrongChannel
	}

	if origin.MessageID == 0 {
		return forwardInfo{}, rejectNoMessageID
	}

	forwardDate := now
	if origin.Date != 0 {
		forwardDate = time.Unix(origin.Date, 0)
	}

	return forwardInfo{
		MessageID:   origin.MessageID,
		ChatID:      origin.Chat.ID,
		ForwardDate: forwardDate,
	}, rejectNone
}

// handleForwardedMessage registers a forwarded channel message for
// scheduled deletion and confirms the computed delete date to the sender.
func (h *Handler) handleForwardedMessage(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	info, reason := extractChannelForward(message, h.cfg.Bot.ChannelID, time.Now())

	switch reason {
	case rejectNotForward:
		logger.Debugf("Message %d is not a channel forward, skipping", message.MessageID)
		return nil
	case rejectWrongChannel:
		logger.Debugf("Message not from configured channel, skipping")
		if h.cfg.Bot.ReplyOnRejected {
			return h.reply(ctx, bot, message, "❌ This message is not from the monitored channel.")
		}
		return nil
	case rejectNoMessageID:
		logger.Warningf("Forwarded message missing message ID")
		return nil
	}

	deleteDate, ok := h.messages.Register(info.MessageID, info.ChatID, info.ForwardDate)
	if !ok {
		return h.reply(ctx, bot, message, "❌ Failed to schedule message for deletion.")
	}

	logger.Infof("Message %d from channel %d scheduled for deletion", info.MessageID, info.ChatID)
	return h.reply(ctx, bot, message,
		fmt.Sprintf("✅ Message scheduled for deletion on %s", deleteDate.Format("2006-01-02 15:04:05")))
}

func (h *Handler) reply(ctx *th.Context, bot *telego.Bot, message telego.Message, text string) error {
	_, err := bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: message.Chat.ID},
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		logger.Errorf("Failed to send reply: %v", err)
	}
	return err
}
