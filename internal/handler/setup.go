package handler

import (
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-autodelete/internal/cleaner"
	"tg-autodelete/internal/config"
	"tg-autodelete/internal/service"
)

// Handler wires bot updates to the registration path, the command surface
// and the manual sweep trigger.
type Handler struct {
	cfg      *config.Config
	messages *service.MessageService
	cleaner  *cleaner.Cleaner
}

// New creates a Handler.
func New(cfg *config.Config, messages *service.MessageService, cln *cleaner.Cleaner) *Handler {
	return &Handler{
		cfg:      cfg,
		messages: messages,
		cleaner:  cln,
	}
}

// Setup registers all bot message handlers
func (h *Handler) Setup(bh *th.BotHandler, bot *telego.Bot) {
	bh.HandleMessage(func(ctx *th.Context, message telego.Message) error {
		// Skip if no sender information or sender is a bot
		if message.From == nil || message.From.IsBot {
			return nil
		}

		if handled, err := h.handleCommand(ctx, bot, message); handled {
			return err
		}

		if message.ForwardOrigin != nil {
			return h.handleForwardedMessage(ctx, bot, message)
		}

		return nil
	})
}
