package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/Johndevils/Url-shorter-bot/internal/bot"
)

// WebhookAuthKey marks an operation as requiring the Telegram webhook
// secret. The auth middleware keys off it.
const WebhookAuthKey = "webhookAuth"

// WebhookHandler receives Telegram updates.
type WebhookHandler struct {
	dispatcher *bot.Dispatcher
	logger     *zap.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(dispatcher *bot.Dispatcher, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Receive processes one update. It always acknowledges: a non-2xx answer
// makes Telegram redeliver the same update, and the dispatcher already
// reports its own failures to the chat.
func (h *WebhookHandler) Receive(ctx context.Context, req *WebhookRequest) (*WebhookResponse, error) {
	h.dispatcher.HandleUpdate(ctx, &req.Body)

	resp := &WebhookResponse{}
	resp.Body.OK = true

	return resp, nil
}
