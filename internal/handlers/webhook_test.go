package handlers_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Johndevils/Url-shorter-bot/internal/analytics"
	"github.com/Johndevils/Url-shorter-bot/internal/bot"
	"github.com/Johndevils/Url-shorter-bot/internal/broadcast"
	"github.com/Johndevils/Url-shorter-bot/internal/handlers"
	"github.com/Johndevils/Url-shorter-bot/internal/shortlink"
	"github.com/Johndevils/Url-shorter-bot/internal/store"
	"github.com/Johndevils/Url-shorter-bot/internal/telegram"
)

// stubGateway records outbound texts; photos and callbacks are dropped.
type stubGateway struct {
	mu    sync.Mutex
	texts []string
}

func (g *stubGateway) SendText(_ context.Context, _ int64, text string, _ *telegram.Keyboard) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.texts = append(g.texts, text)

	return nil
}

func (g *stubGateway) SendPhoto(_ context.Context, _ int64, _, _ string, _ *telegram.Keyboard) error {
	return nil
}

func (g *stubGateway) AnswerCallback(_ context.Context, _, _ string, _ bool) error {
	return nil
}

func newTestWebhookHandler(gateway telegram.Gateway) *handlers.WebhookHandler {
	logger := zap.NewNop()
	links := store.NewMemoryLinks()
	reg := store.NewMemoryRegistry()

	svc := shortlink.NewService(links, func() string { return "gencode" }, logger)
	engine := broadcast.NewEngine(reg, gateway, broadcast.NewRunner(logger), logger)

	dispatcher := bot.NewDispatcher(
		bot.Config{BaseURL: "https://sho.rt", AdminChatID: 1},
		svc,
		reg,
		gateway,
		engine,
		noopPublish[analytics.LinkCreatedEvent](),
		logger,
	)

	return handlers.NewWebhookHandler(dispatcher, logger)
}

func TestWebhookHandler_Receive(t *testing.T) {
	t.Run("dispatches the update and acknowledges", func(t *testing.T) {
		gateway := &stubGateway{}
		handler := newTestWebhookHandler(gateway)

		req := &handlers.WebhookRequest{}
		req.Body.Message = &telegram.Message{
			Chat: telegram.Chat{ID: 42},
			Text: "https://example.com/long",
		}

		resp, err := handler.Receive(context.Background(), req)

		require.NoError(t, err)
		assert.True(t, resp.Body.OK)
		require.Len(t, gateway.texts, 1)
		assert.Contains(t, gateway.texts[0], "https://sho.rt/gencode")
	})

	t.Run("acknowledges updates with nothing to do", func(t *testing.T) {
		gateway := &stubGateway{}
		handler := newTestWebhookHandler(gateway)

		resp, err := handler.Receive(context.Background(), &handlers.WebhookRequest{})

		require.NoError(t, err)
		assert.True(t, resp.Body.OK)
		assert.Empty(t, gateway.texts)
	})
}
