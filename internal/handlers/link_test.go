package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Johndevils/Url-shorter-bot/internal/analytics"
	"github.com/Johndevils/Url-shorter-bot/internal/handlers"
	"github.com/Johndevils/Url-shorter-bot/internal/messaging"
	"github.com/Johndevils/Url-shorter-bot/internal/shortlink"
	"github.com/Johndevils/Url-shorter-bot/internal/store"
)

// noopPublish returns a publish function that always succeeds.
func noopPublish[T any]() messaging.Publish[T] {
	return func(_ *T) error { return nil }
}

func TestLinkHandler_Redirect(t *testing.T) {
	t.Run("redirects to the stored target", func(t *testing.T) {
		links := store.NewMemoryLinks()
		_ = links.Save(context.Background(), &shortlink.ShortLink{
			Code:      "abc123",
			TargetURL: "https://example.com/target",
		})

		handler := handlers.NewLinkHandler(links, noopPublish[analytics.LinkVisitedEvent](), zap.NewNop())

		resp, err := handler.Redirect(context.Background(), &handlers.RedirectRequest{Code: "abc123"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.Status)
		assert.Equal(t, "https://example.com/target", resp.Headers.Location)
	})

	t.Run("returns 404 for unknown codes", func(t *testing.T) {
		handler := handlers.NewLinkHandler(
			store.NewMemoryLinks(), noopPublish[analytics.LinkVisitedEvent](), zap.NewNop(),
		)

		resp, err := handler.Redirect(context.Background(), &handlers.RedirectRequest{Code: "missing"})

		assert.Nil(t, resp)
		require.Error(t, err)

		var statusErr huma.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNotFound, statusErr.GetStatus())
	})

	t.Run("publishes a visit event with request metadata", func(t *testing.T) {
		links := store.NewMemoryLinks()
		_ = links.Save(context.Background(), &shortlink.ShortLink{
			Code:      "abc123",
			TargetURL: "https://example.com/target",
		})

		var captured *analytics.LinkVisitedEvent

		publish := func(event *analytics.LinkVisitedEvent) error {
			captured = event

			return nil
		}

		handler := handlers.NewLinkHandler(links, publish, zap.NewNop())

		ctx := handlers.ContextWithRequestMeta(context.Background(), handlers.RequestMeta{
			ClientIP:  "203.0.113.5",
			UserAgent: "TestAgent/1.0",
			Referrer:  "https://referrer.example",
		})

		_, err := handler.Redirect(ctx, &handlers.RedirectRequest{Code: "abc123"})

		require.NoError(t, err)
		require.NotNil(t, captured)
		assert.Equal(t, "abc123", captured.Code)
		assert.Equal(t, "203.0.113.5", captured.ClientIP)
		assert.Equal(t, "TestAgent/1.0", captured.UserAgent)
		assert.Equal(t, "https://referrer.example", captured.Referrer)
	})

	t.Run("redirect still works when publishing fails", func(t *testing.T) {
		links := store.NewMemoryLinks()
		_ = links.Save(context.Background(), &shortlink.ShortLink{
			Code:      "abc123",
			TargetURL: "https://example.com/target",
		})

		publish := func(_ *analytics.LinkVisitedEvent) error {
			return assert.AnError
		}

		handler := handlers.NewLinkHandler(links, publish, zap.NewNop())

		resp, err := handler.Redirect(context.Background(), &handlers.RedirectRequest{Code: "abc123"})

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/target", resp.Headers.Location)
	})
}

func TestLinkHandler_Root(t *testing.T) {
	handler := handlers.NewLinkHandler(
		store.NewMemoryLinks(), noopPublish[analytics.LinkVisitedEvent](), zap.NewNop(),
	)

	resp, err := handler.Root(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, "Welcome to the URL Shortener! Use the Telegram bot to create links.", resp.Body.Message)
}
