package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Johndevils/Url-shorter-bot/internal/handlers"
	"github.com/Johndevils/Url-shorter-bot/internal/middleware"
)

type webhookInput struct {
	Body struct {
		UpdateID int `json:"update_id"`
	}
}

type webhookOutput struct {
	Body struct {
		OK bool `json:"ok"`
	}
}

func setupWebhookAPI(t *testing.T, secret string) *chi.Mux {
	t.Helper()

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(middleware.WebhookAuth(api, secret, zap.NewNop()))

	huma.Register(api, huma.Operation{
		OperationID: "guarded",
		Method:      http.MethodPost,
		Path:        "/webhook",
		Metadata: map[string]any{
			handlers.WebhookAuthKey: true,
		},
	}, func(_ context.Context, _ *webhookInput) (*webhookOutput, error) {
		resp := &webhookOutput{}
		resp.Body.OK = true

		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "open",
		Method:      http.MethodPost,
		Path:        "/open",
	}, func(_ context.Context, _ *webhookInput) (*webhookOutput, error) {
		resp := &webhookOutput{}
		resp.Body.OK = true

		return resp, nil
	})

	return router
}

func postJSON(router *chi.Mux, path, body, secretHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if secretHeader != "" {
		req.Header.Set("X-Telegram-Bot-Api-Secret-Token", secretHeader)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestWebhookAuth(t *testing.T) {
	t.Run("accepts matching secret", func(t *testing.T) {
		router := setupWebhookAPI(t, "hunter2")

		w := postJSON(router, "/webhook", `{"update_id":1}`, "hunter2")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		router := setupWebhookAPI(t, "hunter2")

		w := postJSON(router, "/webhook", `{"update_id":1}`, "wrong")

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("rejects missing secret", func(t *testing.T) {
		router := setupWebhookAPI(t, "hunter2")

		w := postJSON(router, "/webhook", `{"update_id":1}`, "")

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("rejects before parsing the body", func(t *testing.T) {
		router := setupWebhookAPI(t, "hunter2")

		w := postJSON(router, "/webhook", `{not json at all`, "wrong")

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("parse errors surface only after auth passes", func(t *testing.T) {
		router := setupWebhookAPI(t, "hunter2")

		w := postJSON(router, "/webhook", `{not json at all`, "hunter2")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("ignores unguarded operations", func(t *testing.T) {
		router := setupWebhookAPI(t, "hunter2")

		w := postJSON(router, "/open", `{"update_id":1}`, "")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("empty configured secret disables the check", func(t *testing.T) {
		router := setupWebhookAPI(t, "")

		w := postJSON(router, "/webhook", `{"update_id":1}`, "")

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
