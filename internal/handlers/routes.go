package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Johndevils/Url-shorter-bot/internal/ratelimit"
)

// RegisterRoutes registers the public routes. The webhook opts out of rate
// limiting and into the secret-token check; the redirect stays rate limited.
func RegisterRoutes(api huma.API, links *LinkHandler, webhook *WebhookHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "root",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Service landing page",
		Tags:        []string{"Links"},
	}, links.Root)

	huma.Register(api, huma.Operation{
		OperationID: "telegram-webhook",
		Method:      http.MethodPost,
		Path:        "/webhook",
		Summary:     "Telegram webhook",
		Description: "Receives bot updates from Telegram. Guarded by the webhook secret token.",
		Tags:        []string{"Bot"},
		Metadata: map[string]any{
			WebhookAuthKey:        true,
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, webhook.Receive)

	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to target URL",
		Description: "Redirects to the target URL associated with the short code.",
		Tags:        []string{"Links"},
	}, links.Redirect)
}
