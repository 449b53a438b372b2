package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/Johndevils/Url-shorter-bot/internal/handlers"
)

// secretTokenHeader is the header Telegram echoes back on every webhook call.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookAuth returns a Huma middleware that rejects webhook calls carrying a
// missing or wrong secret token. It runs before the body is parsed, so forged
// requests never reach JSON decoding. An empty configured secret disables the
// check, matching a bot registered without one.
func WebhookAuth(
	api huma.API,
	secret string,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if !webhookGuarded(ctx) || secret == "" {
			next(ctx)

			return
		}

		got := ctx.Header(secretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			logger.Warn("webhook secret mismatch",
				zap.String("client_ip", clientIP(ctx)),
			)
			_ = huma.WriteErr(api, ctx, http.StatusForbidden, "forbidden")

			return
		}

		next(ctx)
	}
}

func webhookGuarded(ctx huma.Context) bool {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return false
	}

	guarded, ok := op.Metadata[handlers.WebhookAuthKey].(bool)

	return ok && guarded
}
