package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/Johndevils/Url-shorter-bot/internal/ratelimit"
)

// RateLimiter returns a Huma middleware that limits requests based on client
// IP and User-Agent. Operations can opt out via ratelimit.MetadataKey.
func RateLimiter(
	api huma.API,
	limiter ratelimit.Limiter,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if exempt(ctx) {
			next(ctx)

			return
		}

		key := clientKey(ctx)

		allowed, err := limiter.Allow(ctx.Context(), key)
		if err != nil {
			logger.Error("rate limit check failed",
				zap.String("path", ctx.URL().Path),
				zap.Error(err),
			)
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

			return
		}

		if !allowed {
			logger.Warn("rate limit exceeded",
				zap.String("path", ctx.URL().Path),
				zap.String("client_ip", clientIP(ctx)),
			)
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, "rate limit exceeded")

			return
		}

		next(ctx)
	}
}

func exempt(ctx huma.Context) bool {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return false
	}

	cfg, ok := op.Metadata[ratelimit.MetadataKey].(ratelimit.EndpointConfig)

	return ok && cfg.Disabled
}

// clientKey generates a unique key for rate limiting based on IP and User-Agent.
func clientKey(ctx huma.Context) string {
	ip := clientIP(ctx)
	ua := ctx.Header("User-Agent")

	hash := sha256.Sum256([]byte(ip + "|" + ua))

	return hex.EncodeToString(hash[:])
}

// clientIP extracts the client IP from the request, considering proxies.
func clientIP(ctx huma.Context) string {
	host := extractClientIP(ctx)

	ip, _, err := net.SplitHostPort(host)
	if err != nil {
		return host
	}

	return ip
}
