// Package handlers exposes the public HTTP surface: the redirect endpoint,
// the landing page, and the Telegram webhook.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/Johndevils/Url-shorter-bot/internal/analytics"
	"github.com/Johndevils/Url-shorter-bot/internal/messaging"
	"github.com/Johndevils/Url-shorter-bot/internal/shortlink"
)

const rootMessage = "Welcome to the URL Shortener! Use the Telegram bot to create links."

// LinkHandler handles link resolution.
type LinkHandler struct {
	store        shortlink.Repository
	publishVisit messaging.Publish[analytics.LinkVisitedEvent]
	logger       *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(
	store shortlink.Repository,
	publishVisit messaging.Publish[analytics.LinkVisitedEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		store:        store,
		publishVisit: publishVisit,
		logger:       logger,
	}
}

type requestMetaKey struct{}

// RequestMeta holds HTTP request metadata for analytics.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
	Referrer  string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

// Redirect resolves a short code and sends the visitor on with a temporary
// redirect, so clients re-resolve instead of caching the mapping forever.
func (h *LinkHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	link, err := h.store.GetByCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, shortlink.ErrNotFound) {
			return nil, huma.Error404NotFound("URL Not Found")
		}

		return nil, huma.Error500InternalServerError("failed to get url")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkVisitedEvent{
		Code:      req.Code,
		VisitedAt: time.Now(),
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
	}

	if err := h.publishVisit(event); err != nil {
		h.logger.Error("failed to publish visit event",
			zap.String("code", req.Code),
			zap.Error(err),
		)
	}

	resp := &RedirectResponse{
		Status: http.StatusFound,
	}
	resp.Headers.Location = link.TargetURL

	return resp, nil
}

// Root answers requests to the bare domain.
func (h *LinkHandler) Root(_ context.Context, _ *struct{}) (*RootResponse, error) {
	resp := &RootResponse{}
	resp.Body.Message = rootMessage

	return resp, nil
}
