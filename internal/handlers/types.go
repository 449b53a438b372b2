package handlers

import (
	"github.com/Johndevils/Url-shorter-bot/internal/telegram"
)

// RedirectRequest is the request for resolving a short code.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"abc123" path:"code"`
}

// RedirectResponse redirects the visitor to the stored target URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The target URL" header:"Location"`
	}
}

// RootResponse is the landing page for visitors hitting the bare domain.
type RootResponse struct {
	Body struct {
		Message string `doc:"Service description" json:"message"`
	}
}

// WebhookRequest carries one Telegram update.
type WebhookRequest struct {
	Body telegram.Update
}

// WebhookResponse acknowledges an update. Telegram only looks at the status
// code; the body exists for operators poking the endpoint by hand.
type WebhookResponse struct {
	Body struct {
		OK bool `json:"ok"`
	}
}
