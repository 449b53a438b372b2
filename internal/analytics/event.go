package analytics

import "time"

// Topics for link lifecycle events.
const (
	TopicLinkCreated = "link.created"
	TopicLinkVisited = "link.visited"
)

// LinkCreatedEvent is emitted when the bot stores a new short link.
type LinkCreatedEvent struct {
	Code      string    `json:"code"`
	TargetURL string    `json:"targetUrl"`
	ChatID    int64     `json:"chatId"`
	Custom    bool      `json:"custom"`
	CreatedAt time.Time `json:"createdAt"`
}

// LinkVisitedEvent is emitted when the redirect endpoint resolves a code.
type LinkVisitedEvent struct {
	Code      string    `json:"code"`
	VisitedAt time.Time `json:"visitedAt"`
	ClientIP  string    `json:"clientIp,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	Referrer  string    `json:"referrer,omitempty"`
}
