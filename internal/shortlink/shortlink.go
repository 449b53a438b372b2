package shortlink

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no link exists for a code.
	ErrNotFound = errors.New("short link not found")
	// ErrCodeTaken is returned when a create-if-absent write hits an existing code.
	ErrCodeTaken = errors.New("code already taken")
	// ErrInvalidURL is returned for destinations that are not absolute http(s) URLs.
	ErrInvalidURL = errors.New("invalid destination url")
	// ErrInvalidCode is returned for custom codes outside the URL-safe alphabet.
	ErrInvalidCode = errors.New("invalid custom code")
	// ErrGenerateCode is returned when code generation keeps colliding.
	ErrGenerateCode = errors.New("could not generate a unique code")
)

// ShortLink is a code -> destination mapping. Once written it is immutable:
// there is no update or delete path, only create-if-absent.
type ShortLink struct {
	Code      string
	TargetURL string
	CreatedAt time.Time
}

// Repository is the durable link store. Save must enforce create-if-absent:
// writing an existing code fails with ErrCodeTaken and leaves the stored
// mapping untouched, even under concurrent writers.
type Repository interface {
	Save(ctx context.Context, link *ShortLink) error
	GetByCode(ctx context.Context, code string) (*ShortLink, error)
}

// CodeGenerator produces a random short code.
type CodeGenerator func() string
