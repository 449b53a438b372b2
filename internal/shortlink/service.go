package shortlink

import (
	"context"
	"errors"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// maxGenerateAttempts bounds the retry loop for generated codes. Collisions
// on a 6-char alphanumeric code are rare; hitting the bound means the store
// is misbehaving, not that we got unlucky five times.
const maxGenerateAttempts = 5

// maxCodeLength caps caller-supplied codes.
const maxCodeLength = 64

// Service implements the shortening algorithm: validate the destination,
// resolve the code (caller-supplied or generated), and write the mapping
// through the repository's create-if-absent semantics.
type Service struct {
	store        Repository
	generateCode CodeGenerator
	logger       *zap.Logger
}

// NewService creates a shortening service.
func NewService(store Repository, generator CodeGenerator, logger *zap.Logger) *Service {
	return &Service{
		store:        store,
		generateCode: generator,
		logger:       logger,
	}
}

// Shorten validates rawURL and stores a mapping for it. When customCode is
// empty a random code is generated; generated codes get the same conflict
// handling as custom ones, retrying with a fresh code on collision.
func (s *Service) Shorten(ctx context.Context, rawURL, customCode string) (*ShortLink, error) {
	if !ValidTarget(rawURL) {
		return nil, ErrInvalidURL
	}

	if customCode != "" {
		return s.shortenCustom(ctx, rawURL, customCode)
	}

	return s.shortenGenerated(ctx, rawURL)
}

func (s *Service) shortenCustom(ctx context.Context, rawURL, code string) (*ShortLink, error) {
	if !ValidCode(code) {
		return nil, ErrInvalidCode
	}

	// Pre-check for a friendlier failure; the Save below is still the
	// authority when two writers race on the same code.
	if _, err := s.store.GetByCode(ctx, code); err == nil {
		return nil, ErrCodeTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	link := &ShortLink{
		Code:      code,
		TargetURL: rawURL,
		CreatedAt: time.Now(),
	}

	if err := s.store.Save(ctx, link); err != nil {
		return nil, err
	}

	return link, nil
}

func (s *Service) shortenGenerated(ctx context.Context, rawURL string) (*ShortLink, error) {
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		link := &ShortLink{
			Code:      s.generateCode(),
			TargetURL: rawURL,
			CreatedAt: time.Now(),
		}

		err := s.store.Save(ctx, link)
		if err == nil {
			return link, nil
		}

		if errors.Is(err, ErrCodeTaken) {
			s.logger.Warn("generated code collided, retrying",
				zap.String("code", link.Code),
				zap.Int("attempt", attempt+1),
			)

			continue
		}

		return nil, err
	}

	return nil, ErrGenerateCode
}

// ValidTarget reports whether raw parses as an absolute http or https URL.
func ValidTarget(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ValidCode reports whether code fits the URL-safe short-code alphabet.
func ValidCode(code string) bool {
	if len(code) == 0 || len(code) > maxCodeLength {
		return false
	}

	for _, r := range code {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}

	return true
}
