package linkpreview

import (
	"context"
	"time"

	"github.com/nikbrunner/postmark/internal/logger"
	"github.com/nikbrunner/postmark/internal/model"
)

// Resolver resolves a preview for a URL.
type Resolver interface {
	Fetch(ctx context.Context, rawURL string) (model.Preview, error)
}

// Service resolves previews through a Cache in front of a Resolver.
type Service struct {
	resolver Resolver
	cache    Cache
	ttl      time.Duration
	log      logger.Logger
}

// NewService creates a Service. A nil cache disables caching.
func NewService(resolver Resolver, cache Cache, ttl time.Duration, log logger.Logger) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{resolver: resolver, cache: cache, ttl: ttl, log: log}
}

// Preview returns the cached preview for rawURL or resolves and caches it.
// Cache failures are logged and never fail the request. Previews carrying
// only the URL are not cached so a later request can retry upstream.
func (s *Service) Preview(ctx context.Context, rawURL string) (model.Preview, error) {
	rawURL, err := model.ValidateHTTPURL(rawURL)
	if err != nil {
		return model.Preview{}, err
	}

	if p, ok, err := s.cache.Get(ctx, rawURL); err != nil {
		s.log.Warn("preview cache read failed", logger.String("url", rawURL), logger.Error(err))
	} else if ok {
		return p, nil
	}

	p, err := s.resolver.Fetch(ctx, rawURL)
	if err != nil {
		return model.Preview{}, err
	}

	if !p.IsEmpty() {
		if err := s.cache.Set(ctx, rawURL, p, s.ttl); err != nil {
			s.log.Warn("preview cache write failed", logger.String("url", rawURL), logger.Error(err))
		}
	}
	return p, nil
}
