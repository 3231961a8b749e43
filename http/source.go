package http

import (
	"context"
	"fmt"

	"feed-notifier/config"
	"feed-notifier/entity"
)

// Source picks the retriever for the configured kind on every call
type Source struct {
	RSS  *RSS
	JSON JSON
}

// NewSource makes a source with default clients
func NewSource() *Source {
	return &Source{RSS: &RSS{}}
}

// Retrieve implements service.Retriever
func (s *Source) Retrieve(ctx context.Context, cfg *config.Feed) ([]entity.FeedEntry, error) {
	switch cfg.Kind {
	case config.KindRSS, "":
		return s.RSS.Retrieve(ctx, cfg)
	case config.KindJSON:
		return s.JSON.Retrieve(ctx, cfg)
	}
	return nil, fmt.Errorf("no retriever for kind %q", cfg.Kind)
}
