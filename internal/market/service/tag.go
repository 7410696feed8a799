package service

import (
	"context"

	"github.com/northmarket/bazaar/internal/market/store"
)

// TagService lists the tags currently in use across all items.
type TagService struct {
	Store store.Store
}

func (s *TagService) List(ctx context.Context) ([]string, error) {
	return s.Store.Tags().ListTags(ctx)
}
