package item

import (
	"context"
	"strings"

	"bintrack/pkg/logger"
)

const searchLimit = 10

// Service provides catalog operations for items.
type Service struct {
	repo Repository
}

// NewService creates an item catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search returns ranked code suggestions for an autocomplete term. A blank
// term yields the first codes in alphabetical order.
func (s *Service) Search(ctx context.Context, term string) ([]*Item, error) {
	term = strings.TrimSpace(term)

	items, err := s.repo.Search(ctx, term, searchLimit)
	if err != nil {
		logger.Error(ctx, "item search failed", "term", term, "error", err)
		return []*Item{}, nil
	}
	if items == nil {
		items = []*Item{}
	}
	return items, nil
}

// GetByCode resolves an item by its exact code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Item, error) {
	return s.repo.GetByCode(ctx, code)
}
