package bin

import (
	"context"
	"strings"

	"bintrack/pkg/logger"
)

// searchLimit caps autocomplete results.
const searchLimit = 10

// Service provides catalog operations for bins.
type Service struct {
	repo Repository
}

// NewService creates a bin catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search returns ranked code suggestions for an autocomplete term. A blank
// term matches everything, so it yields the first codes in alphabetical
// order.
func (s *Service) Search(ctx context.Context, term string) ([]*Bin, error) {
	term = strings.TrimSpace(term)

	bins, err := s.repo.Search(ctx, term, searchLimit)
	if err != nil {
		logger.Error(ctx, "bin search failed", "term", term, "error", err)
		return []*Bin{}, nil
	}
	if bins == nil {
		bins = []*Bin{}
	}
	return bins, nil
}

// GetByCode resolves a bin by its exact code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Bin, error) {
	return s.repo.GetByCode(ctx, code)
}
