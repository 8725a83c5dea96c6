package history

import (
	"context"
	"time"

	"bintrack/internal/core/apperror"
	"bintrack/pkg/logger"
)

// Service exposes read access to the audit trail. Writes go through the
// ledger so every entry stays paired with its ledger mutation.
type Service struct {
	repo Repository
}

// NewService creates a history service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Logs returns history entries newest-first. A non-empty date filters to
// entries recorded on that calendar day, format 2006-01-02 in server local
// time.
func (s *Service) Logs(ctx context.Context, date string) ([]*Entry, error) {
	var filter *time.Time
	if date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			return nil, apperror.NewValidation("invalid date, expected YYYY-MM-DD").
				WithDetail("date", date)
		}
		filter = &parsed
	}

	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		logger.Error(ctx, "history query failed", "error", err)
		return nil, apperror.NewStoreFailure(err)
	}
	if entries == nil {
		entries = []*Entry{}
	}
	return entries, nil
}
