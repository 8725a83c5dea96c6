// Package bin provides the storage bin catalog. Bins are the physical
// locations goods are placed into and are loaded from master data, never
// created implicitly by inventory operations.
package bin

import (
	"strings"
	"time"

	"bintrack/internal/core/apperror"
	"bintrack/internal/core/id"
)

// Bin represents a physical storage location.
type Bin struct {
	ID        id.ID     `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Note      *string   `db:"note" json:"note,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// New creates a bin with a generated ID.
func New(code string) *Bin {
	return &Bin{
		ID:        id.New(),
		Code:      strings.TrimSpace(code),
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks catalog invariants.
func (b *Bin) Validate() error {
	if strings.TrimSpace(b.Code) == "" {
		return apperror.NewValidation("bin code is required").
			WithDetail("field", "code")
	}
	return nil
}
