// Package item provides the item catalog. Unlike bins, unknown item codes
// are registered on first placement so scanned labels never bounce.
package item

import (
	"strings"
	"time"

	"bintrack/internal/core/apperror"
	"bintrack/internal/core/id"
)

// Item represents a stock-keeping unit identified by its code.
type Item struct {
	ID          id.ID     `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// New creates an item with a generated ID.
func New(code string) *Item {
	return &Item{
		ID:        id.New(),
		Code:      strings.TrimSpace(code),
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks catalog invariants.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Code) == "" {
		return apperror.NewValidation("item code is required").
			WithDetail("field", "code")
	}
	return nil
}
