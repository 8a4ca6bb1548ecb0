package repository

import (
	"context"
	"errors"
	"time"

	"github.com/segyhp/credit-engine/internal/domain"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// ProductRepository defines the interface for the credit product catalogue
type ProductRepository interface {
	// ListActive returns active products of active banks, optionally
	// restricted to one credit type, ordered by product ID.
	ListActive(ctx context.Context, creditType domain.CreditType) ([]domain.CreditProduct, error)

	// GetByID retrieves a product with its bank. Returns ErrNotFound when missing.
	GetByID(ctx context.Context, id string) (*domain.CreditProduct, error)
}

// Cache is a string key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value stored under key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key. A zero ttl never expires.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
