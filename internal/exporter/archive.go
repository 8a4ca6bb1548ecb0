package exporter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/credit-engine/internal/domain"
)

const keyPrefix = "comparison:"

// ErrNotFound is returned by Load for unknown or expired comparisons.
var ErrNotFound = errors.New("comparison not found")

// Store is the key/value capability saved comparisons need.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Archive saves comparison sets as JSON under comparison:<id>.
type Archive struct {
	store Store
	ttl   time.Duration
	newID func() string
}

func NewArchive(store Store, ttl time.Duration) *Archive {
	return &Archive{store: store, ttl: ttl, newID: func() string { return uuid.NewString() }}
}

func Key(id string) string {
	return keyPrefix + id
}

// Save stores a copy of set under a fresh ID and returns the ID. set itself is
// left untouched.
func (a *Archive) Save(ctx context.Context, set domain.ComparisonSet) (string, error) {
	id := a.newID()
	set.ID = id

	payload, err := json.Marshal(set)
	if err != nil {
		return "", fmt.Errorf("encode comparison: %w", err)
	}
	if err := a.store.Set(ctx, Key(id), string(payload), a.ttl); err != nil {
		return "", fmt.Errorf("store comparison %s: %w", id, err)
	}
	return id, nil
}

// Load returns the comparison saved under id.
func (a *Archive) Load(ctx context.Context, id string) (domain.ComparisonSet, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ComparisonSet{}, ErrNotFound
	}

	raw, ok, err := a.store.Get(ctx, Key(id))
	if err != nil {
		return domain.ComparisonSet{}, fmt.Errorf("read comparison %s: %w", id, err)
	}
	if !ok {
		return domain.ComparisonSet{}, ErrNotFound
	}

	var set domain.ComparisonSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		return domain.ComparisonSet{}, fmt.Errorf("decode comparison %s: %w", id, err)
	}
	return set, nil
}
