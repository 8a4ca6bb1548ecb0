package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/segyhp/credit-engine/internal/domain"
)

const catalogKeyPrefix = "catalog:"

// CachedProductRepository serves ListActive from a Cache and falls through to
// the wrapped repository on a miss. Cache failures are logged and never fail
// the read.
type CachedProductRepository struct {
	next   ProductRepository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedProductRepository(next ProductRepository, cache Cache, ttl time.Duration, logger *zap.Logger) *CachedProductRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedProductRepository{next: next, cache: cache, ttl: ttl, logger: logger}
}

func catalogKey(creditType domain.CreditType) string {
	if creditType == "" {
		return catalogKeyPrefix + "all"
	}
	return catalogKeyPrefix + string(creditType)
}

func (r *CachedProductRepository) ListActive(ctx context.Context, creditType domain.CreditType) ([]domain.CreditProduct, error) {
	key := catalogKey(creditType)

	raw, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("catalogue cache read failed", zap.String("key", key), zap.Error(err))
	}
	if ok {
		var products []domain.CreditProduct
		if err := json.Unmarshal([]byte(raw), &products); err == nil {
			return products, nil
		}
		r.logger.Warn("discarding corrupt catalogue cache entry", zap.String("key", key))
	}

	products, err := r.next.ListActive(ctx, creditType)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, products)
	return products, nil
}

// GetByID always reads through; single products are not cached.
func (r *CachedProductRepository) GetByID(ctx context.Context, id string) (*domain.CreditProduct, error) {
	return r.next.GetByID(ctx, id)
}

// Refresh reloads the catalogue for every credit type and the unfiltered
// listing into the cache. It returns the number of products in the full listing.
func (r *CachedProductRepository) Refresh(ctx context.Context) (int, error) {
	all, err := r.next.ListActive(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("load catalogue: %w", err)
	}
	r.store(ctx, catalogKey(""), all)

	byType := make(map[domain.CreditType][]domain.CreditProduct, len(domain.CreditTypes))
	for _, ct := range domain.CreditTypes {
		byType[ct] = []domain.CreditProduct{}
	}
	for _, p := range all {
		byType[p.Type] = append(byType[p.Type], p)
	}
	for _, ct := range domain.CreditTypes {
		r.store(ctx, catalogKey(ct), byType[ct])
	}

	return len(all), nil
}

func (r *CachedProductRepository) store(ctx context.Context, key string, products []domain.CreditProduct) {
	payload, err := json.Marshal(products)
	if err != nil {
		r.logger.Warn("catalogue encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := r.cache.Set(ctx, key, string(payload), r.ttl); err != nil {
		r.logger.Warn("catalogue cache write failed", zap.String("key", key), zap.Error(err))
	}
}
