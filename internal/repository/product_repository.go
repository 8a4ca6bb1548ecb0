package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/segyhp/credit-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

const productColumns = `
		p.id, p.bank_id, p.name, p.type, p.min_amount, p.max_amount,
		p.min_duration_months, p.max_duration_months, p.average_rate,
		p.processing_time_hours, p.is_active, p.updated_at,
		b.id AS "bank.id", b.name AS "bank.name", b.is_active AS "bank.is_active"
`

type productRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) ListActive(ctx context.Context, creditType domain.CreditType) ([]domain.CreditProduct, error) {
	query := `
		SELECT` + productColumns + `
		FROM credit_products p
		JOIN banks b ON b.id = p.bank_id
		WHERE p.is_active AND b.is_active AND ($1 = '' OR p.type = $1)
		ORDER BY p.id
	`

	products := []domain.CreditProduct{}
	err := r.db.SelectContext(ctx, &products, query, string(creditType))
	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.CreditProduct, error) {
	query := `
		SELECT` + productColumns + `
		FROM credit_products p
		JOIN banks b ON b.id = p.bank_id
		WHERE p.id = $1
	`

	var product domain.CreditProduct
	err := r.db.GetContext(ctx, &product, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &product, nil
}
