package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/credit-engine/internal/domain"
	"github.com/segyhp/credit-engine/internal/repository"
)

// setupTestDB connects to DATABASE_URL, applies the schema and seed data and
// skips the test when no database is configured.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for _, file := range []string{"../../scripts/init.sql", "../../scripts/seed.sql"} {
		sqlBytes, err := os.ReadFile(file)
		require.NoError(t, err)
		_, err = db.Exec(string(sqlBytes))
		require.NoError(t, err, "executing %s", file)
	}

	return db
}

func TestProductRepository_ListActive(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewProductRepository(db)
	ctx := context.Background()

	all, err := repo.ListActive(ctx, "")
	require.NoError(t, err)
	require.NotEmpty(t, all)

	for i, p := range all {
		assert.True(t, p.IsActive)
		assert.True(t, p.Bank.IsActive, "product %s of inactive bank %s", p.ID, p.BankID)
		assert.Equal(t, p.BankID, p.Bank.ID)
		assert.NotEmpty(t, p.Bank.Name)
		if i > 0 {
			assert.Less(t, all[i-1].ID, p.ID)
		}
	}

	realEstate, err := repo.ListActive(ctx, domain.CreditTypeRealEstate)
	require.NoError(t, err)
	require.NotEmpty(t, realEstate)
	for _, p := range realEstate {
		assert.Equal(t, domain.CreditTypeRealEstate, p.Type)
	}
}

func TestProductRepository_GetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewProductRepository(db)
	ctx := context.Background()

	product, err := repo.GetByID(ctx, "afriland-conso")
	require.NoError(t, err)
	assert.Equal(t, "Afriland First Bank", product.Bank.Name)
	assert.Equal(t, 15.0, product.AverageRate)
	assert.Equal(t, 100000.0, product.MinAmount)

	inactiveBank, err := repo.GetByID(ctx, "ecobank-travaux")
	require.NoError(t, err)
	assert.False(t, inactiveBank.Available())

	_, err = repo.GetByID(ctx, "does-not-exist")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
