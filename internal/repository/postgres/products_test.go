package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/givespark/checkout-api/internal/domain"
)

func TestProductRepository_GetByIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db, zap.NewNop())

	id1 := uuid.New()
	id2 := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "name", "price", "cost", "stripe_price_id", "is_active", "created_at", "updated_at"}).
		AddRow(id1.String(), "Cookie Dough Tub", 25.00, 10.00, nil, true, now, now).
		AddRow(id2.String(), "Raffle Ticket", 5.00, 0.00, "price_1ABC", true, now, now)

	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs(pq.Array([]string{id1.String(), id2.String()})).
		WillReturnRows(rows)

	products, err := repo.GetByIDs(context.Background(), []uuid.UUID{id1, id2})
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "Cookie Dough Tub", products[0].Name)
	assert.Nil(t, products[0].StripePriceID)
	require.NotNil(t, products[1].StripePriceID)
	assert.Equal(t, "price_1ABC", *products[1].StripePriceID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByIDs_NoMatches(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db, zap.NewNop())

	mock.ExpectQuery("SELECT (.+) FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "cost", "stripe_price_id", "is_active", "created_at", "updated_at"}))

	products, err := repo.GetByIDs(context.Background(), []uuid.UUID{uuid.New()})
	require.NoError(t, err)
	assert.Empty(t, products)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db, zap.NewNop())

	product := &domain.Product{Name: "Cookie Dough Tub", Price: 25.00, Cost: 10.00, IsActive: true}

	mock.ExpectExec("INSERT INTO products").
		WithArgs(sqlmock.AnyArg(), "Cookie Dough Tub", 25.00, 10.00, nil, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), product))
	assert.NotEqual(t, uuid.Nil, product.ID, "id is assigned on insert")
	assert.False(t, product.CreatedAt.IsZero())

	assert.NoError(t, mock.ExpectationsWereMet())
}
