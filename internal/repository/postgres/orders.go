package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/givespark/checkout-api/internal/domain"
	"github.com/givespark/checkout-api/pkg/errors"
)

type orderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) *orderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, campaign_id, fundraiser_id, customer_email, customer_name,
			customer_phone, total_amount, profit_amount, status, payment_session_id,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	now := time.Now()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.CampaignID,
		order.FundraiserID,
		order.CustomerEmail,
		order.CustomerName,
		order.CustomerPhone,
		order.TotalAmount,
		order.ProfitAmount,
		order.Status,
		order.PaymentSessionID,
		order.CreatedAt,
		order.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create order", zap.Error(err))
		return err
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, campaign_id, fundraiser_id, customer_email, customer_name, customer_phone,
			total_amount, profit_amount, status, payment_session_id, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order domain.Order
	var fundraiserID, customerName, customerPhone, sessionID sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.CampaignID,
		&fundraiserID,
		&order.CustomerEmail,
		&customerName,
		&customerPhone,
		&order.TotalAmount,
		&order.ProfitAmount,
		&order.Status,
		&sessionID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get order by ID", zap.Error(err))
		return nil, err
	}

	if fundraiserID.Valid {
		order.FundraiserID = &fundraiserID.String
	}
	if customerName.Valid {
		order.CustomerName = &customerName.String
	}
	if customerPhone.Valid {
		order.CustomerPhone = &customerPhone.String
	}
	if sessionID.Valid {
		order.PaymentSessionID = &sessionID.String
	}

	return &order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, time.Now())
	if err != nil {
		r.logger.Error("Failed to update order status", zap.Error(err))
		return err
	}

	return nil
}

func (r *orderRepository) UpdatePaymentSession(ctx context.Context, id uuid.UUID, sessionID string, status domain.OrderStatus) error {
	query := `
		UPDATE orders
		SET payment_session_id = $2, status = $3, updated_at = $4
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, sessionID, status, time.Now())
	if err != nil {
		r.logger.Error("Failed to update order payment session", zap.Error(err))
		return err
	}

	return nil
}
