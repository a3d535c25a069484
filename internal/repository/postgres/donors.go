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

type donorRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDonorRepository creates a new donor repository
func NewDonorRepository(db *sql.DB, logger *zap.Logger) *donorRepository {
	return &donorRepository{
		db:     db,
		logger: logger,
	}
}

func (r *donorRepository) GetByEmailAndCampaign(ctx context.Context, email, campaignID string) (*domain.Donor, error) {
	query := `
		SELECT id, campaign_id, email, name, phone, display_on_wall, display_name,
			marketing_consent, marketing_consent_at, marketing_consent_ip, segment,
			total_donated, donation_count, first_donation_at, last_donation_at,
			created_at, updated_at
		FROM donors
		WHERE email = $1 AND campaign_id = $2
	`

	var donor domain.Donor
	var phone, consentIP sql.NullString
	var consentAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, email, campaignID).Scan(
		&donor.ID,
		&donor.CampaignID,
		&donor.Email,
		&donor.Name,
		&phone,
		&donor.DisplayOnWall,
		&donor.DisplayName,
		&donor.MarketingConsent,
		&consentAt,
		&consentIP,
		&donor.Segment,
		&donor.TotalDonated,
		&donor.DonationCount,
		&donor.FirstDonationAt,
		&donor.LastDonationAt,
		&donor.CreatedAt,
		&donor.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "donor", ID: email}
	}
	if err != nil {
		r.logger.Error("Failed to get donor", zap.Error(err))
		return nil, err
	}

	if phone.Valid {
		donor.Phone = &phone.String
	}
	if consentAt.Valid {
		donor.MarketingConsentAt = &consentAt.Time
	}
	if consentIP.Valid {
		donor.MarketingConsentIP = &consentIP.String
	}

	return &donor, nil
}

func (r *donorRepository) Create(ctx context.Context, donor *domain.Donor) error {
	query := `
		INSERT INTO donors (id, campaign_id, email, name, phone, display_on_wall, display_name,
			marketing_consent, marketing_consent_at, marketing_consent_ip, segment,
			total_donated, donation_count, first_donation_at, last_donation_at,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	now := time.Now()
	if donor.ID == uuid.Nil {
		donor.ID = uuid.New()
	}
	if donor.CreatedAt.IsZero() {
		donor.CreatedAt = now
	}
	if donor.UpdatedAt.IsZero() {
		donor.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		donor.ID,
		donor.CampaignID,
		donor.Email,
		donor.Name,
		donor.Phone,
		donor.DisplayOnWall,
		donor.DisplayName,
		donor.MarketingConsent,
		donor.MarketingConsentAt,
		donor.MarketingConsentIP,
		donor.Segment,
		donor.TotalDonated,
		donor.DonationCount,
		donor.FirstDonationAt,
		donor.LastDonationAt,
		donor.CreatedAt,
		donor.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create donor", zap.Error(err))
		return err
	}

	return nil
}

func (r *donorRepository) Update(ctx context.Context, donor *domain.Donor) error {
	query := `
		UPDATE donors
		SET name = $2, phone = $3, display_on_wall = $4, display_name = $5,
			marketing_consent = $6, marketing_consent_at = $7, marketing_consent_ip = $8,
			segment = $9, total_donated = $10, donation_count = $11,
			last_donation_at = $12, updated_at = $13
		WHERE id = $1
	`

	donor.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		donor.ID,
		donor.Name,
		donor.Phone,
		donor.DisplayOnWall,
		donor.DisplayName,
		donor.MarketingConsent,
		donor.MarketingConsentAt,
		donor.MarketingConsentIP,
		donor.Segment,
		donor.TotalDonated,
		donor.DonationCount,
		donor.LastDonationAt,
		donor.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to update donor", zap.Error(err))
		return err
	}

	return nil
}
