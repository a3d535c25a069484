package service

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/givespark/checkout-api/internal/domain"
	"github.com/givespark/checkout-api/internal/repository"
	"github.com/givespark/checkout-api/pkg/errors"
)

// uniqueViolation is the postgres error code for a unique constraint
// violation, hit when two first orders from the same email race.
const uniqueViolation = "23505"

type donorService struct {
	repos      *repository.Repositories
	campaignID string
	policy     domain.TotalsPolicy
	logger     *zap.Logger
}

// NewDonorService creates a new donor service
func NewDonorService(repos *repository.Repositories, campaignID string, policy domain.TotalsPolicy, logger *zap.Logger) *donorService {
	return &donorService{
		repos:      repos,
		campaignID: campaignID,
		policy:     policy,
		logger:     logger,
	}
}

// Reconcile upserts the donor record for the order's contact info, keyed
// by (email, campaign). Callers treat failures as best-effort: they are
// logged and never fail the checkout.
func (s *donorService) Reconcile(ctx context.Context, req CheckoutRequest, orderTotal float64, clientIP string) error {
	email := strings.ToLower(strings.TrimSpace(req.CustomerInfo.Email))

	existing, err := s.repos.Donor.GetByEmailAndCampaign(ctx, email, s.campaignID)
	if err != nil {
		var notFound *errors.ErrNotFound
		if !stderrors.As(err, &notFound) {
			return err
		}
		return s.insert(ctx, email, req, orderTotal, clientIP)
	}

	return s.update(ctx, existing, req, orderTotal, clientIP)
}

func (s *donorService) insert(ctx context.Context, email string, req CheckoutRequest, orderTotal float64, clientIP string) error {
	now := time.Now()
	prefs := req.DonorPreferences

	donor := &domain.Donor{
		CampaignID:      s.campaignID,
		Email:           email,
		Name:            req.CustomerInfo.Name,
		DisplayOnWall:   true,
		DisplayName:     req.CustomerInfo.Name,
		Segment:         domain.DonorSegmentFirstTime,
		TotalDonated:    orderTotal,
		DonationCount:   1,
		FirstDonationAt: now,
		LastDonationAt:  now,
	}

	if req.CustomerInfo.Phone != "" {
		phone := req.CustomerInfo.Phone
		donor.Phone = &phone
	}

	if prefs != nil {
		if prefs.DisplayOnWall != nil {
			donor.DisplayOnWall = *prefs.DisplayOnWall
		}
		if prefs.DisplayName != nil && *prefs.DisplayName != "" {
			donor.DisplayName = *prefs.DisplayName
		}
		if prefs.MarketingConsent != nil && *prefs.MarketingConsent {
			donor.MarketingConsent = true
			donor.MarketingConsentAt = &now
			if clientIP != "" {
				donor.MarketingConsentIP = &clientIP
			}
		}
	}

	err := s.repos.Donor.Create(ctx, donor)
	if err == nil {
		return nil
	}

	// A concurrent checkout may have inserted the same donor first.
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		existing, getErr := s.repos.Donor.GetByEmailAndCampaign(ctx, email, s.campaignID)
		if getErr != nil {
			return getErr
		}
		return s.update(ctx, existing, req, orderTotal, clientIP)
	}

	return err
}

func (s *donorService) update(ctx context.Context, donor *domain.Donor, req CheckoutRequest, orderTotal float64, clientIP string) error {
	now := time.Now()
	prefs := req.DonorPreferences

	if req.CustomerInfo.Name != "" {
		donor.Name = req.CustomerInfo.Name
	}
	if req.CustomerInfo.Phone != "" {
		phone := req.CustomerInfo.Phone
		donor.Phone = &phone
	}

	if prefs != nil {
		if prefs.DisplayOnWall != nil {
			donor.DisplayOnWall = *prefs.DisplayOnWall
		}
		if prefs.DisplayName != nil && *prefs.DisplayName != "" {
			donor.DisplayName = *prefs.DisplayName
		}
		if prefs.MarketingConsent != nil {
			granted := *prefs.MarketingConsent
			if granted && !donor.MarketingConsent {
				donor.MarketingConsentAt = &now
				if clientIP != "" {
					donor.MarketingConsentIP = &clientIP
				}
			}
			donor.MarketingConsent = granted
		}
	}

	// Totals are only accumulated here under the always_accumulate
	// policy; the default leaves them to the payment-completion event.
	if s.policy == domain.TotalsPolicyAlwaysAccumulate {
		donor.TotalDonated = roundCents(donor.TotalDonated + orderTotal)
		donor.DonationCount++
		donor.LastDonationAt = now
		donor.Segment = domain.DonorSegmentRepeat
	}

	return s.repos.Donor.Update(ctx, donor)
}
