package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/givespark/checkout-api/internal/api/middleware"
	"github.com/givespark/checkout-api/internal/config"
	"github.com/givespark/checkout-api/internal/domain"
	"github.com/givespark/checkout-api/internal/repository"
	"github.com/givespark/checkout-api/internal/service"
	"github.com/givespark/checkout-api/pkg/errors"
)

// HandleCheckout handles POST /v1/checkout
func HandleCheckout(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			validationErr := service.TranslateBindingError(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		origin := c.GetHeader("Origin")
		clientIP := middleware.ClientIP(c)

		checkoutService := service.NewCheckoutService(cfg, repos, logger)
		result, err := checkoutService.ProcessCheckout(c.Request.Context(), req, origin, clientIP)
		if err != nil {
			var catalogErr *errors.CatalogError
			if stderrors.As(err, &catalogErr) {
				logger.Error("Checkout rejected by catalog", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": catalogErr.Error()})
				return
			}

			var providerErr *errors.PaymentProviderError
			if stderrors.As(err, &providerErr) {
				logger.Error("Payment session creation failed", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create payment session"})
				return
			}

			logger.Error("Checkout failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process checkout"})
			return
		}

		// Store idempotency key if provided
		if key, requestHash, ok := middleware.GetIdempotencyInfo(c); ok {
			record := &domain.IdempotencyKey{
				Key:         key,
				OrderID:     result.Order.ID,
				RequestHash: requestHash,
				SessionURL:  result.SessionURL,
			}
			if err := repos.Idempotency.Create(c.Request.Context(), record); err != nil {
				logger.Warn("Failed to store idempotency key", zap.Error(err))
				// Don't fail the request if idempotency storage fails
			}
		}

		c.JSON(http.StatusOK, service.CheckoutResponse{URL: result.SessionURL})
	}
}
