package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/givespark/checkout-api/internal/repository"
	"github.com/givespark/checkout-api/pkg/errors"
)

const (
	idempotencyKeyContext  = "idempotency_key"
	idempotencyHashContext = "idempotency_hash"
)

// IdempotencyMiddleware collapses retried submissions carrying an
// Idempotency-Key header onto the stored result. Requests without the
// header are never deduplicated: structurally identical submissions
// create distinct orders.
func IdempotencyMiddleware(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Idempotency-Key")
		if key == "" {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		sum := sha256.Sum256(body)
		requestHash := hex.EncodeToString(sum[:])

		record, err := repos.Idempotency.Get(c.Request.Context(), key)
		if err != nil {
			var notFound *errors.ErrNotFound
			if !stderrors.As(err, &notFound) {
				logger.Error("Failed to look up idempotency key", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}

			c.Set(idempotencyKeyContext, key)
			c.Set(idempotencyHashContext, requestHash)
			c.Next()
			return
		}

		if record.RequestHash != requestHash {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error": "idempotency key was already used with a different request",
			})
			return
		}

		// Replay: return the stored session URL without a new order.
		c.AbortWithStatusJSON(http.StatusOK, gin.H{"url": record.SessionURL})
	}
}

// GetIdempotencyInfo returns the idempotency key and request hash
// captured for this request, if any.
func GetIdempotencyInfo(c *gin.Context) (key, requestHash string, ok bool) {
	keyVal, exists := c.Get(idempotencyKeyContext)
	if !exists {
		return "", "", false
	}
	hashVal, exists := c.Get(idempotencyHashContext)
	if !exists {
		return "", "", false
	}
	return keyVal.(string), hashVal.(string), true
}
