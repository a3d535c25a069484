package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/givespark/checkout-api/internal/domain"
	"github.com/givespark/checkout-api/internal/repository"
	"github.com/givespark/checkout-api/pkg/errors"
)

// OrderResponse represents the order response
type OrderResponse struct {
	ID               string              `json:"id"`
	CampaignID       string              `json:"campaign_id"`
	FundraiserID     *string             `json:"fundraiser_id,omitempty"`
	CustomerEmail    string              `json:"customer_email"`
	CustomerName     *string             `json:"customer_name,omitempty"`
	CustomerPhone    *string             `json:"customer_phone,omitempty"`
	TotalAmount      float64             `json:"total_amount"`
	ProfitAmount     float64             `json:"profit_amount"`
	Status           domain.OrderStatus  `json:"status"`
	PaymentSessionID *string             `json:"payment_session_id,omitempty"`
	Items            []OrderItemResponse `json:"items"`
	CreatedAt        string              `json:"created_at"`
	UpdatedAt        string              `json:"updated_at"`
}

type OrderItemResponse struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	UnitCost  float64 `json:"unit_cost"`
	Subtotal  float64 `json:"subtotal"`
}

// HandleGetOrder handles GET /v1/admin/orders/:id
func HandleGetOrder(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderIDStr := c.Param("id")
		orderID, err := uuid.Parse(orderIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		order, err := repos.Order.GetByID(c.Request.Context(), orderID)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			logger.Error("Failed to get order", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		items, err := repos.OrderItem.GetByOrderID(c.Request.Context(), orderID)
		if err != nil {
			logger.Error("Failed to get order items", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		itemResponses := make([]OrderItemResponse, len(items))
		for i, item := range items {
			itemResponses[i] = OrderItemResponse{
				ProductID: item.ProductID.String(),
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				UnitCost:  item.UnitCost,
				Subtotal:  item.Subtotal,
			}
		}

		c.JSON(http.StatusOK, OrderResponse{
			ID:               order.ID.String(),
			CampaignID:       order.CampaignID,
			FundraiserID:     order.FundraiserID,
			CustomerEmail:    order.CustomerEmail,
			CustomerName:     order.CustomerName,
			CustomerPhone:    order.CustomerPhone,
			TotalAmount:      order.TotalAmount,
			ProfitAmount:     order.ProfitAmount,
			Status:           order.Status,
			PaymentSessionID: order.PaymentSessionID,
			Items:            itemResponses,
			CreatedAt:        order.CreatedAt.Format(time.RFC3339),
			UpdatedAt:        order.UpdatedAt.Format(time.RFC3339),
		})
	}
}
