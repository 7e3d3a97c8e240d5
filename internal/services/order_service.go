// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"gorm.io/gorm"

	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/apperrors"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/config"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/models"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/utils"
)

type OrderService struct {
	db                  *gorm.DB
	config              *config.Config
	paymentService      *PaymentService
	notificationService *NotificationService
}

func NewOrderService(db *gorm.DB, cfg *config.Config, paymentService *PaymentService, notificationService *NotificationService) *OrderService {
	return &OrderService{
		db:                  db,
		config:              cfg,
		paymentService:      paymentService,
		notificationService: notificationService,
	}
}

// CreateOrder implements the OrderCreator port. One transaction locks
// every product row, re-checks stock against the locked rows, decrements
// inventory, and persists the order with its price-at-checkout items.
// The Stripe intent is created inside the transaction so a payment
// provider failure rolls everything back.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, lines []OrderLine, delivery DeliveryInfo) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, apperrors.InvalidInput("order must contain at least one line")
	}

	orderNumber, err := utils.GenerateOrderNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}

	order := &models.Order{
		UserID:               userID,
		OrderNumber:          orderNumber,
		Status:               models.OrderStatusPending,
		PaymentStatus:        models.PaymentStatusPending,
		DeliveryFee:          s.config.Order.DeliveryFee,
		DeliveryAddress:      delivery.Address,
		DeliveryInstructions: delivery.Instructions,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subtotal := 0.0
		orderItems := make([]models.OrderItem, 0, len(lines))

		for _, line := range lines {
			var product models.Product
			err := tx.Set("gorm:query_option", "FOR UPDATE").
				First(&product, "id = ?", line.ProductID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("product no longer exists")
			}
			if err != nil {
				return fmt.Errorf("database error: %w", err)
			}

			if !product.IsActive {
				return apperrors.OutOfStock(fmt.Sprintf("%s is no longer available", product.Name))
			}
			if product.StockQuantity < line.Quantity {
				return apperrors.OutOfStock(fmt.Sprintf("only %d of %s in stock", product.StockQuantity, product.Name))
			}

			err = tx.Model(&models.Product{}).
				Where("id = ?", product.ID).
				UpdateColumns(map[string]interface{}{
					"stock_quantity": gorm.Expr("stock_quantity - ?", line.Quantity),
					"sales_count":    gorm.Expr("sales_count + ?", line.Quantity),
					"in_stock":       gorm.Expr("stock_quantity - ? > 0", line.Quantity),
				}).Error
			if err != nil {
				return fmt.Errorf("failed to decrement stock: %w", err)
			}

			lineTotal := float64(line.Quantity) * line.UnitPrice
			subtotal += lineTotal
			orderItems = append(orderItems, models.OrderItem{
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				TotalPrice:  lineTotal,
			})
		}

		order.Subtotal = subtotal
		order.Total = subtotal + order.DeliveryFee
		order.Items = orderItems

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		if s.paymentService.Enabled() {
			intent, err := s.paymentService.CreatePaymentIntent(order)
			if err != nil {
				return apperrors.Downstream(err, "payment provider unavailable")
			}
			order.PaymentReference = intent.PaymentID
			order.PaymentClientSecret = intent.ClientSecret
			if err := tx.Model(order).UpdateColumn("payment_reference", intent.PaymentID).Error; err != nil {
				return fmt.Errorf("failed to store payment reference: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.sendOrderPlacedNotification(order)

	return order, nil
}

// GetOrder returns an order owned by the caller. Another user's order is
// indistinguishable from a missing one.
func (s *OrderService) GetOrder(userID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").
		First(&order, "id = ? AND user_id = ?", orderID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &order, nil
}

func (s *OrderService) ListOrders(userID uuid.UUID, status string, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "total", "status"})
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	return orders, total, nil
}

// CancelOrder cancels a pending order and restores the inventory it
// reserved. Orders past pending have left the kitchen and cannot be
// cancelled here.
func (s *OrderService) CancelOrder(userID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Set("gorm:query_option", "FOR UPDATE").
			First(&order, "id = ? AND user_id = ?", orderID, userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("order not found")
		}
		if err != nil {
			return fmt.Errorf("database error: %w", err)
		}

		if order.Status != models.OrderStatusPending {
			return apperrors.InvalidInput("only pending orders can be cancelled")
		}

		// Without payment webhooks the local payment status can lag the
		// provider; check the live intent before giving the stock back.
		if s.paymentService.Enabled() && order.PaymentReference != "" {
			intent, err := s.paymentService.GetPaymentIntent(order.PaymentReference)
			if err != nil {
				return apperrors.Downstream(err, "payment provider unavailable")
			}
			if intent.Status == stripe.PaymentIntentStatusSucceeded {
				return apperrors.InvalidInput("the order has already been paid and can no longer be cancelled")
			}
		}

		var items []models.OrderItem
		if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}

		for _, item := range items {
			err := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				UpdateColumns(map[string]interface{}{
					"stock_quantity": gorm.Expr("stock_quantity + ?", item.Quantity),
					"sales_count":    gorm.Expr("sales_count - ?", item.Quantity),
					"in_stock":       true,
				}).Error
			if err != nil {
				return fmt.Errorf("failed to restock product: %w", err)
			}
		}
		order.Items = items

		if err := tx.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// The order is cancelled; void the intent so the client secret handed
	// out at checkout cannot still complete a payment. Stripe expires
	// abandoned intents on its own, so a failure here is only logged.
	if s.paymentService.Enabled() && order.PaymentReference != "" {
		if err := s.paymentService.CancelPaymentIntent(order.PaymentReference); err != nil {
			logrus.WithError(err).WithField("order_id", order.ID).Warn("failed to cancel payment intent")
		}
	}

	return &order, nil
}

// Helper methods
func (s *OrderService) sendOrderPlacedNotification(order *models.Order) {
	data := models.JSONB{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
		"total":        order.Total,
	}
	err := s.notificationService.Create(order.UserID, models.NotificationTypeOrderPlaced,
		"Order placed", fmt.Sprintf("Order %s was placed successfully", order.OrderNumber), data)
	if err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Warn("failed to create order notification")
	}
}
