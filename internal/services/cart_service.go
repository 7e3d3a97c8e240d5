// internal/services/cart_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/apperrors"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/models"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/utils"
)

// ProductCatalog exposes the catalog lookups the cart needs. Implemented
// by ProductService.
type ProductCatalog interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductInfo, error)
}

// OrderCreator turns validated cart lines into a persisted order.
// Implemented by OrderService.
type OrderCreator interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, lines []OrderLine, delivery DeliveryInfo) (*models.Order, error)
}

// ProductInfo is the catalog snapshot the cart validates against. Plain
// value, no GORM model crosses this boundary.
type ProductInfo struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	InStock       bool      `json:"in_stock"`
	IsActive      bool      `json:"is_active"`
}

// OrderLine is an immutable snapshot handed to the OrderCreator. Prices
// are re-read from the catalog at checkout time, not add time.
type OrderLine struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
}

type DeliveryInfo struct {
	Address      models.JSONB `json:"address"`
	Instructions string       `json:"instructions,omitempty"`
}

type LineIssueCode string

const (
	LineIssueOK           LineIssueCode = "ok"
	LineIssuePriceChanged LineIssueCode = "price_changed"
	LineIssueOutOfStock   LineIssueCode = "out_of_stock"
	LineIssueInactive     LineIssueCode = "inactive"
	LineIssueRemoved      LineIssueCode = "removed"
	LineIssueEmptyCart    LineIssueCode = "empty_cart"
)

type LineIssue struct {
	ItemID    *uuid.UUID    `json:"item_id,omitempty"`
	ProductID *uuid.UUID    `json:"product_id,omitempty"`
	Issue     LineIssueCode `json:"issue"`
}

// ValidationReport is the pre-checkout readiness assessment. Lines with
// problems are reported, never auto-removed; a price change alone does
// not invalidate the cart.
type ValidationReport struct {
	Valid  bool        `json:"valid"`
	Issues []LineIssue `json:"issues,omitempty"`
}

func (r *ValidationReport) flag(item *models.CartItem, code LineIssueCode, blocking bool) {
	itemID := item.ID
	productID := item.ProductID
	r.Issues = append(r.Issues, LineIssue{ItemID: &itemID, ProductID: &productID, Issue: code})
	if blocking {
		r.Valid = false
	}
}

func (r *ValidationReport) hasPriceChanges() bool {
	for _, issue := range r.Issues {
		if issue.Issue == LineIssuePriceChanged {
			return true
		}
	}
	return false
}

type CartSummaryItem struct {
	ItemID       uuid.UUID     `json:"item_id"`
	ProductID    uuid.UUID     `json:"product_id"`
	ProductName  string        `json:"product_name,omitempty"`
	Quantity     int           `json:"quantity"`
	UnitPrice    float64       `json:"unit_price"`
	CurrentPrice float64       `json:"current_price"`
	LineTotal    float64       `json:"line_total"`
	Issue        LineIssueCode `json:"issue"`
}

// CartSummary is a read-only view. Subtotal is quantity x current catalog
// price over purchasable lines; unavailable lines contribute nothing.
type CartSummary struct {
	Items          []CartSummaryItem `json:"items"`
	Subtotal       float64           `json:"subtotal"`
	ItemCount      int               `json:"item_count"`
	NeedsAttention bool              `json:"needs_attention"`
}

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

type CheckoutRequest struct {
	DeliveryAddress      models.JSONB `json:"delivery_address" validate:"required"`
	DeliveryInstructions string       `json:"delivery_instructions,omitempty"`
	ConfirmPriceChanges  bool         `json:"confirm_price_changes,omitempty"`
}

// CartService owns the single active cart per user. All catalog and order
// access goes through the collaborator interfaces; persistence goes
// through CartStore.
type CartService struct {
	store   CartStore
	catalog ProductCatalog
	orders  OrderCreator
	cache   *CartCache
	sf      singleflight.Group
}

// NewCartService wires the cart core. cache may be nil, in which case
// every summary is recomputed from the database.
func NewCartService(store CartStore, catalog ProductCatalog, orders OrderCreator, cache *CartCache) *CartService {
	return &CartService{
		store:   store,
		catalog: catalog,
		orders:  orders,
		cache:   cache,
	}
}

// GetOrCreateCart returns the user's cart, creating the row on first
// access. Idempotent; the existing cart is returned untouched.
func (s *CartService) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.store.GetByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	return s.store.CreateForUser(ctx, userID)
}

// AddToCart adds a product to the cart, merging into the existing line
// when the product is already present. The stock check always covers the
// combined quantity. The unit-price snapshot is taken on first add and
// survives merges; drift surfaces through the summary and validation.
func (s *CartService) AddToCart(ctx context.Context, userID uuid.UUID, req *AddToCartRequest) (*models.CartItem, error) {
	if req.Quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be greater than zero")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetItemByProduct(ctx, cart.ID, req.ProductID)
	switch {
	case err == nil:
		if err := availabilityErr(product, existing.Quantity+req.Quantity); err != nil {
			return nil, err
		}
		if err := s.store.IncrementItemQuantity(ctx, existing.ID, req.Quantity); err != nil {
			return nil, err
		}
		s.invalidateSummary(ctx, cart.ID)
		return s.store.GetItem(ctx, cart.ID, existing.ID)

	case errors.Is(err, apperrors.ErrNotFound):
		if err := availabilityErr(product, req.Quantity); err != nil {
			return nil, err
		}
		item := &models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  req.Quantity,
			UnitPrice: product.Price,
		}
		if err := s.store.InsertItem(ctx, item); err != nil {
			return nil, err
		}
		s.invalidateSummary(ctx, cart.ID)
		return item, nil

	default:
		return nil, err
	}
}

// UpdateCartItem sets the absolute quantity of a cart line. Quantity 0
// removes the line and returns (nil, nil); negative quantities are
// rejected; positive quantities are revalidated against current stock.
// A line outside the caller's cart is a NotFound, not a Forbidden.
func (s *CartService) UpdateCartItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity < 0 {
		return nil, apperrors.InvalidInput("quantity cannot be negative")
	}

	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.store.GetItem(ctx, cart.ID, itemID)
	if err != nil {
		return nil, err
	}

	if quantity == 0 {
		if err := s.store.DeleteItem(ctx, item.ID); err != nil {
			return nil, err
		}
		s.invalidateSummary(ctx, cart.ID)
		return nil, nil
	}

	product, err := s.catalog.GetProduct(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if err := availabilityErr(product, quantity); err != nil {
		return nil, err
	}

	if err := s.store.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
		return nil, err
	}
	s.invalidateSummary(ctx, cart.ID)

	return s.store.GetItem(ctx, cart.ID, itemID)
}

// RemoveFromCart deletes a cart line. An id that never belonged to the
// caller's cart is a NotFound; a line a concurrent request already
// removed succeeds silently, which the soft-delete tombstone makes
// distinguishable.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, itemID uuid.UUID) error {
	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return err
	}

	item, err := s.store.GetItem(ctx, cart.ID, itemID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		existed, exErr := s.store.ItemExisted(ctx, cart.ID, itemID)
		if exErr != nil {
			return exErr
		}
		if existed {
			return nil
		}
		return err
	}

	if err := s.store.DeleteItem(ctx, item.ID); err != nil {
		return err
	}
	s.invalidateSummary(ctx, cart.ID)

	return nil
}

// ClearCart removes every line. The cart row itself persists.
func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.store.ClearItems(ctx, cart.ID); err != nil {
		return err
	}
	s.invalidateSummary(ctx, cart.ID)

	return nil
}

// GetCartSummary computes the display summary against live catalog
// state. Served from the Redis cache when warm; recomputation on a miss
// is singleflight-guarded per cart. Never mutates the cart.
func (s *CartService) GetCartSummary(ctx context.Context, userID uuid.UUID) (*CartSummary, error) {
	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		summary, err := s.cache.GetSummary(ctx, cart.ID)
		if err == nil {
			return summary, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			logrus.WithError(err).WithField("cart_id", cart.ID).Warn("cart summary cache read failed")
		}
	}

	v, err, _ := s.sf.Do(cart.ID.String(), func() (interface{}, error) {
		summary, err := s.computeSummary(ctx, cart)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetSummary(ctx, cart.ID, summary); err != nil {
				logrus.WithError(err).WithField("cart_id", cart.ID).Warn("cart summary cache write failed")
			}
		}
		return summary, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*CartSummary), nil
}

// ValidateCartForCheckout reports whether the cart can be converted to an
// order. Problem lines are reported and left in place for the user to
// resolve.
func (s *CartService) ValidateCartForCheckout(ctx context.Context, userID uuid.UUID) (*ValidationReport, error) {
	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	report, _, err := s.validateItems(ctx, cart.Items)
	return report, err
}

// ConvertCartToOrder re-validates the cart, snapshots each line at the
// current catalog price, and hands the snapshots to the OrderCreator.
// The cart is cleared only after the order exists; any failure before
// that leaves the cart intact so checkout can be retried.
func (s *CartService) ConvertCartToOrder(ctx context.Context, userID uuid.UUID, req *CheckoutRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.EmptyCart("cart is empty")
	}

	report, products, err := s.validateItems(ctx, cart.Items)
	if err != nil {
		return nil, err
	}
	if !report.Valid {
		return nil, apperrors.OutOfStock("cart contains unavailable items")
	}
	if report.hasPriceChanges() && !req.ConfirmPriceChanges {
		return nil, apperrors.InvalidInput("prices changed since items were added, confirm the new prices to continue")
	}

	lines := make([]OrderLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		product := products[item.ProductID]
		lines = append(lines, OrderLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
		})
	}

	order, err := s.orders.CreateOrder(ctx, userID, lines, DeliveryInfo{
		Address:      req.DeliveryAddress,
		Instructions: req.DeliveryInstructions,
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.ClearItems(ctx, cart.ID); err != nil {
		// The order exists; a stale cart is recoverable, a lost order is not.
		logrus.WithError(err).WithField("cart_id", cart.ID).Error("failed to clear cart after checkout")
	}
	s.invalidateSummary(ctx, cart.ID)

	return order, nil
}

// Helper methods
func (s *CartService) computeSummary(ctx context.Context, cart *models.Cart) (*CartSummary, error) {
	summary := &CartSummary{Items: make([]CartSummaryItem, 0, len(cart.Items))}

	for _, item := range cart.Items {
		entry := CartSummaryItem{
			ItemID:    item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Issue:     LineIssueOK,
		}

		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			entry.Issue = LineIssueRemoved
		case err != nil:
			return nil, err
		default:
			entry.ProductName = product.Name
			entry.CurrentPrice = product.Price
			switch {
			case !product.IsActive:
				entry.Issue = LineIssueInactive
			case !product.InStock || product.StockQuantity < item.Quantity:
				entry.Issue = LineIssueOutOfStock
			default:
				if product.Price != item.UnitPrice {
					entry.Issue = LineIssuePriceChanged
				}
				entry.LineTotal = float64(item.Quantity) * product.Price
				summary.Subtotal += entry.LineTotal
			}
		}

		if entry.Issue != LineIssueOK {
			summary.NeedsAttention = true
		}
		summary.ItemCount += item.Quantity
		summary.Items = append(summary.Items, entry)
	}

	return summary, nil
}

// validateItems checks every line against the live catalog and returns
// the report plus the catalog snapshots it fetched, so checkout does not
// re-read the products it just validated.
func (s *CartService) validateItems(ctx context.Context, items []models.CartItem) (*ValidationReport, map[uuid.UUID]*ProductInfo, error) {
	if len(items) == 0 {
		return &ValidationReport{Valid: false, Issues: []LineIssue{{Issue: LineIssueEmptyCart}}}, nil, nil
	}

	report := &ValidationReport{Valid: true}
	products := make(map[uuid.UUID]*ProductInfo, len(items))

	for i := range items {
		item := &items[i]

		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			report.flag(item, LineIssueRemoved, true)
			continue
		case err != nil:
			return nil, nil, err
		}
		products[item.ProductID] = product

		switch {
		case !product.IsActive:
			report.flag(item, LineIssueInactive, true)
		case !product.InStock || product.StockQuantity < item.Quantity:
			report.flag(item, LineIssueOutOfStock, true)
		case product.Price != item.UnitPrice:
			report.flag(item, LineIssuePriceChanged, false)
		}
	}

	return report, products, nil
}

func (s *CartService) invalidateSummary(ctx context.Context, cartID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSummary(ctx, cartID); err != nil {
		logrus.WithError(err).WithField("cart_id", cartID).Warn("cart summary cache invalidation failed")
	}
}

// availabilityErr maps a catalog snapshot and requested quantity to the
// typed out-of-stock error, or nil when the product can be purchased.
func availabilityErr(product *ProductInfo, requested int) error {
	if !product.IsActive {
		return apperrors.OutOfStock(fmt.Sprintf("%s is no longer available", product.Name))
	}
	if !product.InStock || product.StockQuantity < requested {
		return apperrors.OutOfStock(fmt.Sprintf("only %d of %s in stock", product.StockQuantity, product.Name))
	}
	return nil
}
