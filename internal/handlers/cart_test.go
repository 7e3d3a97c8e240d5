// internal/handlers/cart_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/apperrors"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/middleware"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/models"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/services"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/utils"
)

// memCartStore is a map-backed CartStore so handler tests run without
// Postgres. Semantics mirror the GORM store, including the tombstone
// behavior for removed lines.
type memCartStore struct {
	carts   map[uuid.UUID]*models.Cart
	byUser  map[uuid.UUID]uuid.UUID
	removed map[uuid.UUID]uuid.UUID
}

func newMemCartStore() *memCartStore {
	return &memCartStore{
		carts:   make(map[uuid.UUID]*models.Cart),
		byUser:  make(map[uuid.UUID]uuid.UUID),
		removed: make(map[uuid.UUID]uuid.UUID),
	}
}

func (m *memCartStore) GetByUser(_ context.Context, userID uuid.UUID) (*models.Cart, error) {
	cartID, ok := m.byUser[userID]
	if !ok {
		return nil, apperrors.NotFound("cart not found")
	}
	return m.carts[cartID], nil
}

func (m *memCartStore) CreateForUser(_ context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart := &models.Cart{UserID: userID}
	cart.ID = uuid.New()
	m.carts[cart.ID] = cart
	m.byUser[userID] = cart.ID
	return cart, nil
}

func (m *memCartStore) GetItem(_ context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	if cart, ok := m.carts[cartID]; ok {
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				item := cart.Items[i]
				return &item, nil
			}
		}
	}
	return nil, apperrors.NotFound("cart item not found")
}

func (m *memCartStore) GetItemByProduct(_ context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	if cart, ok := m.carts[cartID]; ok {
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				item := cart.Items[i]
				return &item, nil
			}
		}
	}
	return nil, apperrors.NotFound("cart item not found")
}

func (m *memCartStore) ItemExisted(_ context.Context, cartID, itemID uuid.UUID) (bool, error) {
	return m.removed[itemID] == cartID, nil
}

func (m *memCartStore) InsertItem(_ context.Context, item *models.CartItem) error {
	cart, ok := m.carts[item.CartID]
	if !ok {
		return apperrors.NotFound("cart not found")
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	cart.Items = append(cart.Items, *item)
	return nil
}

func (m *memCartStore) UpdateItemQuantity(_ context.Context, itemID uuid.UUID, quantity int) error {
	for _, cart := range m.carts {
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				cart.Items[i].Quantity = quantity
				return nil
			}
		}
	}
	return apperrors.NotFound("cart item not found")
}

func (m *memCartStore) IncrementItemQuantity(_ context.Context, itemID uuid.UUID, delta int) error {
	for _, cart := range m.carts {
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				cart.Items[i].Quantity += delta
				return nil
			}
		}
	}
	return apperrors.NotFound("cart item not found")
}

func (m *memCartStore) DeleteItem(_ context.Context, itemID uuid.UUID) error {
	for cartID, cart := range m.carts {
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
				m.removed[itemID] = cartID
				return nil
			}
		}
	}
	return nil
}

func (m *memCartStore) ClearItems(_ context.Context, cartID uuid.UUID) error {
	if cart, ok := m.carts[cartID]; ok {
		for i := range cart.Items {
			m.removed[cart.Items[i].ID] = cartID
		}
		cart.Items = nil
	}
	return nil
}

type memCatalog struct {
	products map[uuid.UUID]*services.ProductInfo
}

func (m *memCatalog) GetProduct(_ context.Context, productID uuid.UUID) (*services.ProductInfo, error) {
	product, ok := m.products[productID]
	if !ok {
		return nil, apperrors.NotFound("product not found")
	}
	snapshot := *product
	return &snapshot, nil
}

type memOrderCreator struct {
	err error
}

func (m *memOrderCreator) CreateOrder(_ context.Context, userID uuid.UUID, lines []services.OrderLine, _ services.DeliveryInfo) (*models.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	subtotal := 0.0
	for _, line := range lines {
		subtotal += float64(line.Quantity) * line.UnitPrice
	}
	order := &models.Order{
		UserID:      userID,
		OrderNumber: "TS-TEST000001",
		Status:      models.OrderStatusPending,
		Subtotal:    subtotal,
		Total:       subtotal,
	}
	order.ID = uuid.New()
	return order, nil
}

type CartHandlerTestSuite struct {
	suite.Suite
	router  *gin.Engine
	store   *memCartStore
	catalog *memCatalog
	orders  *memOrderCreator
	userID  uuid.UUID
	token   string
}

func (suite *CartHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.store = newMemCartStore()
	suite.catalog = &memCatalog{products: make(map[uuid.UUID]*services.ProductInfo)}
	suite.orders = &memOrderCreator{}
	suite.userID = uuid.New()

	token, err := utils.GenerateJWT(suite.userID, "shopper@example.com", "customer", 1)
	suite.Require().NoError(err)
	suite.token = token

	cartService := services.NewCartService(suite.store, suite.catalog, suite.orders, nil)
	handler := NewCartHandler(cartService)

	suite.router = gin.New()
	cart := suite.router.Group("/cart")
	cart.Use(middleware.AuthRequired())
	{
		cart.GET("", handler.GetCart)
		cart.GET("/summary", handler.GetCartSummary)
		cart.POST("/items", handler.AddToCart)
		cart.PUT("/items/:id", handler.UpdateCartItem)
		cart.DELETE("/items/:id", handler.RemoveFromCart)
		cart.DELETE("", handler.ClearCart)
		cart.POST("/validate", handler.ValidateCart)
		cart.POST("/checkout", handler.Checkout)
	}
}

// Helper methods
func (suite *CartHandlerTestSuite) seedProduct(name string, price float64, stock int) uuid.UUID {
	id := uuid.New()
	suite.catalog.products[id] = &services.ProductInfo{
		ID:            id,
		Name:          name,
		Price:         price,
		StockQuantity: stock,
		InStock:       stock > 0,
		IsActive:      true,
	}
	return id
}

func (suite *CartHandlerTestSuite) request(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		buf = bytes.NewBuffer(payload)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.token)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *CartHandlerTestSuite) parse(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func (suite *CartHandlerTestSuite) errorCode(w *httptest.ResponseRecorder) string {
	response := suite.parse(w)
	suite.Require().False(response["success"].(bool))
	errObj, ok := response["error"].(map[string]interface{})
	suite.Require().True(ok, "error payload missing")
	return errObj["code"].(string)
}

func (suite *CartHandlerTestSuite) addItem(productID uuid.UUID, quantity int) map[string]interface{} {
	w := suite.request(http.MethodPost, "/cart/items", gin.H{"product_id": productID, "quantity": quantity})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	data := suite.parse(w)["data"].(map[string]interface{})
	return data["item"].(map[string]interface{})
}

// Tests
func (suite *CartHandlerTestSuite) TestRequiresAuthentication() {
	req, err := http.NewRequest(http.MethodGet, "/cart", nil)
	suite.Require().NoError(err)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *CartHandlerTestSuite) TestRejectsMangledToken() {
	req, err := http.NewRequest(http.MethodGet, "/cart", nil)
	suite.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer not-a-token")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *CartHandlerTestSuite) TestGetCartCreatesLazily() {
	w := suite.request(http.MethodGet, "/cart", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	response := suite.parse(w)
	assert.True(suite.T(), response["success"].(bool))

	cart := response["data"].(map[string]interface{})["cart"].(map[string]interface{})
	assert.Equal(suite.T(), suite.userID.String(), cart["user_id"])
}

func (suite *CartHandlerTestSuite) TestAddToCart() {
	productID := suite.seedProduct("Espresso Beans 1kg", 18.50, 10)

	item := suite.addItem(productID, 2)
	assert.Equal(suite.T(), float64(2), item["quantity"])
	assert.Equal(suite.T(), 18.50, item["unit_price"])
}

func (suite *CartHandlerTestSuite) TestAddToCartZeroQuantity() {
	productID := suite.seedProduct("Espresso Beans 1kg", 18.50, 10)

	w := suite.request(http.MethodPost, "/cart/items", gin.H{"product_id": productID, "quantity": 0})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "INVALID_INPUT", suite.errorCode(w))
}

func (suite *CartHandlerTestSuite) TestAddToCartBeyondStock() {
	productID := suite.seedProduct("Limited Print", 40.00, 1)

	w := suite.request(http.MethodPost, "/cart/items", gin.H{"product_id": productID, "quantity": 2})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "OUT_OF_STOCK", suite.errorCode(w))
}

func (suite *CartHandlerTestSuite) TestAddToCartUnknownProduct() {
	w := suite.request(http.MethodPost, "/cart/items", gin.H{"product_id": uuid.New(), "quantity": 1})

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.Equal(suite.T(), "NOT_FOUND", suite.errorCode(w))
}

func (suite *CartHandlerTestSuite) TestUpdateCartItemToZeroRemovesLine() {
	productID := suite.seedProduct("Ceramic Mug", 9.00, 10)
	item := suite.addItem(productID, 2)

	w := suite.request(http.MethodPut, "/cart/items/"+item["id"].(string), gin.H{"quantity": 0})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	data := suite.parse(w)["data"].(map[string]interface{})
	_, hasItem := data["item"]
	assert.False(suite.T(), hasItem, "a removed line returns no item payload")

	w = suite.request(http.MethodGet, "/cart", nil)
	cart := suite.parse(w)["data"].(map[string]interface{})["cart"].(map[string]interface{})
	_, hasItems := cart["items"]
	assert.False(suite.T(), hasItems, "the cleared line must not reappear")
}

func (suite *CartHandlerTestSuite) TestUpdateCartItemNegativeQuantity() {
	productID := suite.seedProduct("Ceramic Mug", 9.00, 10)
	item := suite.addItem(productID, 2)

	w := suite.request(http.MethodPut, "/cart/items/"+item["id"].(string), gin.H{"quantity": -1})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "INVALID_INPUT", suite.errorCode(w))
}

func (suite *CartHandlerTestSuite) TestUpdateCartItemMalformedID() {
	w := suite.request(http.MethodPut, "/cart/items/not-a-uuid", gin.H{"quantity": 1})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "BAD_REQUEST", suite.errorCode(w))
}

func (suite *CartHandlerTestSuite) TestRemoveFromCartUnknownItem() {
	w := suite.request(http.MethodDelete, "/cart/items/"+uuid.NewString(), nil)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.Equal(suite.T(), "NOT_FOUND", suite.errorCode(w))
}

func (suite *CartHandlerTestSuite) TestClearCart() {
	productID := suite.seedProduct("Ceramic Mug", 9.00, 10)
	suite.addItem(productID, 2)

	w := suite.request(http.MethodDelete, "/cart", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, "/cart/summary", nil)
	summary := suite.parse(w)["data"].(map[string]interface{})["summary"].(map[string]interface{})
	assert.Equal(suite.T(), float64(0), summary["item_count"])
}

func (suite *CartHandlerTestSuite) TestValidateEmptyCart() {
	w := suite.request(http.MethodPost, "/cart/validate", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code, "an invalid cart is still a successful validation")
	report := suite.parse(w)["data"].(map[string]interface{})["report"].(map[string]interface{})
	assert.False(suite.T(), report["valid"].(bool))

	issues := report["issues"].([]interface{})
	first := issues[0].(map[string]interface{})
	assert.Equal(suite.T(), "empty_cart", first["issue"])
}

func (suite *CartHandlerTestSuite) TestCheckoutEmptyCart() {
	w := suite.request(http.MethodPost, "/cart/checkout", gin.H{
		"delivery_address": gin.H{"street": "12 Harbour Road", "city": "Accra"},
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "EMPTY_CART", suite.errorCode(w))
}

func (suite *CartHandlerTestSuite) TestCheckout() {
	productID := suite.seedProduct("Espresso Beans 1kg", 18.50, 10)
	suite.addItem(productID, 2)

	w := suite.request(http.MethodPost, "/cart/checkout", gin.H{
		"delivery_address": gin.H{"street": "12 Harbour Road", "city": "Accra"},
	})

	assert.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	order := suite.parse(w)["data"].(map[string]interface{})["order"].(map[string]interface{})
	assert.Equal(suite.T(), "TS-TEST000001", order["order_number"])
	assert.Equal(suite.T(), 37.0, order["total"])

	w = suite.request(http.MethodGet, "/cart/summary", nil)
	summary := suite.parse(w)["data"].(map[string]interface{})["summary"].(map[string]interface{})
	assert.Equal(suite.T(), float64(0), summary["item_count"])
}

func (suite *CartHandlerTestSuite) TestCheckoutDownstreamFailureKeepsCart() {
	productID := suite.seedProduct("Espresso Beans 1kg", 18.50, 10)
	suite.addItem(productID, 1)

	suite.orders.err = apperrors.Downstream(assert.AnError, "order database unavailable")

	w := suite.request(http.MethodPost, "/cart/checkout", gin.H{
		"delivery_address": gin.H{"street": "12 Harbour Road", "city": "Accra"},
	})

	assert.Equal(suite.T(), http.StatusBadGateway, w.Code)
	assert.Equal(suite.T(), "DOWNSTREAM_FAILURE", suite.errorCode(w))

	w = suite.request(http.MethodGet, "/cart/summary", nil)
	summary := suite.parse(w)["data"].(map[string]interface{})["summary"].(map[string]interface{})
	assert.Equal(suite.T(), float64(1), summary["item_count"])
}

func TestCartHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CartHandlerTestSuite))
}
