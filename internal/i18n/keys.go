// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Auth / identity
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"
	KeyForbidden        = "auth.forbidden"

	// Users
	KeyUserNotFound  = "user.not_found"
	KeyUserSuspended = "user.suspended"

	// Stores
	KeyStoreNotFound = "store.not_found"
	KeyStoreInactive = "store.inactive"

	// Categories
	KeyCategoryNotFound = "category.not_found"

	// Products
	KeyProductNotFound   = "product.not_found"
	KeyProductInactive   = "product.inactive"
	KeyProductOutOfStock = "product.out_of_stock"

	// Cart
	KeyCartItemAdded     = "cart.item_added"
	KeyCartItemUpdated   = "cart.item_updated"
	KeyCartItemRemoved   = "cart.item_removed"
	KeyCartCleared       = "cart.cleared"
	KeyCartEmpty         = "cart.empty"
	KeyCartLineNotFound  = "cart.line_not_found"
	KeyCartInvalidQty    = "cart.invalid_quantity"
	KeyCartPriceChanged  = "cart.price_changed"
	KeyCartCheckoutValid = "cart.checkout_valid"

	// Orders
	KeyOrderCreated       = "order.created"
	KeyOrderNotFound      = "order.not_found"
	KeyOrderCancelled     = "order.cancelled"
	KeyOrderNotCancelable = "order.not_cancelable"
	KeyOrderFailed        = "order.failed"

	// Payments
	KeyPaymentFailed = "payment.failed"

	// Reviews
	KeyReviewCreated       = "review.created"
	KeyReviewUpdated       = "review.updated"
	KeyReviewDeleted       = "review.deleted"
	KeyReviewNotFound      = "review.not_found"
	KeyReviewWindowExpired = "review.window_expired"
	KeyReviewDuplicate     = "review.duplicate"
	KeyReviewAlreadyVoted  = "review.already_voted"

	// Notifications
	KeyNotificationNotFound = "notification.not_found"
	KeyNotificationRead     = "notification.read"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// Errors by code (response adapter)
	KeyErrNotFound     = "errors.not_found"
	KeyErrOutOfStock   = "errors.out_of_stock"
	KeyErrForbidden    = "errors.forbidden"
	KeyErrInvalidInput = "errors.invalid_input"
	KeyErrEmptyCart    = "errors.empty_cart"
	KeyErrUnauthorized = "errors.unauthorized"
	KeyErrDownstream   = "errors.downstream_failure"
	KeyErrInternal     = "errors.internal_error"
)
