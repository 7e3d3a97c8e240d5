// internal/apperrors/errors_test.go
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsMapToStatusAndCode(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		sentinel   error
	}{
		{"not found", NotFound("cart item not found"), http.StatusNotFound, "NOT_FOUND", ErrNotFound},
		{"out of stock", OutOfStock("only 2 in stock"), http.StatusBadRequest, "OUT_OF_STOCK", ErrOutOfStock},
		{"forbidden", Forbidden("not the author"), http.StatusForbidden, "FORBIDDEN", ErrForbidden},
		{"invalid input", InvalidInput("quantity cannot be negative"), http.StatusBadRequest, "INVALID_INPUT", ErrInvalidInput},
		{"empty cart", EmptyCart("cart is empty"), http.StatusBadRequest, "EMPTY_CART", ErrEmptyCart},
		{"unauthorized", Unauthorized("token expired"), http.StatusUnauthorized, "UNAUTHORIZED", ErrUnauthorized},
		{"downstream", Downstream(errors.New("connection refused"), "payment provider unavailable"), http.StatusBadGateway, "DOWNSTREAM_FAILURE", ErrDownstream},
		{"internal", Internal(errors.New("boom")), http.StatusInternalServerError, "INTERNAL_ERROR", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, HTTPStatus(tt.err))
			assert.Equal(t, tt.wantCode, CodeOf(tt.err))
			if tt.sentinel != nil {
				assert.ErrorIs(t, tt.err, tt.sentinel)
			}
		})
	}
}

func TestWrappedErrorsKeepTheirMapping(t *testing.T) {
	err := fmt.Errorf("add to cart: %w", OutOfStock("only 2 in stock"))

	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
	assert.Equal(t, "OUT_OF_STOCK", CodeOf(err))
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestBareSentinelsMap(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrNotFound))
	assert.Equal(t, "NOT_FOUND", CodeOf(ErrNotFound))

	wrapped := fmt.Errorf("lookup: %w", ErrForbidden)
	assert.Equal(t, http.StatusForbidden, HTTPStatus(wrapped))
	assert.Equal(t, "FORBIDDEN", CodeOf(wrapped))
}

func TestDownstreamKeepsTheCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Downstream(cause, "order database unavailable")

	assert.ErrorIs(t, err, ErrDownstream)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "order database unavailable")
}

func TestUnknownErrorsFallThroughToInternal(t *testing.T) {
	err := errors.New("something unexpected")

	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
	assert.Equal(t, "INTERNAL_ERROR", CodeOf(err))
}
