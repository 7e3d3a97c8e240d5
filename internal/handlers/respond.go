// internal/handlers/respond.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/apperrors"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/i18n"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/utils"
)

// respondError translates a service error into the HTTP envelope. Services
// return typed errors and never touch status codes; this is the only place
// where error kinds become transport concerns.
func respondError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(validationErrs))
		return
	}

	status := apperrors.HTTPStatus(err)
	code := apperrors.CodeOf(err)

	if status >= http.StatusInternalServerError {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("request failed")
	}

	lang := utils.GetLangFromContext(c)
	message := i18n.T(lang, "errors."+strings.ToLower(code))

	// Client errors carry the service message as details; internal causes
	// stay in the logs.
	var details interface{}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" && status < http.StatusInternalServerError {
		details = appErr.Message
	}

	utils.ErrorResponse(c, status, code, message, details)
}

// currentUserID extracts the authenticated user from the request context.
// It writes the 401 response itself so handlers can bail with a bare return.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	return userID, true
}
