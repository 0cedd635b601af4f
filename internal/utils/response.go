// internal/utils/response.go
package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/apperrors"
)

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	Status  int         `json:"status"`
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func SuccessResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  http.StatusOK,
		Success: true,
		Message: message,
		Data:    data,
	})
}

func CreatedResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Status:  http.StatusCreated,
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string, details interface{}) {
	c.JSON(statusCode, APIResponse{
		Status:  statusCode,
		Success: false,
		Message: message,
		Errors:  details,
	})
}

func BadRequestResponse(c *gin.Context, message string, details interface{}) {
	ErrorResponse(c, http.StatusBadRequest, message, details)
}

// ValidationErrorResponse renders a 400 with the itemized field errors when
// the error came out of the validator, and a plain message otherwise.
func ValidationErrorResponse(c *gin.Context, err error) {
	if fields := GetValidationErrors(err); len(fields) > 0 {
		BadRequestResponse(c, "validation failed", fields)
		return
	}
	BadRequestResponse(c, "invalid request body", err.Error())
}

func UnauthorizedResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	ErrorResponse(c, http.StatusUnauthorized, message, nil)
}

func NotFoundResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, message, nil)
}

func InternalErrorResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	ErrorResponse(c, http.StatusInternalServerError, message, nil)
}

// AppErrorResponse maps the error taxonomy onto HTTP codes: validation and
// insufficient stock are 400, missing or unresolved records are 404,
// anything else is 500. Reconciliation failures never return 200 with a
// partial result.
func AppErrorResponse(c *gin.Context, err error) {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		BadRequestResponse(c, validationErr.Message, nil)
		return
	}

	var stockErr *apperrors.InsufficientStockError
	if errors.As(err, &stockErr) {
		BadRequestResponse(c, stockErr.Error(), gin.H{"shortfalls": stockErr.Shortfalls})
		return
	}

	var notFoundErr *apperrors.NotFoundError
	if errors.As(err, &notFoundErr) {
		NotFoundResponse(c, notFoundErr.Error())
		return
	}

	var ambiguousErr *apperrors.AmbiguousReferenceError
	if errors.As(err, &ambiguousErr) {
		NotFoundResponse(c, ambiguousErr.Error())
		return
	}

	InternalErrorResponse(c, err.Error())
}

func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userID, exists := c.Get("user_id"); exists {
		if userIDStr, ok := userID.(string); ok {
			return userIDStr, true
		}
	}
	return "", false
}
