// internal/utils/validator_test.go
package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetValidationErrorsExtractsFields(t *testing.T) {
	type form struct {
		Email    string  `validate:"required,email"`
		Quantity float64 `validate:"gte=1"`
	}

	err := ValidateStruct(form{Email: "not-an-email"})
	require.Error(t, err)

	fields := GetValidationErrors(err)
	require.Len(t, fields, 2)
	assert.Equal(t, "email", fields[0].Field)
	assert.Equal(t, "Invalid email format", fields[0].Message)
	assert.Equal(t, "quantity", fields[1].Field)
	assert.Equal(t, "gte", fields[1].Tag)
}

func TestValidationErrorResponseItemizesFieldErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	type form struct {
		Name string `validate:"required"`
	}
	err := ValidateStruct(form{})
	ValidationErrorResponse(c, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Name is required")
	assert.Contains(t, w.Body.String(), "validation failed")
}
