package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "empty_body", "request body is empty", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_payload", "invalid payload: "+err.Error(), nil)
		return false
	}
	return true
}

// isValidationOnly reports whether err came from struct validation after
// the body was decoded.
func isValidationOnly(err error) bool {
	var ves validator.ValidationErrors
	return errors.As(err, &ves)
}
