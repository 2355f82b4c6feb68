package handlers

import (
	"errors"
	"net/http"

	"ukrbus/internal/domain"
	"ukrbus/internal/http/middleware"
	"ukrbus/internal/utils"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Message   string `json:"message"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
		Message:   message,
	})
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), validationDetails(err))
	case domain.IsInvalidArgument(err):
		respondError(c, http.StatusBadRequest, "invalid_argument", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case domain.IsPayment(err):
		var pe domain.PaymentError
		errors.As(err, &pe)
		respondError(c, http.StatusPaymentRequired, pe.Code, pe.Error(), gin.H{"contacts": gin.H{"telegram": pe.SupportURL}})
	case domain.IsParse(err):
		utils.LogEvent(middleware.GetRequestID(c), "http", "error", "trip data: "+err.Error())
		respondError(c, http.StatusInternalServerError, "parse_error", "trip data is malformed", nil)
	default:
		utils.LogEvent(middleware.GetRequestID(c), "http", "error", err.Error())
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}

type fieldErrorDTO struct {
	Field   string `json:"field"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func validationDetails(err error) []fieldErrorDTO {
	var many domain.ValidationErrors
	if errors.As(err, &many) {
		out := make([]fieldErrorDTO, 0, len(many))
		for _, ve := range many {
			out = append(out, fieldErrorDTO{Field: ve.Field, Code: ve.Code, Message: ve.Msg})
		}
		return out
	}
	var one domain.ValidationError
	if errors.As(err, &one) {
		return []fieldErrorDTO{{Field: one.Field, Code: one.Code, Message: one.Msg}}
	}
	return nil
}
