package handlers

import (
	"context"
	"errors"
	"net/http"

	"ukrbus/internal/domain"
	"ukrbus/internal/domain/models"
	"ukrbus/internal/utils"

	"github.com/gin-gonic/gin"
)

type createPreorderRequest struct {
	TripID        string `json:"tripId" binding:"required"`
	DepartureDate string `json:"departureDate" binding:"omitempty,datetime=2006-01-02"`
}

type passengerCountRequest struct {
	PassengersCount int `json:"passengersCount"`
}

type stepRequest struct {
	Step domain.Step `json:"step" binding:"required"`
}

// preorderDTO adds the computed money fields to a preorder.
type preorderDTO struct {
	models.Preorder
	Total          int64  `json:"total"`
	PriceFormatted string `json:"priceFormatted"`
	TotalFormatted string `json:"totalFormatted"`
}

func toPreorderDTO(p models.Preorder) preorderDTO {
	return preorderDTO{
		Preorder:       p,
		Total:          p.Total(),
		PriceFormatted: utils.FormatHryvnia(p.Trip.Price),
		TotalFormatted: utils.FormatHryvnia(p.Total()),
	}
}

// POST /api/preorders
func (a *API) CreatePreorder(c *gin.Context) {
	var req createPreorderRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	p, token, err := a.preorders(c).Create(c.Request.Context(), a.locale(c), req.TripID, req.DepartureDate)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"preorder": toPreorderDTO(p), "token": token})
}

// GET /api/preorders/:id
func (a *API) GetPreorder(c *gin.Context) {
	p, err := a.preorders(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPreorderDTO(p))
}

// PUT /api/preorders/:id/passenger-count
func (a *API) SetPassengerCount(c *gin.Context) {
	var req passengerCountRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	p, err := a.preorders(c).SetPassengerCount(c.Request.Context(), c.Param("id"), req.PassengersCount)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPreorderDTO(p))
}

// PUT /api/preorders/:id/passengers
func (a *API) SetPassengers(c *gin.Context) {
	var req models.PassengersInput
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "empty_body", "request body is empty", nil)
		return
	}
	// field rules are checked by the service so all failures come back together
	if err := c.ShouldBindBodyWithJSON(&req); err != nil && !isValidationOnly(err) {
		respondError(c, http.StatusBadRequest, "invalid_payload", "invalid payload: "+err.Error(), nil)
		return
	}
	p, err := a.preorders(c).SetPassengers(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPreorderDTO(p))
}

// PUT /api/preorders/:id/step
func (a *API) SetStep(c *gin.Context) {
	var req stepRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	p, err := a.preorders(c).GoToStep(c.Request.Context(), c.Param("id"), req.Step)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPreorderDTO(p))
}

// POST /api/preorders/:id/payment
func (a *API) PayPreorder(c *gin.Context) {
	_, err := a.payments(c).Pay(c.Request.Context(), c.Param("id"))
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		// client went away
		c.Abort()
		return
	}
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/preorders/:id/payments
func (a *API) GetPaymentHistory(c *gin.Context) {
	attempts, err := a.payments(c).History(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}

// GET /api/preorders/:id/summary.pdf
func (a *API) GetPreorderSummaryPDF(c *gin.Context) {
	p, err := a.preorders(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	pdfBytes, filename, err := a.docs(c).Summary(p)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Msg: "cannot render summary", Err: err})
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
