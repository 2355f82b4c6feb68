package services

import (
	"context"
	"fmt"
	"time"

	"ukrbus/internal/domain"
	"ukrbus/internal/domain/models"
	"ukrbus/internal/metrics"
	"ukrbus/internal/repositories"
	"ukrbus/internal/utils"
)

const paymentErrorCode = "paymentError"

// PaymentService is the mock payment step. It simulates processing for
// Delay and then always declines.
type PaymentService struct {
	Store      repositories.PreorderStore
	Attempts   repositories.PaymentLog
	Delay      time.Duration
	SupportURL string
	Clock      utils.Clock
	Metrics    *metrics.Collectors
	RequestID  string
}

func (s PaymentService) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return time.Now()
}

// Pay processes the preorder payment. The returned error is a
// domain.PaymentError once processing finishes; a cancelled ctx aborts
// without recording an attempt. Only the status is written back, so wizard
// changes made while the payment was processing are kept.
func (s PaymentService) Pay(ctx context.Context, preorderID string) (models.Preorder, error) {
	p, err := s.Store.GetByID(ctx, preorderID)
	if err != nil {
		return models.Preorder{}, err
	}
	if p.Step != domain.StepPayment || len(p.Passengers) == 0 {
		return models.Preorder{}, stepConflict(p.Step, domain.StepPayment)
	}

	utils.LogEvent(s.RequestID, "payment", "process", fmt.Sprintf("preorder_id=%s amount=%d", p.ID, p.Total()))
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return models.Preorder{}, ctx.Err()
		case <-timer.C:
		}
	}
	// processing is over; the outcome is stored even if the client left
	ctx = context.WithoutCancel(ctx)

	attempt := models.PaymentAttempt{
		PreorderID: p.ID,
		Amount:     p.Total(),
		Result:     models.PaymentResultDeclined,
		ErrorCode:  paymentErrorCode,
		CreatedAt:  s.now(),
	}
	if _, err := s.Attempts.Record(ctx, attempt); err != nil {
		utils.LogEvent(s.RequestID, "payment", "record", "record attempt failed: "+err.Error())
		return models.Preorder{}, domain.InternalError{Msg: "cannot record payment", Err: err}
	}
	s.Metrics.IncPaymentAttempts(attempt.Result)

	if err := s.Store.UpdateStatus(ctx, p.ID, domain.StatusPaymentFailed, s.now()); err != nil {
		return models.Preorder{}, err
	}
	if p, err = s.Store.GetByID(ctx, p.ID); err != nil {
		return models.Preorder{}, err
	}

	utils.LogEvent(s.RequestID, "payment", "process", "preorder_id="+p.ID+" result="+attempt.Result)
	return p, domain.PaymentError{
		Code:       paymentErrorCode,
		Msg:        "payment could not be processed",
		SupportURL: s.SupportURL,
	}
}

// History lists recorded payment attempts of a preorder.
func (s PaymentService) History(ctx context.Context, preorderID string) ([]models.PaymentAttempt, error) {
	return s.Attempts.ListByPreorder(ctx, preorderID)
}
