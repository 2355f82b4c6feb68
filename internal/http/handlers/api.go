package handlers

import (
	"context"

	"ukrbus/internal/domain"
	"ukrbus/internal/http/middleware"
	"ukrbus/internal/services"

	"github.com/gin-gonic/gin"
)

// API carries the services behind the HTTP handlers. Each request works on
// copies tagged with its request id.
type API struct {
	Schedule      services.ScheduleService
	Preorders     services.PreorderService
	Payments      services.PaymentService
	Docs          services.DocsService
	DefaultLocale domain.Locale
	// DB is nil when preorders are kept in memory.
	DB Pinger
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

func (a *API) locale(c *gin.Context) domain.Locale {
	return middleware.GetLocale(c, a.DefaultLocale)
}

func (a *API) schedule(c *gin.Context) services.ScheduleService {
	s := a.Schedule
	s.RequestID = middleware.GetRequestID(c)
	return s
}

func (a *API) preorders(c *gin.Context) services.PreorderService {
	s := a.Preorders
	s.RequestID = middleware.GetRequestID(c)
	s.Schedule.RequestID = s.RequestID
	return s
}

func (a *API) payments(c *gin.Context) services.PaymentService {
	s := a.Payments
	s.RequestID = middleware.GetRequestID(c)
	return s
}

func (a *API) docs(c *gin.Context) services.DocsService {
	s := a.Docs
	s.RequestID = middleware.GetRequestID(c)
	return s
}
