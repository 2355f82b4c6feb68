package handlers

import (
	"net/http"

	"ukrbus/internal/domain"
	"ukrbus/internal/domain/models"
	"ukrbus/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/trips
func (a *API) GetTrips(c *gin.Context) {
	locale := a.locale(c)
	q := models.TripQuery{
		StartPoint:  c.Query("startPoint"),
		Destination: c.Query("destination"),
		Date:        c.Query("date"),
	}
	trips, err := a.schedule(c).Search(locale, q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locale": locale, "trips": trips})
}

// GET /api/trips/:id
func (a *API) GetTrip(c *gin.Context) {
	trip, err := a.schedule(c).FindTrip(a.locale(c), c.Param("id"), c.Query("date"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// GET /api/start-points
func (a *API) GetStartPoints(c *gin.Context) {
	points, err := a.schedule(c).StartPoints(a.locale(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"startPoints": services.Suggest(points, c.Query("q"))})
}

// GET /api/destinations
func (a *API) GetDestinations(c *gin.Context) {
	dests, err := a.schedule(c).Destinations(a.locale(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"destinations": services.Suggest(dests, c.Query("q"))})
}

type localeDTO struct {
	Code    domain.Locale `json:"code"`
	Name    string        `json:"name"`
	Default bool          `json:"default"`
}

// GET /api/locales
func (a *API) GetLocales(c *gin.Context) {
	out := make([]localeDTO, 0, len(domain.Locales))
	for _, l := range domain.Locales {
		out = append(out, localeDTO{Code: l, Name: l.DisplayName(), Default: l == a.DefaultLocale})
	}
	c.JSON(http.StatusOK, gin.H{"locales": out, "current": a.locale(c)})
}
