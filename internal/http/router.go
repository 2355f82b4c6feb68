package api

import (
	stdhttp "net/http"

	intconfig "ukrbus/internal/config"
	h "ukrbus/internal/http/handlers"
	"ukrbus/internal/http/middleware"
	"ukrbus/internal/metrics"
	"ukrbus/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the router mounts.
type Deps struct {
	API      *h.API
	Tokens   middleware.TokenVerifier
	Metrics  *metrics.Collectors
	Gatherer prometheus.Gatherer
}

func NewRouter(env intconfig.Env, d Deps) *gin.Engine {
	log := utils.Logger("router")

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		utils.RegisterRules(v)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(d.Metrics),
		gin.Recovery(),
		middleware.CORS(env.CORS.AllowedOrigins),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Warn().Err(err).Msg("failed to set trusted proxies")
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", d.API.DBCheck)
		api.GET("/routes", h.Routes)

		localized := api.Group("", middleware.Locale(d.API.DefaultLocale))
		localized.GET("/locales", d.API.GetLocales)

		// Schedule
		localized.GET("/trips", d.API.GetTrips)
		localized.GET("/trips/:id", d.API.GetTrip)
		localized.GET("/start-points", d.API.GetStartPoints)
		localized.GET("/destinations", d.API.GetDestinations)

		// Preorder wizard
		preorders := localized.Group("/preorders")
		preorders.POST("", d.API.CreatePreorder)
		mountPreorder(preorders.Group("/:id", middleware.PreorderAuth(d.Tokens)), d.API)
	}

	h.SetRouter(r)
	return r
}

func mountPreorder(g *gin.RouterGroup, a *h.API) {
	g.GET("", a.GetPreorder)
	g.PUT("/passenger-count", a.SetPassengerCount)
	g.PUT("/passengers", a.SetPassengers)
	g.PUT("/step", a.SetStep)
	g.POST("/payment", a.PayPreorder)
	g.GET("/payments", a.GetPaymentHistory)
	g.GET("/summary.pdf", a.GetPreorderSummaryPDF)
}
