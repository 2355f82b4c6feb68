package cli

import (
	"context"
	"database/sql"
	"fmt"

	"ukrbus/internal/config"
	"ukrbus/internal/domain"
	api "ukrbus/internal/http"
	"ukrbus/internal/http/handlers"
	"ukrbus/internal/metrics"
	"ukrbus/internal/repositories"
	"ukrbus/internal/services"
	"ukrbus/internal/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// app holds the wired services of one process.
type app struct {
	deps api.Deps
	db   *sql.DB
}

func (a *app) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func newScheduleService(env config.Env, m *metrics.Collectors) (services.ScheduleService, error) {
	catalog, err := repositories.NewEmbeddedTripCatalog()
	if err != nil {
		return services.ScheduleService{}, fmt.Errorf("trip catalog: %w", err)
	}
	return services.ScheduleService{
		Catalog: catalog,
		Clock:   utils.SystemClock{Location: env.Location()},
		Metrics: m,
	}, nil
}

// newApp wires the HTTP stack. Preorders go to MySQL when db.dsn is set,
// to memory otherwise.
func newApp(ctx context.Context, env config.Env) (*app, error) {
	log := utils.Logger("app")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	schedule, err := newScheduleService(env, m)
	if err != nil {
		return nil, err
	}
	clock := schedule.Clock

	a := &app{}
	var (
		store    repositories.PreorderStore
		attempts repositories.PaymentLog
	)
	if env.DB.DSN != "" {
		db, err := config.ConnectDB(ctx, env.DB)
		if err != nil {
			return nil, err
		}
		a.db = db
		preorders := repositories.PreorderRepository{DB: db}
		payments := repositories.PaymentRepository{DB: db}
		if err := preorders.EnsureTable(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure preorders table: %w", err)
		}
		if err := payments.EnsureTable(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure payment_attempts table: %w", err)
		}
		store, attempts = preorders, payments
		log.Info().Msg("preorders stored in mysql")
	} else {
		store = repositories.NewMemoryPreorderStore()
		attempts = repositories.NewMemoryPaymentLog()
		log.Warn().Msg("db.dsn not set, preorders kept in memory")
	}

	if env.Auth.SecretGenerated {
		log.Warn().Msg("auth.token_secret not set, using a random per-process secret")
	}
	tokens := services.TokenService{Secret: []byte(env.Auth.TokenSecret), TTL: env.Auth.TokenTTL}
	h := &handlers.API{
		Schedule: schedule,
		Preorders: services.PreorderService{
			Schedule: schedule,
			Store:    store,
			Tokens:   tokens,
			Clock:    clock,
			Metrics:  m,
		},
		Payments: services.PaymentService{
			Store:      store,
			Attempts:   attempts,
			Delay:      env.Payment.Delay,
			SupportURL: env.Payment.SupportURL,
			Clock:      clock,
			Metrics:    m,
		},
		DefaultLocale: domain.Locale(env.App.DefaultLocale),
	}
	if a.db != nil {
		h.DB = a.db
	}
	a.deps = api.Deps{API: h, Tokens: tokens, Metrics: m, Gatherer: reg}
	return a, nil
}
