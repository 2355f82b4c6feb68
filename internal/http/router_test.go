package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	intconfig "ukrbus/internal/config"
	"ukrbus/internal/domain"
	"ukrbus/internal/domain/models"
	h "ukrbus/internal/http/handlers"
	"ukrbus/internal/metrics"
	"ukrbus/internal/repositories"
	"ukrbus/internal/services"
	"ukrbus/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, opts ...func(*h.API)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ref := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	clock := utils.FixedClock{T: ref}

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	catalog, err := repositories.NewEmbeddedTripCatalog()
	require.NoError(t, err)
	schedule := services.ScheduleService{Catalog: catalog, Clock: clock, Metrics: m}
	store := repositories.NewMemoryPreorderStore()
	tokens := services.TokenService{Secret: []byte("0123456789abcdef"), TTL: time.Hour, Now: clock.Now}

	a := &h.API{
		Schedule: schedule,
		Preorders: services.PreorderService{
			Schedule: schedule, Store: store, Tokens: tokens, Clock: clock, Metrics: m,
		},
		Payments: services.PaymentService{
			Store: store, Attempts: repositories.NewMemoryPaymentLog(),
			SupportURL: "https://t.me/UkrBus_ua", Clock: clock, Metrics: m,
		},
		DefaultLocale: domain.LocaleUK,
	}
	for _, opt := range opts {
		opt(a)
	}
	env := intconfig.Env{CORS: intconfig.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}}
	return NewRouter(env, Deps{API: a, Tokens: tokens, Metrics: m, Gatherer: reg})
}

func do(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestScheduleEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/trips?locale=en", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "en", body["locale"])
	assert.Len(t, body["trips"], 17*6)

	q := url.Values{"startPoint": {"Київ"}, "destination": {"Львів"}, "date": {"2024-03-16"}}
	w = do(r, http.MethodGet, "/api/trips?"+q.Encode(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	trips := decode(t, w)["trips"].([]any)
	require.Len(t, trips, 1)
	trip := trips[0].(map[string]any)
	assert.Equal(t, "08:00", trip["departureTime"])
	assert.Equal(t, "15:30", trip["arrivalTime"])

	w = do(r, http.MethodGet, "/api/trips?locale=pl", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/trips?date=16.03.2024", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", decode(t, w)["code"])

	w = do(r, http.MethodGet, "/api/trips/3?locale=en&date=2024-03-15", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	trip = decode(t, w)
	assert.Equal(t, "09:40", trip["departureTime"], "odd day shifts 21:40")

	w = do(r, http.MethodGet, "/api/trips/99", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/api/start-points?locale=en&q=ky", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"Kyiv"}, decode(t, w)["startPoints"])

	w = do(r, http.MethodGet, "/api/destinations?locale=en", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"Lviv", "Odesa", "Kyiv", "Dnipro", "Uzhhorod"}, decode(t, w)["destinations"])

	w = do(r, http.MethodGet, "/api/locales", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "uk", decode(t, w)["current"])

	w = do(r, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreorderFlow(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/preorders?locale=en", "", map[string]any{"tripId": "1", "departureDate": "2024-03-16"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	token := created["token"].(string)
	preorder := created["preorder"].(map[string]any)
	id := preorder["id"].(string)
	assert.Equal(t, "passenger_count", preorder["step"])
	assert.Equal(t, "650,00 UAH", preorder["priceFormatted"])
	base := "/api/preorders/" + id

	w = do(r, http.MethodGet, base, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, base, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPut, base+"/passenger-count", token, map[string]any{"passengersCount": 49})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPut, base+"/passenger-count", token, map[string]any{"passengersCount": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "1 300,00 UAH", decode(t, w)["totalFormatted"])

	w = do(r, http.MethodPost, base+"/payment", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPut, base+"/passengers", token, map[string]any{
		"passengers":  []map[string]string{{"firstName": "", "lastName": "Shevchenko", "dob": "1990-05-01"}},
		"email":       "bad",
		"phoneNumber": "+380501234567",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	details := decode(t, w)["details"].([]any)
	assert.GreaterOrEqual(t, len(details), 3)

	w = do(r, http.MethodPut, base+"/passengers", token, map[string]any{
		"passengers": []map[string]string{
			{"firstName": "Olena", "lastName": "Shevchenko", "dob": "1990-05-01"},
			{"firstName": "Taras", "lastName": "Shevchenko", "dob": "1988-02-11"},
		},
		"email":       "olena@example.com",
		"phoneNumber": "0501234567",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "payment", decode(t, w)["step"])

	w = do(r, http.MethodPost, base+"/payment", token, nil)
	require.Equal(t, http.StatusPaymentRequired, w.Code)
	payment := decode(t, w)
	assert.Equal(t, "paymentError", payment["code"])
	contacts := payment["details"].(map[string]any)["contacts"].(map[string]any)
	assert.Equal(t, "https://t.me/UkrBus_ua", contacts["telegram"])

	w = do(r, http.MethodGet, base+"/payments", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["attempts"], 1)

	w = do(r, http.MethodGet, base+"/summary.pdf", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "PREORDER_1_2024-03-16.pdf")

	w = do(r, http.MethodPut, base+"/step", token, map[string]any{"step": "passenger_count"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "passenger_count", decode(t, w)["step"])

	w = do(r, http.MethodPut, base+"/step", token, map[string]any{"step": "payment"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `ukrbus_preorders_created_total{locale="en"} 1`)
	assert.Contains(t, w.Body.String(), `ukrbus_payment_attempts_total{result="declined"} 1`)
}

// cancelOnRecord drops the client connection right as the attempt is stored.
type cancelOnRecord struct {
	repositories.PaymentLog
	cancel context.CancelFunc
}

func (l *cancelOnRecord) Record(ctx context.Context, a models.PaymentAttempt) (int64, error) {
	l.cancel()
	return l.PaymentLog.Record(ctx, a)
}

func TestPaymentAnsweredWhenClientLeavesAfterProcessing(t *testing.T) {
	reqCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	attempts := &cancelOnRecord{PaymentLog: repositories.NewMemoryPaymentLog(), cancel: cancel}
	r := newTestRouter(t, func(a *h.API) { a.Payments.Attempts = attempts })

	w := do(r, http.MethodPost, "/api/preorders?locale=en", "", map[string]any{"tripId": "1", "departureDate": "2024-03-16"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	token := created["token"].(string)
	base := "/api/preorders/" + created["preorder"].(map[string]any)["id"].(string)

	w = do(r, http.MethodPut, base+"/passenger-count", token, map[string]any{"passengersCount": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = do(r, http.MethodPut, base+"/passengers", token, map[string]any{
		"passengers":  []map[string]string{{"firstName": "Olena", "lastName": "Shevchenko", "dob": "1990-05-01"}},
		"email":       "olena@example.com",
		"phoneNumber": "0501234567",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	req := httptest.NewRequest(http.MethodPost, base+"/payment", nil).WithContext(reqCtx)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Error(t, reqCtx.Err())
	require.Equal(t, http.StatusPaymentRequired, w.Code, w.Body.String())
	assert.Equal(t, "paymentError", decode(t, w)["code"])

	w = do(r, http.MethodGet, base, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "payment_failed", decode(t, w)["status"])
}

func TestCreatePreorderValidation(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/preorders", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/preorders", "", map[string]any{"departureDate": "2024-03-16"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/preorders", "", map[string]any{"tripId": "1", "departureDate": "2024-01-01"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
