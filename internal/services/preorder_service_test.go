package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ukrbus/internal/domain"
	"ukrbus/internal/domain/models"
	"ukrbus/internal/repositories"
	"ukrbus/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPreorders(t *testing.T) (PreorderService, *repositories.MemoryPreorderStore) {
	t.Helper()
	ref := refDate(2024, time.March, 15)
	store := repositories.NewMemoryPreorderStore()
	seq := 0
	return PreorderService{
		Schedule: newTestSchedule(ref),
		Store:    store,
		Tokens:   TokenService{Secret: []byte("0123456789abcdef"), TTL: time.Hour, Now: func() time.Time { return ref }},
		Clock:    utils.FixedClock{T: ref},
		NewID: func() string {
			seq++
			return fmt.Sprintf("pre-%d", seq)
		},
	}, store
}

func validPassengers(n int) models.PassengersInput {
	in := models.PassengersInput{Email: "olena@example.com", PhoneNumber: "+380501234567"}
	for i := 0; i < n; i++ {
		in.Passengers = append(in.Passengers, models.PassengerDetail{
			FirstName: fmt.Sprintf("Olena%d", i),
			LastName:  "Shevchenko",
			DOB:       "1990-05-01",
		})
	}
	return in
}

func validationCodes(t *testing.T, err error) map[string]string {
	t.Helper()
	var many domain.ValidationErrors
	require.True(t, errors.As(err, &many), "want ValidationErrors, got %T: %v", err, err)
	out := map[string]string{}
	for _, ve := range many {
		out[ve.Field] = ve.Code
	}
	return out
}

func TestPreorderCreate(t *testing.T) {
	svc, _ := newTestPreorders(t)
	ctx := context.Background()

	p, token, err := svc.Create(ctx, domain.LocaleEN, "1", "2024-03-16")
	require.NoError(t, err)
	assert.Equal(t, "pre-1", p.ID)
	assert.Equal(t, domain.StepPassengerCount, p.Step)
	assert.Equal(t, domain.StatusDraft, p.Status)
	assert.Equal(t, 1, p.PassengersCount)
	assert.Equal(t, "2024-03-16", p.Trip.DepartureDate)
	assert.Equal(t, int64(650), p.Total())

	id, err := svc.Tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, p.ID, id)

	_, _, err = svc.Create(ctx, domain.LocaleEN, "", "")
	assert.True(t, domain.IsValidation(err))

	_, _, err = svc.Create(ctx, domain.LocaleEN, "1", "2024-02-01")
	assert.True(t, domain.IsNotFound(err))

	_, _, err = svc.Create(ctx, domain.Locale("de"), "1", "")
	assert.True(t, domain.IsInvalidArgument(err))
}

func TestPreorderCreateWithoutTokenLeavesNothing(t *testing.T) {
	svc, store := newTestPreorders(t)
	svc.Tokens.Secret = nil
	ctx := context.Background()

	_, _, err := svc.Create(ctx, domain.LocaleEN, "1", "")
	require.Error(t, err)
	assert.True(t, domain.IsInternal(err))

	_, err = store.GetByID(ctx, "pre-1")
	assert.True(t, domain.IsNotFound(err), "no preorder without a token")
}

func TestPreorderPassengerCount(t *testing.T) {
	svc, _ := newTestPreorders(t)
	ctx := context.Background()
	p, _, err := svc.Create(ctx, domain.LocaleEN, "1", "")
	require.NoError(t, err)

	_, err = svc.SetPassengerCount(ctx, p.ID, 0)
	var ve domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "atLeastOnePassenger", ve.Code)

	_, err = svc.SetPassengerCount(ctx, p.ID, 49)
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "maxPassengers", ve.Code)

	p, err = svc.SetPassengerCount(ctx, p.ID, 48)
	require.NoError(t, err)
	assert.Equal(t, 48, p.PassengersCount)
	assert.Equal(t, domain.StepPassengersInfo, p.Step)
	assert.Equal(t, int64(48*650), p.Total())

	// already past the count step
	_, err = svc.SetPassengerCount(ctx, p.ID, 2)
	assert.True(t, domain.IsConflict(err))

	_, err = svc.SetPassengerCount(ctx, "missing", 1)
	assert.True(t, domain.IsNotFound(err))
}

func TestPreorderSetPassengers(t *testing.T) {
	svc, store := newTestPreorders(t)
	ctx := context.Background()
	p, _, err := svc.Create(ctx, domain.LocaleEN, "2", "")
	require.NoError(t, err)

	_, err = svc.SetPassengers(ctx, p.ID, validPassengers(1))
	assert.True(t, domain.IsConflict(err), "details before count")

	_, err = svc.SetPassengerCount(ctx, p.ID, 2)
	require.NoError(t, err)

	_, err = svc.SetPassengers(ctx, p.ID, validPassengers(1))
	assert.Equal(t, "passengersMismatch", validationCodes(t, err)["passengers"])

	bad := validPassengers(2)
	bad.Passengers[0].FirstName = "  "
	bad.Passengers[1].LastName = ""
	bad.Passengers[1].DOB = "2030-01-01"
	bad.Email = "not-an-email"
	bad.PhoneNumber = "12345"
	_, err = svc.SetPassengers(ctx, p.ID, bad)
	codes := validationCodes(t, err)
	assert.Equal(t, "firstNameRequired", codes["passengers[0].firstName"])
	assert.Equal(t, "lastNameRequired", codes["passengers[1].lastName"])
	assert.Equal(t, "dobInFuture", codes["passengers[1].dob"])
	assert.Equal(t, "invalidEmail", codes["email"])
	assert.Equal(t, "mustBeNumber", codes["phoneNumber"])

	in := validPassengers(2)
	in.PhoneNumber = "050 123 45 67"
	in.Passengers[0].FirstName = "  Olena   Maria "
	p, err = svc.SetPassengers(ctx, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, domain.StepPayment, p.Step)
	assert.Equal(t, "0501234567", p.PhoneNumber)
	assert.Equal(t, "Olena Maria", p.Passengers[0].FirstName)

	stored, err := store.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Passengers, 2)
	assert.Equal(t, "olena@example.com", stored.Email)
}

func TestPreorderGoToStep(t *testing.T) {
	svc, _ := newTestPreorders(t)
	ctx := context.Background()
	p, _, err := svc.Create(ctx, domain.LocaleEN, "1", "")
	require.NoError(t, err)
	_, err = svc.SetPassengerCount(ctx, p.ID, 2)
	require.NoError(t, err)
	_, err = svc.SetPassengers(ctx, p.ID, validPassengers(2))
	require.NoError(t, err)

	_, err = svc.GoToStep(ctx, p.ID, domain.StepPayment)
	assert.True(t, domain.IsConflict(err), "same step is not a move back")

	_, err = svc.GoToStep(ctx, p.ID, domain.Step("shipping"))
	assert.True(t, domain.IsValidation(err))

	p, err = svc.GoToStep(ctx, p.ID, domain.StepPassengerCount)
	require.NoError(t, err)
	assert.Equal(t, domain.StepPassengerCount, p.Step)

	// same count keeps the entered details
	p, err = svc.SetPassengerCount(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.Len(t, p.Passengers, 2)

	_, err = svc.GoToStep(ctx, p.ID, domain.StepPassengerCount)
	require.NoError(t, err)
	p, err = svc.SetPassengerCount(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.Empty(t, p.Passengers)
	assert.Empty(t, p.Email)
}
