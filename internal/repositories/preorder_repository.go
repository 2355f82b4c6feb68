package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"ukrbus/internal/domain"
	"ukrbus/internal/domain/models"
)

// PreorderStore persists wizard state between steps.
type PreorderStore interface {
	Create(ctx context.Context, p models.Preorder) error
	GetByID(ctx context.Context, id string) (models.Preorder, error)
	Update(ctx context.Context, p models.Preorder) error
	// UpdateStatus changes only the status, leaving wizard fields alone.
	UpdateStatus(ctx context.Context, id string, status domain.Status, at time.Time) error
}

const preordersDDL = `
CREATE TABLE IF NOT EXISTS preorders (
	id VARCHAR(36) NOT NULL PRIMARY KEY,
	locale VARCHAR(8) NOT NULL,
	trip_json TEXT NOT NULL,
	step VARCHAR(32) NOT NULL,
	status VARCHAR(32) NOT NULL,
	passengers_count INT NOT NULL DEFAULT 1,
	passengers_json TEXT NULL,
	email VARCHAR(255) NOT NULL DEFAULT '',
	phone_number VARCHAR(32) NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`

// PreorderRepository stores preorders in MySQL.
type PreorderRepository struct {
	DB *sql.DB
}

// EnsureTable creates the preorders table when missing.
func (r PreorderRepository) EnsureTable(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, preordersDDL)
	return err
}

func (r PreorderRepository) Create(ctx context.Context, p models.Preorder) error {
	tripJSON, passengersJSON, err := encodePreorder(p)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO preorders
			(id, locale, trip_json, step, status, passengers_count, passengers_json, email, phone_number, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID, string(p.Locale), tripJSON, string(p.Step), string(p.Status), p.PassengersCount,
		passengersJSON, p.Email, p.PhoneNumber, storeTime(p.CreatedAt), storeTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert preorder: %w", err)
	}
	return nil
}

func (r PreorderRepository) GetByID(ctx context.Context, id string) (models.Preorder, error) {
	var (
		p              models.Preorder
		locale         string
		step           string
		status         string
		tripJSON       string
		passengersJSON sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, locale, trip_json, step, status, passengers_count,
		       passengers_json, COALESCE(email,''), COALESCE(phone_number,''), created_at, updated_at
		FROM preorders
		WHERE id=? LIMIT 1`, id).Scan(
		&p.ID, &locale, &tripJSON, &step, &status, &p.PassengersCount,
		&passengersJSON, &p.Email, &p.PhoneNumber, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Preorder{}, domain.NotFoundError{Resource: "preorder", Err: err}
	}
	if err != nil {
		return models.Preorder{}, fmt.Errorf("select preorder: %w", err)
	}

	p.Locale = domain.Locale(locale)
	p.Step = domain.Step(step)
	p.Status = domain.Status(status)
	if err := json.Unmarshal([]byte(tripJSON), &p.Trip); err != nil {
		return models.Preorder{}, fmt.Errorf("decode preorder trip: %w", err)
	}
	if passengersJSON.Valid && passengersJSON.String != "" {
		if err := json.Unmarshal([]byte(passengersJSON.String), &p.Passengers); err != nil {
			return models.Preorder{}, fmt.Errorf("decode preorder passengers: %w", err)
		}
	}
	return p, nil
}

func (r PreorderRepository) Update(ctx context.Context, p models.Preorder) error {
	_, passengersJSON, err := encodePreorder(p)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE preorders
		SET step=?, status=?, passengers_count=?, passengers_json=?, email=?, phone_number=?, updated_at=?
		WHERE id=?`,
		string(p.Step), string(p.Status), p.PassengersCount, passengersJSON,
		p.Email, p.PhoneNumber, storeTime(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return fmt.Errorf("update preorder: %w", err)
	}
	return ensureAffected(res)
}

func (r PreorderRepository) UpdateStatus(ctx context.Context, id string, status domain.Status, at time.Time) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE preorders SET status=?, updated_at=? WHERE id=?`,
		string(status), storeTime(at), id)
	if err != nil {
		return fmt.Errorf("update preorder status: %w", err)
	}
	return ensureAffected(res)
}

// ensureAffected needs clientFoundRows on the connection (see
// config.ConnectDB) so an unchanged row still counts as matched.
func ensureAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "preorder"}
	}
	return nil
}

func encodePreorder(p models.Preorder) (string, any, error) {
	trip, err := json.Marshal(p.Trip)
	if err != nil {
		return "", nil, fmt.Errorf("encode preorder trip: %w", err)
	}
	var passengers any
	if len(p.Passengers) > 0 {
		raw, err := json.Marshal(p.Passengers)
		if err != nil {
			return "", nil, fmt.Errorf("encode preorder passengers: %w", err)
		}
		passengers = string(raw)
	}
	return string(trip), passengers, nil
}

// MemoryPreorderStore keeps preorders in process memory. Used when no
// database is configured.
type MemoryPreorderStore struct {
	mu    sync.RWMutex
	items map[string]models.Preorder
}

func NewMemoryPreorderStore() *MemoryPreorderStore {
	return &MemoryPreorderStore{items: map[string]models.Preorder{}}
}

func (s *MemoryPreorderStore) Create(_ context.Context, p models.Preorder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[p.ID]; ok {
		return domain.ConflictError{Resource: "preorder", Msg: "id already exists"}
	}
	s.items[p.ID] = clonePreorder(p)
	return nil
}

func (s *MemoryPreorderStore) GetByID(_ context.Context, id string) (models.Preorder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.items[id]
	if !ok {
		return models.Preorder{}, domain.NotFoundError{Resource: "preorder"}
	}
	return clonePreorder(p), nil
}

func (s *MemoryPreorderStore) Update(_ context.Context, p models.Preorder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[p.ID]; !ok {
		return domain.NotFoundError{Resource: "preorder"}
	}
	s.items[p.ID] = clonePreorder(p)
	return nil
}

func (s *MemoryPreorderStore) UpdateStatus(_ context.Context, id string, status domain.Status, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return domain.NotFoundError{Resource: "preorder"}
	}
	p.Status = status
	p.UpdatedAt = at
	s.items[id] = p
	return nil
}

func clonePreorder(p models.Preorder) models.Preorder {
	if p.Passengers != nil {
		p.Passengers = append([]models.PassengerDetail(nil), p.Passengers...)
	}
	return p
}

// truncate to what DATETIME keeps so round trips compare equal
func storeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
