package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"ukrbus/internal/domain/models"
)

// PaymentLog records payment attempts.
type PaymentLog interface {
	Record(ctx context.Context, a models.PaymentAttempt) (int64, error)
	ListByPreorder(ctx context.Context, preorderID string) ([]models.PaymentAttempt, error)
}

const paymentAttemptsDDL = `
CREATE TABLE IF NOT EXISTS payment_attempts (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	preorder_id VARCHAR(36) NOT NULL,
	amount BIGINT NOT NULL,
	result VARCHAR(32) NOT NULL,
	error_code VARCHAR(64) NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	KEY idx_preorder (preorder_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`

type PaymentRepository struct {
	DB *sql.DB
}

// EnsureTable creates the payment_attempts table when missing.
func (r PaymentRepository) EnsureTable(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, paymentAttemptsDDL)
	return err
}

func (r PaymentRepository) Record(ctx context.Context, a models.PaymentAttempt) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO payment_attempts (preorder_id, amount, result, error_code, created_at)
		VALUES (?,?,?,?,?)`,
		a.PreorderID, a.Amount, a.Result, a.ErrorCode, storeTime(a.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert payment attempt: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("payment attempt id: %w", err)
	}
	return id, nil
}

func (r PaymentRepository) ListByPreorder(ctx context.Context, preorderID string) ([]models.PaymentAttempt, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, preorder_id, amount, result, COALESCE(error_code,''), created_at
		FROM payment_attempts
		WHERE preorder_id=?
		ORDER BY id ASC`, preorderID)
	if err != nil {
		return nil, fmt.Errorf("select payment attempts: %w", err)
	}
	defer rows.Close()

	out := []models.PaymentAttempt{}
	for rows.Next() {
		var a models.PaymentAttempt
		if err := rows.Scan(&a.ID, &a.PreorderID, &a.Amount, &a.Result, &a.ErrorCode, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment attempt: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// MemoryPaymentLog keeps attempts in process memory.
type MemoryPaymentLog struct {
	mu       sync.Mutex
	attempts []models.PaymentAttempt
}

func NewMemoryPaymentLog() *MemoryPaymentLog {
	return &MemoryPaymentLog{}
}

func (l *MemoryPaymentLog) Record(_ context.Context, a models.PaymentAttempt) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a.ID = int64(len(l.attempts) + 1)
	l.attempts = append(l.attempts, a)
	return a.ID, nil
}

func (l *MemoryPaymentLog) ListByPreorder(_ context.Context, preorderID string) ([]models.PaymentAttempt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []models.PaymentAttempt{}
	for _, a := range l.attempts {
		if a.PreorderID == preorderID {
			out = append(out, a)
		}
	}
	return out, nil
}
