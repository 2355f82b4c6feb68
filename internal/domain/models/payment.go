package models

import "time"

// PaymentAttempt records one mock payment run for a preorder.
type PaymentAttempt struct {
	ID         int64     `json:"id"`
	PreorderID string    `json:"preorder_id"`
	Amount     int64     `json:"amount"`
	Result     string    `json:"result"`
	ErrorCode  string    `json:"error_code"`
	CreatedAt  time.Time `json:"created_at"`
}

const PaymentResultDeclined = "declined"
