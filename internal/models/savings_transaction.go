package models

import "time"

// SavingsTransaction is the audit record of a single goal funding event.
// It is written for every funding, whether or not a paired debit
// transaction was created.
type SavingsTransaction struct {
	Base
	UserID     string    `gorm:"type:uuid;not null;index" json:"user_id"`
	GoalID     string    `gorm:"type:uuid;not null;index" json:"goal_id"`
	GoalTitle  string    `json:"goal_title"`
	Amount     float64   `gorm:"not null" json:"amount"`
	Date       time.Time `gorm:"not null" json:"date"`
	PaymentRef string    `json:"payment_ref,omitempty"`
}
