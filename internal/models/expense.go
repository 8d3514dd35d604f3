package models

import "time"

// Expense claim statuses. Every persisted expense is in exactly one of
// these states; new claims always start as pending.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Expense represents an expense claim submitted for reimbursement.
type Expense struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	UserID      int64     `json:"userId" gorm:"index;not null"`
	Description string    `json:"description" gorm:"not null"`
	Category    string    `json:"category" gorm:"not null"`
	Amount      float64   `json:"amount" gorm:"not null"`
	Date        time.Time `json:"date" gorm:"not null"`
	Receipt     string    `json:"receipt,omitempty"`
	Status      string    `json:"status" gorm:"not null;default:pending"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Owner is populated only on admin listings; it is never persisted.
	Owner *OwnerSummary `json:"user,omitempty" gorm:"-"`
}

// TableName returns the database table name for the Expense model.
func (Expense) TableName() string {
	return "expenses"
}

// ValidStatus reports whether s is one of the enumerated claim statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}
