package storage

import "time"

type TransactionStatus = string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCommitted TransactionStatus = "committed"
	StatusFailed    TransactionStatus = "failed"
)

// TransactionRecord is one journaled write. It is stored as pending before the
// signer is asked and updated once the outcome is known.
type TransactionRecord struct {
	ID         int64             `gorm:"primaryKey"`
	RequestID  string            `gorm:"uniqueIndex;not null"`
	ActionType ActionType        `gorm:"index;not null"`
	Sender     string            `gorm:"index;not null"`
	Function   string            `gorm:"not null"`
	Status     TransactionStatus `gorm:"not null"`
	Hash       string            `gorm:"default:''"`
	Stage      string            `gorm:"default:''"`
	VMStatus   string            `gorm:"default:''"`
	Error      string            `gorm:"default:''"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BalanceSnapshot is the last reconciled balance seen for an owner and asset.
// Amounts are decimal strings: sqlite integers stop at int64.
type BalanceSnapshot struct {
	Owner     string `gorm:"primaryKey"`
	Asset     string `gorm:"primaryKey"`
	Legacy    string `gorm:"not null"`
	Indexer   string `gorm:"not null"`
	Amount    string `gorm:"not null"`
	Policy    string `gorm:"not null"`
	UpdatedAt time.Time
}
