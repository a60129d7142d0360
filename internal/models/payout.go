package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payout is an immutable ledger entry, never updated after insert.
type Payout struct {
	ID       uint            `gorm:"primaryKey"`
	TransBy  uint            `gorm:"not null;index"`
	TransTo  uint            `gorm:"not null;index"`
	JobID    *uint           `gorm:"index"`
	Subtotal decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Tax      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Tip      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Total    decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	CreatedAt time.Time `gorm:"default:now()"`

	// Relations
	Job  *Job `gorm:"foreignKey:JobID"`
	From User `gorm:"foreignKey:TransBy"`
	To   User `gorm:"foreignKey:TransTo"`
}
