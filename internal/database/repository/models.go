package repository

import (
	"time"

	"github.com/jask/rustance/internal/money"
)

// Record represents an amount_record row.
type Record struct {
	ID        int64
	Amount    money.Money
	Direction money.Direction
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Signed returns the amount with the direction's sign applied.
func (r Record) Signed() int64 {
	return money.Signed(r.Amount, r.Direction)
}
