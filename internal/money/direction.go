package money

import (
	"fmt"
	"math"
	"strconv"
)

// Direction tells whether a record adds to or takes from the balance.
type Direction int

const (
	In Direction = iota + 1
	Out
)

// DirectionFromBool maps the stored in_or_out flag (true = In).
func DirectionFromBool(in bool) Direction {
	if in {
		return In
	}
	return Out
}

// ParseDirection accepts the command line form "true" (In) or "false" (Out).
func ParseDirection(s string) (Direction, error) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return 0, fmt.Errorf("in-or-out must be true or false, got %q", s)
	}
	return DirectionFromBool(b), nil
}

// IsIn reports the stored flag value.
func (d Direction) IsIn() bool { return d == In }

func (d Direction) String() string {
	switch d {
	case In:
		return "In"
	case Out:
		return "Out"
	default:
		return "Direction(" + strconv.Itoa(int(d)) + ")"
	}
}

// Noun is the word used in user-facing messages.
func (d Direction) Noun() string {
	if d == In {
		return "income"
	}
	return "outcome"
}

// Signed folds an amount with its direction.
func Signed(m Money, d Direction) int64 {
	if d == In {
		return m.cents
	}
	return -m.cents
}

// Accumulate adds a signed amount to a running sum, clamping at
// ±math.MaxInt64 so the sign of the sum always matches the true total.
func Accumulate(sum, signed int64) int64 {
	switch {
	case signed > 0 && sum > math.MaxInt64-signed:
		return math.MaxInt64
	case signed < 0 && sum < -math.MaxInt64-signed:
		return -math.MaxInt64
	default:
		return sum + signed
	}
}

// Fold splits a signed cent sum into its magnitude and direction.
// A zero sum reads as In.
func Fold(sum int64) (Money, Direction) {
	if sum >= 0 {
		return Money{cents: sum}, In
	}
	return Money{cents: -sum}, Out
}
