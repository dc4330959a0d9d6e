// Package money holds the integer-cent amount type used by the ledger.
package money

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for amounts that are not a plain
// non-negative decimal with at most two fractional digits.
var ErrInvalidAmount = errors.New("invalid amount")

var amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,2})?$`)

// MaxCents is the largest amount a single record may carry, 10^13 units.
// Sums of up to 9223 such records stay inside int64.
const MaxCents int64 = 1_000_000_000_000_000

// maxAmount is MaxCents as a decimal for comparison before conversion.
var maxAmount = decimal.New(MaxCents, 0)

// Money is a non-negative count of cents.
type Money struct {
	cents int64
}

// Parse converts "D" or "D.C" / "D.CC" into Money. Signs, exponents,
// separators, extra fractional digits and amounts above MaxCents are
// rejected. Zero parses; callers that need a positive amount check IsZero.
func Parse(s string) (Money, error) {
	if !amountPattern.MatchString(s) {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	cents := d.Shift(2)
	if cents.GreaterThan(maxAmount) {
		return Money{}, fmt.Errorf("%w: %q exceeds %s", ErrInvalidAmount, s, Money{cents: MaxCents})
	}
	return Money{cents: cents.IntPart()}, nil
}

// FromCents wraps a stored cent count.
func FromCents(n int64) (Money, error) {
	if n < 0 {
		return Money{}, fmt.Errorf("%w: negative cents %d", ErrInvalidAmount, n)
	}
	return Money{cents: n}, nil
}

// Cents returns the raw cent count.
func (m Money) Cents() int64 { return m.cents }

func (m Money) IsZero() bool { return m.cents == 0 }

// String formats as D.CC.
func (m Money) String() string {
	return decimal.New(m.cents, -2).StringFixed(2)
}
