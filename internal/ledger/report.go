package ledger

import (
	"sort"

	"github.com/jask/rustance/internal/clock"
	"github.com/jask/rustance/internal/database/repository"
	"github.com/jask/rustance/internal/money"
)

// MonthTotalLabel marks the synthetic total row of a month table.
const MonthTotalLabel = "Month Total"

// DisplayRow is one table line handed to the renderer. Synthetic rows have
// ID 0 and an empty UpdatedAt and are never persisted.
type DisplayRow struct {
	ID        int64
	Amount    string
	Direction money.Direction
	Note      string
	UpdatedAt string
	Synthetic bool
}

// MonthReport groups one display month. Rows are in ascending updated_at,
// then id, and end with the synthetic month total row.
type MonthReport struct {
	Month          clock.MonthKey
	Rows           []DisplayRow
	TotalCents     int64
	TotalDirection money.Direction
}

// Total is a sign-folded sum.
type Total struct {
	Amount    money.Money
	Direction money.Direction
}

// Sum folds the signed amounts of records.
func Sum(records []repository.Record) Total {
	var sum int64
	for _, r := range records {
		sum = money.Accumulate(sum, r.Signed())
	}
	amount, dir := money.Fold(sum)
	return Total{Amount: amount, Direction: dir}
}

// Row converts a stored record for display.
func Row(r repository.Record) DisplayRow {
	return DisplayRow{
		ID:        r.ID,
		Amount:    r.Amount.String(),
		Direction: r.Direction,
		Note:      r.Note,
		UpdatedAt: clock.FormatDisplay(r.UpdatedAt),
	}
}

// NewMonthReport builds the report for records of a single month.
func NewMonthReport(month clock.MonthKey, records []repository.Record) MonthReport {
	sorted := append([]repository.Record(nil), records...)
	sortRecords(sorted)

	rep := MonthReport{Month: month, Rows: make([]DisplayRow, 0, len(sorted)+1)}
	for _, r := range sorted {
		rep.Rows = append(rep.Rows, Row(r))
		rep.TotalCents = money.Accumulate(rep.TotalCents, r.Signed())
	}
	amount, dir := money.Fold(rep.TotalCents)
	rep.TotalDirection = dir
	rep.Rows = append(rep.Rows, DisplayRow{
		Amount:    amount.String(),
		Direction: dir,
		Note:      MonthTotalLabel,
		Synthetic: true,
	})
	return rep
}

// GroupByMonth buckets records by their display-zone updated_at month and
// returns one report per month in chronological order.
func GroupByMonth(records []repository.Record) []MonthReport {
	buckets := map[clock.MonthKey][]repository.Record{}
	for _, r := range records {
		k := clock.KeyOf(r.UpdatedAt)
		buckets[k] = append(buckets[k], r)
	}

	keys := make([]clock.MonthKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	out := make([]MonthReport, 0, len(keys))
	for _, k := range keys {
		out = append(out, NewMonthReport(k, buckets[k]))
	}
	return out
}

func sortRecords(records []repository.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
		return a.ID < b.ID
	})
}
