package ledger

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/jask/rustance/internal/clock"
	"github.com/jask/rustance/internal/database"
	"github.com/jask/rustance/internal/database/repository"
	"github.com/jask/rustance/internal/money"
)

type monthCall struct {
	heading string
	rep     MonthReport
}

type recordingRenderer struct {
	months   []monthCall
	totals   []Total
	messages []string
}

func (r *recordingRenderer) Month(heading string, rep MonthReport) error {
	r.months = append(r.months, monthCall{heading: heading, rep: rep})
	return nil
}

func (r *recordingRenderer) Total(t Total) error {
	r.totals = append(r.totals, t)
	return nil
}

func (r *recordingRenderer) Message(_ Tone, text string) error {
	r.messages = append(r.messages, text)
	return nil
}

func (r *recordingRenderer) reset() { *r = recordingRenderer{} }

// steppingClock returns start and advances a minute per reading.
type steppingClock struct{ next time.Time }

func (c *steppingClock) Now() time.Time {
	now := c.next
	c.next = c.next.Add(time.Minute)
	return now
}

type fixture struct {
	engine *Engine
	store  *repository.RecordRepo
	out    *recordingRenderer
	clock  *steppingClock
}

func newFixture(t *testing.T, start time.Time) *fixture {
	t.Helper()
	dir := t.TempDir()
	log, _ := test.NewNullLogger()
	db, err := database.Bootstrap(context.Background(), filepath.Join(dir, "wallet.db"), filepath.Join(dir, "migrates"), logrus.NewEntry(log))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &fixture{
		store: repository.NewRecordRepo(db),
		out:   &recordingRenderer{},
		clock: &steppingClock{next: start},
	}
	f.engine = &Engine{Store: f.store, Clock: f.clock, Renderer: f.out, Log: log}
	return f
}

func (f *fixture) answer(s string) { f.engine.In = strings.NewReader(s) }

func ptr[T any](v T) *T { return &v }

var march = time.Date(2025, time.March, 11, 6, 0, 0, 0, time.UTC)

func TestAddThenListSingleIncome(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, march)

	rec, err := f.engine.AddEntry(ctx, money.In, "12.34", "lunch")
	require.NoError(t, err)
	require.Equal(t, int64(1), rec.ID)
	require.Equal(t, []string{"Inserted income record with amount: 12.34"}, f.out.messages)

	f.out.reset()
	reports, err := f.engine.ListAll(ctx, "")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Len(t, f.out.months, 1)
	require.Equal(t, "2025-03", f.out.months[0].heading)

	rows := reports[0].Rows
	require.Len(t, rows, 2)
	require.Equal(t, DisplayRow{ID: 1, Amount: "12.34", Direction: money.In, Note: "lunch", UpdatedAt: "2025-03-11 14:00:00"}, rows[0])
	require.True(t, rows[1].Synthetic)
	require.Zero(t, rows[1].ID)
	require.Empty(t, rows[1].UpdatedAt)

	require.Len(t, f.out.totals, 1)
	require.Equal(t, "12.34", f.out.totals[0].Amount.String())
	require.Equal(t, money.In, f.out.totals[0].Direction)
}

func TestIncomeAndOutcomeTotals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, march)

	_, err := f.engine.AddEntry(ctx, money.In, "100", "")
	require.NoError(t, err)
	_, err = f.engine.AddEntry(ctx, money.Out, "25.5", "taxi")
	require.NoError(t, err)

	f.out.reset()
	reports, err := f.engine.ListAll(ctx, "")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Equal(t, int64(7450), reports[0].TotalCents)
	require.Equal(t, money.In, reports[0].TotalDirection)
	require.Equal(t, "74.50", reports[0].Rows[2].Amount)
	require.Equal(t, MonthTotalLabel, reports[0].Rows[2].Note)
	require.Equal(t, "74.50", f.out.totals[0].Amount.String())
}

func TestNegativeMonthTotalFolds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, march)

	_, err := f.engine.AddEntry(ctx, money.In, "1", "")
	require.NoError(t, err)
	_, err = f.engine.AddEntry(ctx, money.Out, "3.25", "")
	require.NoError(t, err)

	reports, err := f.engine.ListAll(ctx, "")
	require.NoError(t, err)
	require.Equal(t, int64(-225), reports[0].TotalCents)
	require.Equal(t, money.Out, reports[0].TotalDirection)
	require.Equal(t, "2.25", reports[0].Rows[2].Amount)
	require.Equal(t, money.Out, f.out.totals[0].Direction)
}

func TestPatchConfirmed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, march)
	for _, a := range []string{"100", "25.5", "7"} {
		_, err := f.engine.AddEntry(ctx, money.In, a, "")
		require.NoError(t, err)
	}
	before, err := f.store.Get(ctx, 2)
	require.NoError(t, err)

	f.out.reset()
	f.answer("y\n")
	state, err := f.engine.PatchEntry(ctx, 2, Patch{Amount: ptr("30")})
	require.NoError(t, err)
	require.Equal(t, StateCommitted, state)
	require.Equal(t, []string{"Before", "Patched"}, []string{f.out.months[0].heading, f.out.months[1].heading})
	require.Equal(t, "25.50", f.out.months[0].rep.Rows[0].Amount)
	require.Equal(t, "30.00", f.out.months[1].rep.Rows[0].Amount)
	require.Contains(t, f.out.messages, "Patch successfully!")

	after, err := f.store.Get(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "30.00", after.Amount.String())
	require.Equal(t, money.In, after.Direction)
	require.True(t, after.UpdatedAt.After(before.UpdatedAt))
	require.True(t, after.CreatedAt.Equal(before.CreatedAt))
}

func TestPatchOverlaysEachField(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, march)
	_, err := f.engine.AddEntry(ctx, money.In, "10", "coffee")
	require.NoError(t, err)

	f.answer("yes\n")
	_, err = f.engine.PatchEntry(ctx, 1, Patch{Direction: ptr(money.Out)})
	require.NoError(t, err)
	f.answer("YES\n")
	_, err = f.engine.PatchEntry(ctx, 1, Patch{Note: ptr("tea")})
	require.NoError(t, err)

	got, err := f.store.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "10.00", got.Amount.String())
	require.Equal(t, money.Out, got.Direction)
	require.Equal(t, "tea", got.Note)
}

func TestPatchRejectsBadAmountBeforeLoading(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, march)

	for _, bad := range []string{"0", "-1", "1.005", "ten"} {
		_, err := f.engine.PatchEntry(ctx, 99, Patch{Amount: ptr(bad)})
		require.Equal(t, KindInvalidAmount, KindOf(err), "amount %q", bad)
	}
	require.Empty(t, f.out.months)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, march)
	for _, a := range []string{"1", "2", "3"} {
		_, err := f.engine.AddEntry(ctx, money.In, a, "")
		require.NoError(t, err)
	}

	f.out.reset()
	f.answer("no\n")
	state, err := f.engine.DeleteEntry(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, StateAborted, state)
	require.Contains(t, f.out.messages, "Give up")
	_, err = f.store.Get(ctx, 1)
	require.NoError(t, err)

	f.answer("Y\n")
	state, err = f.engine.DeleteEntry(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, StateCommitted, state)
	_, err = f.store.Get(ctx, 1)
	require.ErrorIs(t, err, repository.ErrNotFound)

	all, err := f.store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, []int64{2, 3}, []int64{all[0].ID, all[1].ID})
}

func TestConfirmationGate(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		input  string
		commit bool
	}{
		{"", false},
		{"\n", false},
		{"n\n", false},
		{"no\n", false},
		{"nope\n", false},
		{"yess\n", false},
		{"y e s\n", false},
		{" y \n", true},
		{"y", true},
		{"Yes\r\n", true},
		{"\tYES\n", true},
	}
	for _, tc := range cases {
		f := newFixture(t, march)
		_, err := f.engine.AddEntry(ctx, money.In, "5", "keep")
		require.NoError(t, err)

		f.answer(tc.input)
		state, err := f.engine.PatchEntry(ctx, 1, Patch{Note: ptr("changed")})
		require.NoError(t, err, "input %q", tc.input)

		got, err := f.store.Get(ctx, 1)
		require.NoError(t, err)
		if tc.commit {
			require.Equal(t, StateCommitted, state, "input %q", tc.input)
			require.Equal(t, "changed", got.Note, "input %q", tc.input)
		} else {
			require.Equal(t, StateAborted, state, "input %q", tc.input)
			require.Equal(t, "keep", got.Note, "input %q", tc.input)
		}
	}
}

func TestNilInputAborts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, march)
	_, err := f.engine.AddEntry(ctx, money.In, "5", "")
	require.NoError(t, err)

	state, err := f.engine.DeleteEntry(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, StateAborted, state)
}

func TestMissingRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, march)

	_, err := f.engine.DeleteEntry(ctx, 7)
	require.Equal(t, KindNotFound, KindOf(err))
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = f.engine.PatchEntry(ctx, 7, Patch{})
	require.Equal(t, KindNotFound, KindOf(err))
}

func TestMonthFilterUsesDisplayZone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Date(2024, time.January, 31, 23, 30, 0, 0, time.UTC))
	_, err := f.engine.AddEntry(ctx, money.In, "1", "edge")
	require.NoError(t, err)

	f.out.reset()
	reports, err := f.engine.ListAll(ctx, "2024-02")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Equal(t, "2024-02", reports[0].Month.String())
	require.Equal(t, "2024-02-01 07:30:00", reports[0].Rows[0].UpdatedAt)
	require.Empty(t, f.out.totals, "filtered listing has no overall total")

	reports, err = f.engine.ListAll(ctx, "2024-01")
	require.NoError(t, err)
	require.Empty(t, reports)
}

func TestListInvalidFilter(t *testing.T) {
	f := newFixture(t, march)
	_, err := f.engine.ListAll(context.Background(), "2024-13")
	require.Equal(t, KindInvalidTime, KindOf(err))
	require.ErrorIs(t, err, clock.ErrInvalidTime)
}

func TestLargeIncomesKeepTheirSign(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, march)

	_, err := f.engine.AddEntry(ctx, money.In, "90000000000000000", "")
	require.Equal(t, KindInvalidAmount, KindOf(err))

	for range 2 {
		_, err = f.engine.AddEntry(ctx, money.In, "10000000000000", "")
		require.NoError(t, err)
	}
	reports, err := f.engine.ListAll(ctx, "")
	require.NoError(t, err)
	require.Equal(t, 2*money.MaxCents, reports[0].TotalCents)
	require.Equal(t, money.In, reports[0].TotalDirection)
	require.Equal(t, "20000000000000.00", f.out.totals[0].Amount.String())
	require.Equal(t, money.In, f.out.totals[0].Direction)
}

func TestSumClampsOnOverflow(t *testing.T) {
	huge, err := money.FromCents(math.MaxInt64 / 2)
	require.NoError(t, err)
	ts := march
	records := []repository.Record{
		{ID: 1, Amount: huge, Direction: money.In, UpdatedAt: ts},
		{ID: 2, Amount: huge, Direction: money.In, UpdatedAt: ts},
		{ID: 3, Amount: huge, Direction: money.In, UpdatedAt: ts},
	}

	total := Sum(records)
	require.Equal(t, money.In, total.Direction)
	require.Equal(t, int64(math.MaxInt64), total.Amount.Cents())

	rep := NewMonthReport(clock.KeyOf(ts), records)
	require.Equal(t, money.In, rep.TotalDirection)
	require.Positive(t, rep.TotalCents)
}

func TestAddRejectsInvalidAmounts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, march)

	for _, bad := range []string{"-5", "0", "0.00", "1.234", "1e3", "abc", ""} {
		_, err := f.engine.AddEntry(ctx, money.In, bad, "")
		require.Equal(t, KindInvalidAmount, KindOf(err), "amount %q", bad)
		require.ErrorIs(t, err, money.ErrInvalidAmount)
		require.Contains(t, err.Error(), "invalid amount")
	}

	all, err := f.store.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestGroupByMonthOrdering(t *testing.T) {
	mk := func(id int64, ts string) repository.Record {
		inst, err := time.Parse(time.RFC3339, ts)
		require.NoError(t, err)
		m, _ := money.FromCents(100)
		return repository.Record{ID: id, Amount: m, Direction: money.In, CreatedAt: inst, UpdatedAt: inst}
	}
	reports := GroupByMonth([]repository.Record{
		mk(3, "2025-01-05T00:00:00Z"),
		mk(1, "2024-12-31T17:00:00Z"), // 2025-01-01 01:00 local
		mk(2, "2024-12-01T00:00:00Z"),
		mk(4, "2025-01-05T00:00:00Z"),
	})
	require.Len(t, reports, 2)
	require.Equal(t, "2024-12", reports[0].Month.String())
	require.Equal(t, "2025-01", reports[1].Month.String())

	var ids []int64
	for _, r := range reports[1].Rows {
		if !r.Synthetic {
			ids = append(ids, r.ID)
		}
	}
	require.Equal(t, []int64{1, 3, 4}, ids)
	require.Equal(t, int64(300), reports[1].TotalCents)
}

type failingStore struct {
	repository.RecordRepo
	rows int64
	err  error
	rec  repository.Record
}

func (s *failingStore) Get(context.Context, int64) (repository.Record, error) { return s.rec, nil }
func (s *failingStore) Update(context.Context, repository.Record) (int64, error) {
	return s.rows, s.err
}
func (s *failingStore) Delete(context.Context, int64) (int64, error) { return s.rows, s.err }

func TestAffectedRowsInvariant(t *testing.T) {
	ctx := context.Background()
	m, _ := money.FromCents(100)
	rec := repository.Record{ID: 1, Amount: m, Direction: money.In, CreatedAt: march, UpdatedAt: march}

	e := &Engine{Store: &failingStore{rows: 2, rec: rec}, Clock: clock.Func(func() time.Time { return march }), Renderer: &recordingRenderer{}, In: strings.NewReader("y\n")}
	state, err := e.DeleteEntry(ctx, 1)
	require.Equal(t, StateFailed, state)
	require.Equal(t, KindInternal, KindOf(err))

	e.Store = &failingStore{err: errors.New("disk I/O error"), rec: rec}
	e.In = strings.NewReader("y\n")
	state, err = e.PatchEntry(ctx, 1, Patch{})
	require.Equal(t, StateFailed, state)
	require.Equal(t, KindIo, KindOf(err))
}
