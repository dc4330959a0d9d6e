// Package ledger implements the record operations behind each command:
// listing month reports, adding entries, and the confirmed patch and delete
// mutations.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jask/rustance/internal/clock"
	"github.com/jask/rustance/internal/database/repository"
	"github.com/jask/rustance/internal/logging"
	"github.com/jask/rustance/internal/money"
)

// Store is the persistence the engine needs. repository.RecordRepo
// implements it.
type Store interface {
	Insert(ctx context.Context, rec repository.Record) (int64, error)
	Get(ctx context.Context, id int64) (repository.Record, error)
	ListAll(ctx context.Context) ([]repository.Record, error)
	ListRange(ctx context.Context, start, end time.Time) ([]repository.Record, error)
	Update(ctx context.Context, rec repository.Record) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// Tone tells the renderer how to style a message.
type Tone int

const (
	ToneNotice Tone = iota
	TonePrompt
	ToneSuccess
	ToneAbort
)

// Renderer draws reports and messages for the user.
type Renderer interface {
	Month(heading string, rep MonthReport) error
	Total(t Total) error
	Message(tone Tone, text string) error
}

// State is a step of a confirmed mutation.
type State int

const (
	StateLoaded State = iota
	StatePreviewed
	StateConfirmed
	StateAborted
	StateCommitted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StatePreviewed:
		return "previewed"
	case StateConfirmed:
		return "confirmed"
	case StateAborted:
		return "aborted"
	case StateCommitted:
		return "committed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Patch lists the fields to overlay on a record. Nil fields are kept.
type Patch struct {
	Amount    *string
	Direction *money.Direction
	Note      *string
}

// Engine runs ledger operations against a Store.
type Engine struct {
	Store    Store
	Clock    clock.Clock
	Renderer Renderer
	// In supplies confirmation answers. Nil reads as an empty answer.
	In  io.Reader
	Log logrus.FieldLogger
}

const (
	opAdd    = "add entry"
	opList   = "list all"
	opPatch  = "patch entry"
	opDelete = "delete entry"
)

// AddEntry stores a new record dated now.
func (e *Engine) AddEntry(ctx context.Context, dir money.Direction, amount, note string) (repository.Record, error) {
	m, err := positiveAmount(amount)
	if err != nil {
		return repository.Record{}, E(KindInvalidAmount, opAdd, err)
	}

	now := e.now()
	rec := repository.Record{Amount: m, Direction: dir, Note: note, CreatedAt: now, UpdatedAt: now}
	id, err := e.Store.Insert(ctx, rec)
	if err != nil {
		return repository.Record{}, E(KindIo, opAdd, err)
	}
	rec.ID = id
	e.log().WithFields(logrus.Fields{
		logging.FieldOperation: opAdd,
		logging.FieldRecordID:  id,
		logging.FieldDirection: dir.String(),
		logging.FieldAmount:    m.Cents(),
	}).Debug("Record inserted")

	msg := fmt.Sprintf("Inserted %s record with amount: %s", dir.Noun(), m)
	if err := e.Renderer.Message(ToneNotice, msg); err != nil {
		return rec, E(KindIo, opAdd, err)
	}
	return rec, nil
}

// ListAll renders every record grouped by display month, followed by the
// overall total. A non-empty timeFilter (YYYY-MM) restricts the listing to
// that month and skips the overall total.
func (e *Engine) ListAll(ctx context.Context, timeFilter string) ([]MonthReport, error) {
	var (
		records []repository.Record
		err     error
	)
	if timeFilter != "" {
		key, perr := clock.ParseMonthKey(timeFilter)
		if perr != nil {
			return nil, E(KindInvalidTime, opList, perr)
		}
		start, end := key.Bounds()
		records, err = e.Store.ListRange(ctx, start, end)
	} else {
		records, err = e.Store.ListAll(ctx)
	}
	if err != nil {
		return nil, E(KindIo, opList, err)
	}

	reports := GroupByMonth(records)
	for _, rep := range reports {
		if err := e.Renderer.Month(rep.Month.String(), rep); err != nil {
			return reports, E(KindIo, opList, err)
		}
	}
	e.log().WithFields(logrus.Fields{
		logging.FieldOperation: opList,
		logging.FieldMonth:     timeFilter,
		logging.FieldCount:     len(records),
	}).Debug("Records listed")

	if timeFilter == "" {
		if err := e.Renderer.Total(Sum(records)); err != nil {
			return reports, E(KindIo, opList, err)
		}
	}
	return reports, nil
}

// PatchEntry previews the record before and after the patch and writes it
// only after a positive confirmation. created_at is preserved and
// updated_at moves to now.
func (e *Engine) PatchEntry(ctx context.Context, id int64, p Patch) (State, error) {
	var amount *money.Money
	if p.Amount != nil {
		m, err := positiveAmount(*p.Amount)
		if err != nil {
			return StateLoaded, E(KindInvalidAmount, opPatch, err)
		}
		amount = &m
	}

	cur, err := e.load(ctx, opPatch, id)
	if err != nil {
		return StateLoaded, err
	}

	next := cur
	if amount != nil {
		next.Amount = *amount
	}
	if p.Direction != nil {
		next.Direction = *p.Direction
	}
	if p.Note != nil {
		next.Note = *p.Note
	}
	next.UpdatedAt = e.now()
	if next.UpdatedAt.Before(cur.UpdatedAt) {
		next.UpdatedAt = cur.UpdatedAt
	}

	preview := func() error {
		if err := e.Renderer.Month("Before", NewMonthReport(clock.KeyOf(cur.UpdatedAt), []repository.Record{cur})); err != nil {
			return err
		}
		if err := e.Renderer.Month("Patched", NewMonthReport(clock.KeyOf(next.UpdatedAt), []repository.Record{next})); err != nil {
			return err
		}
		return e.Renderer.Message(TonePrompt, fmt.Sprintf("Patch record with id %d. %s", id, ConfirmPrompt))
	}
	commit := func() (int64, error) { return e.Store.Update(ctx, next) }
	return e.gate(opPatch, id, preview, commit, "Patch successfully!")
}

// DeleteEntry shows the record and removes it only after a positive
// confirmation.
func (e *Engine) DeleteEntry(ctx context.Context, id int64) (State, error) {
	cur, err := e.load(ctx, opDelete, id)
	if err != nil {
		return StateLoaded, err
	}

	preview := func() error {
		if err := e.Renderer.Month("Delete", NewMonthReport(clock.KeyOf(cur.UpdatedAt), []repository.Record{cur})); err != nil {
			return err
		}
		return e.Renderer.Message(TonePrompt, fmt.Sprintf("Delete record with id %d. %s", id, ConfirmPrompt))
	}
	commit := func() (int64, error) { return e.Store.Delete(ctx, id) }
	return e.gate(opDelete, id, preview, commit, "Delete successfully!")
}

// gate walks Loaded -> Previewed -> Confirmed|Aborted -> Committed|Failed.
// Only commit touches storage, and only after a yes.
func (e *Engine) gate(op string, id int64, preview func() error, commit func() (int64, error), done string) (State, error) {
	log := e.log().WithFields(logrus.Fields{logging.FieldOperation: op, logging.FieldRecordID: id})
	state := StateLoaded
	step := func(s State) {
		state = s
		log.WithField(logging.FieldState, s.String()).Debug("Mutation state")
	}
	step(StateLoaded)

	if err := preview(); err != nil {
		return state, E(KindIo, op, err)
	}
	step(StatePreviewed)

	answer, err := e.answer()
	if err != nil {
		return state, E(KindIo, op, fmt.Errorf("read confirmation: %w", err))
	}
	if !Accepts(answer) {
		step(StateAborted)
		if err := e.Renderer.Message(ToneAbort, "Give up"); err != nil {
			return state, E(KindIo, op, err)
		}
		return state, nil
	}
	step(StateConfirmed)

	n, err := commit()
	if err != nil {
		step(StateFailed)
		if errors.Is(err, repository.ErrNotFound) {
			return state, E(KindNotFound, op, err)
		}
		return state, E(KindIo, op, err)
	}
	if n != 1 {
		step(StateFailed)
		return state, E(KindInternal, op, fmt.Errorf("id %d: expected 1 row affected, got %d", id, n))
	}
	step(StateCommitted)

	if err := e.Renderer.Message(ToneSuccess, done); err != nil {
		return state, E(KindIo, op, err)
	}
	return state, nil
}

func (e *Engine) load(ctx context.Context, op string, id int64) (repository.Record, error) {
	cur, err := e.Store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Record{}, E(KindNotFound, op, err)
		}
		return repository.Record{}, E(KindIo, op, err)
	}
	return cur, nil
}

func (e *Engine) answer() (string, error) {
	if e.In == nil {
		return "", nil
	}
	return readAnswer(e.In)
}

func (e *Engine) now() time.Time {
	if e.Clock == nil {
		return clock.System{}.Now()
	}
	return e.Clock.Now().UTC()
}

func (e *Engine) log() logrus.FieldLogger {
	if e.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		return l
	}
	return e.Log.WithField(logging.FieldComponent, logging.ComponentLedger)
}

// positiveAmount parses a user amount and rejects zero.
func positiveAmount(s string) (money.Money, error) {
	m, err := money.Parse(s)
	if err != nil {
		return money.Money{}, err
	}
	if m.IsZero() {
		return money.Money{}, fmt.Errorf("%w: amount must be greater than 0", money.ErrInvalidAmount)
	}
	return m, nil
}
