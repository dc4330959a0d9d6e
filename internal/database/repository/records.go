package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jask/rustance/internal/database"
	"github.com/jask/rustance/internal/money"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("record not found")

const recordColumns = "id, amount, in_or_out, append_msg, created_at, updated_at"

// RecordRepo handles amount_record rows.
type RecordRepo struct {
	db *sql.DB
}

func NewRecordRepo(db *sql.DB) *RecordRepo { return &RecordRepo{db: db} }

// Insert stores r and returns the id sqlite assigned. r.ID is ignored.
func (r *RecordRepo) Insert(ctx context.Context, rec Record) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO amount_record(amount, in_or_out, append_msg, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?);
	`,
		rec.Amount.Cents(), rec.Direction.IsIn(), rec.Note,
		database.FormatTime(rec.CreatedAt), database.FormatTime(rec.UpdatedAt))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *RecordRepo) Get(ctx context.Context, id int64) (Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM amount_record WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
		}
		return Record{}, err
	}
	return rec, nil
}

// ListAll returns every record ordered by updated_at, then id.
func (r *RecordRepo) ListAll(ctx context.Context) ([]Record, error) {
	return r.list(ctx, `SELECT `+recordColumns+` FROM amount_record ORDER BY updated_at ASC, id ASC`)
}

// ListRange returns records with start <= updated_at < end.
func (r *RecordRepo) ListRange(ctx context.Context, start, end time.Time) ([]Record, error) {
	return r.list(ctx, `
	SELECT `+recordColumns+` FROM amount_record
	WHERE updated_at >= ? AND updated_at < ?
	ORDER BY updated_at ASC, id ASC`,
		database.FormatTime(start), database.FormatTime(end))
}

// Update overwrites the mutable fields of the row with rec.ID. created_at
// is left alone. It returns the number of rows affected.
func (r *RecordRepo) Update(ctx context.Context, rec Record) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	UPDATE amount_record
	SET amount = ?, in_or_out = ?, append_msg = ?, updated_at = ?
	WHERE id = ?`,
		rec.Amount.Cents(), rec.Direction.IsIn(), rec.Note, database.FormatTime(rec.UpdatedAt), rec.ID)
	if err != nil {
		return 0, err
	}
	return affected(res, rec.ID)
}

func (r *RecordRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM amount_record WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return affected(res, id)
}

func affected(res sql.Result, id int64) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return n, nil
}

func (r *RecordRepo) list(ctx context.Context, query string, args ...interface{}) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (Record, error) {
	var rec Record
	var cents int64
	var in bool
	if err := row.Scan(&rec.ID, &cents, &in, &rec.Note, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return Record{}, err
	}
	amount, err := money.FromCents(cents)
	if err != nil {
		return Record{}, fmt.Errorf("record %d: %w", rec.ID, err)
	}
	rec.Amount = amount
	rec.Direction = money.DirectionFromBool(in)
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, nil
}
