package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/noah51022/schedule-sensei-sync/internal/model"
)

// AvailabilityRepo provides CRUD operations for availability rows.  The
// availability table stores one row per contiguous hour range per user
// per date - not one row per hour.  Overlapping and adjacent rows are
// tolerated on insert; the hourly projection aggregates across them.
// Removals that only partially cover a row are handled by the merge
// engine, which deletes the row and re-inserts the uncovered remainders
// inside a transaction using the *Tx methods here.
type AvailabilityRepo struct {
	db *sql.DB
}

// NewAvailabilityRepo returns a new AvailabilityRepo bound to the given database.
func NewAvailabilityRepo(db *sql.DB) *AvailabilityRepo { return &AvailabilityRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span several row operations.
func (r *AvailabilityRepo) DB() *sql.DB { return r.db }

// scanRows reads availability rows from a result set.  The date column
// arrives as time.Time (parseTime DSN option) and is normalized to
// YYYY-MM-DD so the rest of the system never deals with clock parts.
func scanRows(rows *sql.Rows) ([]model.AvailabilityRow, error) {
	out := make([]model.AvailabilityRow, 0)
	for rows.Next() {
		var (
			row   model.AvailabilityRow
			date  time.Time
			name  sql.NullString
			atype sql.NullString
		)
		if err := rows.Scan(&row.ID, &row.EventID, &row.UserID, &date,
			&row.StartHour, &row.EndHour, &name, &atype, &row.CreatedAt); err != nil {
			return nil, err
		}
		row.Date = date.Format("2006-01-02")
		if name.Valid {
			row.Name = name.String
		}
		if atype.Valid {
			row.AvailabilityType = model.AvailabilityType(atype.String)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const availabilityColumns = `id, event_id, user_id, date, start_hour, end_hour, name, availability_type, created_at`

// nullIfEmpty maps empty strings to SQL NULL so optional columns stay
// NULL instead of accumulating empty-string values.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// InsertBulk inserts availability rows in a single statement.  Rows are
// written verbatim - no merging or coalescing with existing coverage.
// Passing an empty slice has no effect and returns nil.
func (r *AvailabilityRepo) InsertBulk(ctx context.Context, rows []model.AvailabilityRow) error {
	if len(rows) == 0 {
		return nil
	}
	query := `INSERT INTO availability (event_id, user_id, date, start_hour, end_hour, name, availability_type) VALUES `
	args := make([]interface{}, 0, len(rows)*7)
	for i, row := range rows {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?)"
		args = append(args, row.EventID, row.UserID, row.Date, row.StartHour, row.EndHour,
			nullIfEmpty(row.Name), nullIfEmpty(string(row.AvailabilityType)))
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// InsertTx inserts a single row within an existing transaction.  Used by
// the merge engine when re-inserting split remainders so the delete and
// the re-inserts commit or roll back together.
func (r *AvailabilityRepo) InsertTx(ctx context.Context, tx *sql.Tx, row model.AvailabilityRow) error {
	const q = `INSERT INTO availability (event_id, user_id, date, start_hour, end_hour, name, availability_type)
			   VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, row.EventID, row.UserID, row.Date, row.StartHour, row.EndHour,
		nullIfEmpty(row.Name), nullIfEmpty(string(row.AvailabilityType)))
	return err
}

// DeleteExact removes the row whose hour range exactly equals the given
// range and returns how many rows matched.  This is the fast path for
// removals; zero affected rows sends the merge engine down the
// overlap-splitting path instead.
func (r *AvailabilityRepo) DeleteExact(ctx context.Context, eventID, userID uint64, date string, startHour, endHour int) (int64, error) {
	const q = `DELETE FROM availability
			   WHERE event_id = ? AND user_id = ? AND date = ? AND start_hour = ? AND end_hour = ?`
	res, err := r.db.ExecContext(ctx, q, eventID, userID, date, startHour, endHour)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteByIDTx removes one row by primary key within a transaction.  The
// user id is part of the predicate so a user can never delete rows they
// do not own, regardless of what id the caller supplies.
func (r *AvailabilityRepo) DeleteByIDTx(ctx context.Context, tx *sql.Tx, id, userID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM availability WHERE id = ? AND user_id = ?`, id, userID)
	return err
}

// ListForUserDateTx returns all of one user's rows for a date within a
// transaction, ordered by start hour.  The merge engine uses this to
// find rows overlapping a removal window.
func (r *AvailabilityRepo) ListForUserDateTx(ctx context.Context, tx *sql.Tx, eventID, userID uint64, date string) ([]model.AvailabilityRow, error) {
	const q = `SELECT ` + availabilityColumns + `
			   FROM availability
			   WHERE event_id = ? AND user_id = ? AND date = ?
			   ORDER BY start_hour, end_hour`
	rows, err := tx.QueryContext(ctx, q, eventID, userID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

// ListForEvent returns every availability row for an event across all
// users and dates, ordered by date then start hour.  This is the input
// to the recommendation scan and the hourly projection.
func (r *AvailabilityRepo) ListForEvent(ctx context.Context, eventID uint64) ([]model.AvailabilityRow, error) {
	const q = `SELECT ` + availabilityColumns + `
			   FROM availability
			   WHERE event_id = ?
			   ORDER BY date, start_hour, end_hour`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

// ListForEventDate returns all users' rows for one date of an event.
func (r *AvailabilityRepo) ListForEventDate(ctx context.Context, eventID uint64, date string) ([]model.AvailabilityRow, error) {
	const q = `SELECT ` + availabilityColumns + `
			   FROM availability
			   WHERE event_id = ? AND date = ?
			   ORDER BY user_id, start_hour`
	rows, err := r.db.QueryContext(ctx, q, eventID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

// DeleteRange atomically removes every row of one user matching the
// date-range / slot-list predicate in a single statement.  When slots is
// empty the whole date range is cleared; otherwise only rows whose hour
// range exactly matches one of the given slots are removed.  Returns the
// number of deleted rows.
func (r *AvailabilityRepo) DeleteRange(ctx context.Context, eventID, userID uint64, startDate, endDate string, slots []model.TimeSlot) (int64, error) {
	query := `DELETE FROM availability WHERE event_id = ? AND user_id = ? AND date BETWEEN ? AND ?`
	args := []interface{}{eventID, userID, startDate, endDate}
	if len(slots) > 0 {
		pairs := make([]string, 0, len(slots))
		for _, s := range slots {
			pairs = append(pairs, "(?, ?)")
			args = append(args, s.StartHour, s.EndHour)
		}
		query += ` AND (start_hour, end_hour) IN (` + strings.Join(pairs, ",") + `)`
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Participants derives the confirmed participant set: every distinct user
// with at least one availability row for the event, joined with profile
// display names.  A user without a display name gets the local part of
// their email as a fallback label - a missing profile is never an error.
func (r *AvailabilityRepo) Participants(ctx context.Context, eventID uint64) ([]model.Participant, error) {
	const q = `SELECT DISTINCT a.user_id, COALESCE(u.display_name, ''), COALESCE(u.email, '')
			   FROM availability a
			   LEFT JOIN users u ON u.id = a.user_id
			   WHERE a.event_id = ?
			   ORDER BY a.user_id`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	parts := make([]model.Participant, 0)
	for rows.Next() {
		var (
			p     model.Participant
			email string
		)
		if err := rows.Scan(&p.UserID, &p.DisplayName, &email); err != nil {
			return nil, err
		}
		if p.DisplayName == "" {
			if at := strings.IndexByte(email, '@'); at > 0 {
				p.DisplayName = email[:at]
			} else {
				p.DisplayName = "Friend"
			}
		}
		parts = append(parts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return parts, nil
}
