package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/noah51022/schedule-sensei-sync/internal/model"
)

// EventRepo provides persistence for events: the named date ranges that
// availability rows hang off.  Only the host may change an event's range;
// anyone authenticated may read it and contribute availability.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// Create inserts a new event and returns it with generated fields
// populated.  Dates are YYYY-MM-DD strings and must already be ordered
// start <= end by the handler.
func (r *EventRepo) Create(ctx context.Context, hostID uint64, name, startDate, endDate string) (*model.Event, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO events (host_id, name, start_date, end_date) VALUES (?, ?, ?, ?)`,
		hostID, name, startDate, endDate)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a single event.  ErrEventNotFound is returned when the
// id does not exist.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	const q = `SELECT id, host_id, name, start_date, end_date, created_at, updated_at
			   FROM events WHERE id = ?`
	var (
		ev         model.Event
		start, end time.Time
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&ev.ID, &ev.HostID, &ev.Name, &start, &end, &ev.CreatedAt, &ev.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	ev.StartDate = start.Format("2006-01-02")
	ev.EndDate = end.Format("2006-01-02")
	return &ev, nil
}

// UpdateRange moves the event's date range.  The host id is part of the
// predicate; when nothing matches we look the event up to distinguish
// "not yours" (ErrForbidden) from "does not exist" (ErrEventNotFound).
func (r *EventRepo) UpdateRange(ctx context.Context, id, hostID uint64, startDate, endDate string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET start_date = ?, end_date = ?, updated_at = NOW() WHERE id = ? AND host_id = ?`,
		startDate, endDate, id, hostID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		// The range may be unchanged, in which case MySQL reports zero
		// affected rows; confirm ownership before calling it forbidden.
		var owner uint64
		if err := r.db.QueryRowContext(ctx, `SELECT host_id FROM events WHERE id = ?`, id).Scan(&owner); err != nil {
			return err
		}
		if owner != hostID {
			return ErrForbidden
		}
	}
	return nil
}
