// Package merge applies interpreted change sets to stored availability.
// Adds are verbatim inserts; removes either hit an exact-match row or
// split overlapping rows into their uncovered remainders inside a
// transaction.
package merge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/noah51022/schedule-sensei-sync/internal/model"
	"github.com/noah51022/schedule-sensei-sync/internal/repository"
)

// ErrPartialState is returned when a removal transaction could not be
// rolled back after a failure, meaning stored rows may disagree with
// what the user was told.
var ErrPartialState = errors.New("availability may be partially updated")

// Engine applies change sets against the availability repository.
type Engine struct {
	Avail *repository.AvailabilityRepo
}

// New returns an Engine backed by the given repository.
func New(avail *repository.AvailabilityRepo) *Engine {
	return &Engine{Avail: avail}
}

// Apply executes a change set for one user of one event. Add inserts
// every slot as a row without touching existing coverage. Remove clears
// the covered portion of each overlapping row, re-inserting up to two
// remainder rows per split. Empty change sets are a no-op.
func (e *Engine) Apply(ctx context.Context, eventID, userID uint64, cs *model.ChangeSet) error {
	if cs == nil || cs.Empty() {
		return nil
	}
	switch cs.Action {
	case model.ActionAdd:
		return e.applyAdd(ctx, eventID, userID, cs.Dates)
	case model.ActionRemove:
		return e.applyRemove(ctx, eventID, userID, cs.Dates)
	default:
		return fmt.Errorf("unknown action %q", cs.Action)
	}
}

func (e *Engine) applyAdd(ctx context.Context, eventID, userID uint64, dates []model.DailyAvailability) error {
	rows := make([]model.AvailabilityRow, 0)
	for _, day := range dates {
		for _, slot := range day.Slots {
			rows = append(rows, model.AvailabilityRow{
				EventID:          eventID,
				UserID:           userID,
				Date:             day.Date,
				StartHour:        slot.StartHour,
				EndHour:          slot.EndHour,
				Name:             slot.Name,
				AvailabilityType: slot.AvailabilityType,
			})
		}
	}
	return e.Avail.InsertBulk(ctx, rows)
}

// applyRemove clears each removal window date by date. An exact-match
// delete is tried first outside any transaction; when it misses, every
// row overlapping the window is deleted and its uncovered remainders are
// re-inserted atomically.
func (e *Engine) applyRemove(ctx context.Context, eventID, userID uint64, dates []model.DailyAvailability) error {
	for _, day := range dates {
		for _, slot := range day.Slots {
			n, err := e.Avail.DeleteExact(ctx, eventID, userID, day.Date, slot.StartHour, slot.EndHour)
			if err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			if err := e.removeOverlapping(ctx, eventID, userID, day.Date, slot); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Engine) removeOverlapping(ctx context.Context, eventID, userID uint64, date string, window model.TimeSlot) error {
	tx, err := e.Avail.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := e.splitInTx(ctx, tx, eventID, userID, date, window); err != nil {
		// A failed rollback after a mid-sequence error means stored rows
		// may no longer match what the user was told; callers must not
		// retry this silently.
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w: %v (rollback: %v)", ErrPartialState, err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

func (e *Engine) splitInTx(ctx context.Context, tx *sql.Tx, eventID, userID uint64, date string, window model.TimeSlot) error {
	rows, err := e.Avail.ListForUserDateTx(ctx, tx, eventID, userID, date)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if row.StartHour >= window.EndHour || row.EndHour <= window.StartHour {
			continue
		}
		if err := e.Avail.DeleteByIDTx(ctx, tx, row.ID, userID); err != nil {
			return err
		}
		for _, rem := range SplitRemainders(row, window) {
			if err := e.Avail.InsertTx(ctx, tx, rem); err != nil {
				return err
			}
		}
	}
	return nil
}

// SplitRemainders returns the parts of row's hour range not covered by
// the removal window, as fresh rows carrying the original name and
// availability type. A window covering the whole row yields nothing; a
// window strictly inside it yields two rows.
func SplitRemainders(row model.AvailabilityRow, window model.TimeSlot) []model.AvailabilityRow {
	out := make([]model.AvailabilityRow, 0, 2)
	if row.StartHour < window.StartHour {
		rem := row
		rem.ID = 0
		rem.EndHour = window.StartHour
		out = append(out, rem)
	}
	if row.EndHour > window.EndHour {
		rem := row
		rem.ID = 0
		rem.StartHour = window.EndHour
		out = append(out, rem)
	}
	return out
}
