package merge

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah51022/schedule-sensei-sync/internal/model"
	"github.com/noah51022/schedule-sensei-sync/internal/repository"
)

func newEngine(t *testing.T) (*Engine, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(repository.NewAvailabilityRepo(db)), mock
}

func TestSplitRemaindersFullCover(t *testing.T) {
	row := model.AvailabilityRow{StartHour: 9, EndHour: 17}
	assert.Empty(t, SplitRemainders(row, model.TimeSlot{StartHour: 9, EndHour: 17}))
	assert.Empty(t, SplitRemainders(row, model.TimeSlot{StartHour: 8, EndHour: 18}))
}

func TestSplitRemaindersInnerWindow(t *testing.T) {
	row := model.AvailabilityRow{ID: 7, StartHour: 8, EndHour: 18, Name: "work", AvailabilityType: model.AvailabilityBusy}
	rems := SplitRemainders(row, model.TimeSlot{StartHour: 10, EndHour: 12})
	require.Len(t, rems, 2)
	assert.Equal(t, 8, rems[0].StartHour)
	assert.Equal(t, 10, rems[0].EndHour)
	assert.Equal(t, 12, rems[1].StartHour)
	assert.Equal(t, 18, rems[1].EndHour)
	for _, rem := range rems {
		assert.Zero(t, rem.ID)
		assert.Equal(t, "work", rem.Name)
		assert.Equal(t, model.AvailabilityBusy, rem.AvailabilityType)
	}
}

func TestSplitRemaindersEdge(t *testing.T) {
	row := model.AvailabilityRow{StartHour: 9, EndHour: 17}

	rems := SplitRemainders(row, model.TimeSlot{StartHour: 9, EndHour: 12})
	require.Len(t, rems, 1)
	assert.Equal(t, 12, rems[0].StartHour)
	assert.Equal(t, 17, rems[0].EndHour)

	rems = SplitRemainders(row, model.TimeSlot{StartHour: 15, EndHour: 17})
	require.Len(t, rems, 1)
	assert.Equal(t, 9, rems[0].StartHour)
	assert.Equal(t, 15, rems[0].EndHour)
}

func TestApplyEmptyChangeSet(t *testing.T) {
	eng, mock := newEngine(t)
	err := eng.Apply(context.Background(), 1, 2, &model.ChangeSet{Action: model.ActionAdd})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyAddInsertsVerbatim(t *testing.T) {
	eng, mock := newEngine(t)
	mock.ExpectExec("INSERT INTO availability").
		WithArgs(uint64(1), uint64(2), "2024-06-04", 9, 17, nil, nil,
			uint64(1), uint64(2), "2024-06-05", 14, 16, "standup", "busy").
		WillReturnResult(sqlmock.NewResult(1, 2))

	cs := &model.ChangeSet{
		Action: model.ActionAdd,
		Dates: []model.DailyAvailability{
			{Date: "2024-06-04", Slots: []model.TimeSlot{{StartHour: 9, EndHour: 17}}},
			{Date: "2024-06-05", Slots: []model.TimeSlot{{StartHour: 14, EndHour: 16, Name: "standup", AvailabilityType: model.AvailabilityBusy}}},
		},
	}
	err := eng.Apply(context.Background(), 1, 2, cs)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyRemoveExactMatch(t *testing.T) {
	eng, mock := newEngine(t)
	mock.ExpectExec("DELETE FROM availability").
		WithArgs(uint64(1), uint64(2), "2024-06-04", 9, 17).
		WillReturnResult(sqlmock.NewResult(0, 1))

	cs := &model.ChangeSet{
		Action: model.ActionRemove,
		Dates: []model.DailyAvailability{
			{Date: "2024-06-04", Slots: []model.TimeSlot{{StartHour: 9, EndHour: 17}}},
		},
	}
	err := eng.Apply(context.Background(), 1, 2, cs)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyRemoveSplitsOverlap(t *testing.T) {
	eng, mock := newEngine(t)
	date := time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)

	// Exact delete misses, so the engine walks overlapping rows in a tx.
	mock.ExpectExec("DELETE FROM availability").
		WithArgs(uint64(1), uint64(2), "2024-06-04", 10, 12).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM availability").
		WithArgs(uint64(1), uint64(2), "2024-06-04").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "event_id", "user_id", "date", "start_hour", "end_hour", "name", "availability_type", "created_at",
		}).
			AddRow(5, 1, 2, date, 8, 18, nil, nil, time.Now()).
			AddRow(6, 1, 2, date, 20, 22, nil, nil, time.Now()))
	mock.ExpectExec("DELETE FROM availability WHERE id").
		WithArgs(uint64(5), uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO availability").
		WithArgs(uint64(1), uint64(2), "2024-06-04", 8, 10, nil, nil).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO availability").
		WithArgs(uint64(1), uint64(2), "2024-06-04", 12, 18, nil, nil).
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectCommit()

	cs := &model.ChangeSet{
		Action: model.ActionRemove,
		Dates: []model.DailyAvailability{
			{Date: "2024-06-04", Slots: []model.TimeSlot{{StartHour: 10, EndHour: 12}}},
		},
	}
	err := eng.Apply(context.Background(), 1, 2, cs)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyUnknownAction(t *testing.T) {
	eng, mock := newEngine(t)
	cs := &model.ChangeSet{
		Action: model.Action("update"),
		Dates:  []model.DailyAvailability{{Date: "2024-06-04", Slots: []model.TimeSlot{{StartHour: 1, EndHour: 2}}}},
	}
	err := eng.Apply(context.Background(), 1, 2, cs)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
