package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah51022/schedule-sensei-sync/internal/model"
)

func row(user uint64, date string, start, end int, at model.AvailabilityType) model.AvailabilityRow {
	return model.AvailabilityRow{UserID: user, Date: date, StartHour: start, EndHour: end, AvailabilityType: at}
}

func TestCommonSlotsBusyVeto(t *testing.T) {
	rows := []model.AvailabilityRow{
		row(1, "2024-06-04", 9, 17, model.AvailabilityAvailable),
		row(2, "2024-06-04", 9, 17, model.AvailabilityBusy),
	}
	slots := CommonSlots(rows, 2, DefaultWindow)
	assert.Empty(t, slots)
}

func TestCommonSlotsAllFree(t *testing.T) {
	rows := []model.AvailabilityRow{
		row(1, "2024-06-04", 9, 17, model.AvailabilityAvailable),
		row(2, "2024-06-04", 10, 12, model.AvailabilityTentative),
	}
	slots := CommonSlots(rows, 2, DefaultWindow)
	require.Len(t, slots, 1)
	assert.Equal(t, Slot{Date: "2024-06-04", StartHour: 10, EndHour: 12}, slots[0])
}

func TestCommonSlotsConflictingRowsSameUser(t *testing.T) {
	// One user is both available and busy 14-16; the blocked side vetoes.
	rows := []model.AvailabilityRow{
		row(1, "2024-06-04", 9, 17, model.AvailabilityAvailable),
		row(1, "2024-06-04", 14, 16, model.AvailabilityBusy),
	}
	slots := CommonSlots(rows, 1, DefaultWindow)
	require.Len(t, slots, 2)
	assert.Equal(t, Slot{Date: "2024-06-04", StartHour: 9, EndHour: 14}, slots[0])
	assert.Equal(t, Slot{Date: "2024-06-04", StartHour: 16, EndHour: 17}, slots[1])
}

func TestCommonSlotsWindowBoundaryCloses(t *testing.T) {
	rows := []model.AvailabilityRow{
		row(1, "2024-06-04", 20, 24, model.AvailabilityAvailable),
	}
	slots := CommonSlots(rows, 1, DefaultWindow)
	require.Len(t, slots, 1)
	assert.Equal(t, Slot{Date: "2024-06-04", StartHour: 20, EndHour: 24}, slots[0])
}

func TestCommonSlotsIgnoresHoursBeforeWindow(t *testing.T) {
	rows := []model.AvailabilityRow{
		row(1, "2024-06-04", 5, 10, model.AvailabilityAvailable),
	}
	slots := CommonSlots(rows, 1, Window{StartHour: 8, EndHour: 23})
	require.Len(t, slots, 1)
	assert.Equal(t, Slot{Date: "2024-06-04", StartHour: 8, EndHour: 10}, slots[0])
}

func TestCommonSlotsZeroParticipants(t *testing.T) {
	assert.Empty(t, CommonSlots(nil, 0, DefaultWindow))
}

func TestGroupConsecutiveCollapsesRun(t *testing.T) {
	slots := []Slot{
		{Date: "2024-06-04", StartHour: 10, EndHour: 12},
		{Date: "2024-06-05", StartHour: 10, EndHour: 12},
		{Date: "2024-06-06", StartHour: 10, EndHour: 12},
	}
	groups := GroupConsecutive(slots)
	require.Len(t, groups, 1)
	assert.Equal(t, Group{StartDate: "2024-06-04", EndDate: "2024-06-06", StartHour: 10, EndHour: 12}, groups[0])
}

func TestGroupConsecutiveGapSplits(t *testing.T) {
	slots := []Slot{
		{Date: "2024-06-04", StartHour: 10, EndHour: 12},
		{Date: "2024-06-06", StartHour: 10, EndHour: 12},
	}
	groups := GroupConsecutive(slots)
	require.Len(t, groups, 2)
	assert.Equal(t, "2024-06-04", groups[0].EndDate)
	assert.Equal(t, "2024-06-06", groups[1].StartDate)
}

func TestGroupConsecutiveHourMismatchSplits(t *testing.T) {
	slots := []Slot{
		{Date: "2024-06-04", StartHour: 10, EndHour: 12},
		{Date: "2024-06-05", StartHour: 9, EndHour: 12},
	}
	groups := GroupConsecutive(slots)
	assert.Len(t, groups, 2)
}

func TestHourlyGrid(t *testing.T) {
	rows := []model.AvailabilityRow{
		row(1, "2024-06-04", 9, 11, model.AvailabilityAvailable),
		row(2, "2024-06-04", 10, 11, model.AvailabilityUnavailable),
		row(3, "2024-06-05", 9, 10, model.AvailabilityAvailable),
	}
	grid := HourlyGrid(rows, "2024-06-04", 2)
	require.Len(t, grid, 24)

	assert.Equal(t, 0, grid[8].Available)
	assert.Equal(t, 2, grid[8].Total)
	assert.Nil(t, grid[8].Statuses)

	assert.Equal(t, 1, grid[9].Available)
	assert.Len(t, grid[9].Statuses, 1)

	assert.Equal(t, 1, grid[10].Available)
	assert.Len(t, grid[10].Statuses, 2)
}
