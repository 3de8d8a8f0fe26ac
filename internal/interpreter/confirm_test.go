package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah51022/schedule-sensei-sync/internal/model"
)

func TestConfirmationEmpty(t *testing.T) {
	msg := Confirmation(&model.ChangeSet{Action: model.ActionAdd})
	assert.Contains(t, msg, "couldn't find a specific time")
}

func TestConfirmationAdd(t *testing.T) {
	cs := &model.ChangeSet{
		Action: model.ActionAdd,
		Dates: []model.DailyAvailability{
			{Date: "2024-06-04", Slots: []model.TimeSlot{{StartHour: 9, EndHour: 17}}},
		},
	}
	msg := Confirmation(cs)
	assert.Contains(t, msg, "available")
	assert.Contains(t, msg, "Jun 4")
	assert.Contains(t, msg, "9:00 AM to 5:00 PM")
}

func TestConfirmationBusyRange(t *testing.T) {
	slots := []model.TimeSlot{{StartHour: 14, EndHour: 16, AvailabilityType: model.AvailabilityBusy}}
	cs := &model.ChangeSet{
		Action: model.ActionAdd,
		Dates: []model.DailyAvailability{
			{Date: "2024-06-04", Slots: slots},
			{Date: "2024-06-05", Slots: slots},
			{Date: "2024-06-06", Slots: slots},
		},
	}
	msg := Confirmation(cs)
	assert.Contains(t, msg, "busy")
	assert.Contains(t, msg, "through")
	assert.Contains(t, msg, "2:00 PM to 4:00 PM")
}

func TestConfirmationRemoveAndFullDay(t *testing.T) {
	cs := &model.ChangeSet{
		Action: model.ActionRemove,
		Dates: []model.DailyAvailability{
			{Date: "2024-06-05", Slots: []model.TimeSlot{model.FullDay()}},
		},
	}
	msg := Confirmation(cs)
	assert.Contains(t, msg, "cleared")
	assert.Contains(t, msg, "all day")
}
