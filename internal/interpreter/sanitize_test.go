package interpreter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah51022/schedule-sensei-sync/internal/model"
)

var refDate = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func TestSanitizeWellFormedIsLossless(t *testing.T) {
	raw := `{"action":"add","dates":[{"date":"2024-01-15","slots":[{"start_hour":9,"end_hour":17}]}]}`
	cs, err := Sanitize(raw, refDate)
	require.NoError(t, err)
	require.Equal(t, model.ActionAdd, cs.Action)
	require.Len(t, cs.Dates, 1)
	assert.Equal(t, "2024-01-15", cs.Dates[0].Date)
	require.Len(t, cs.Dates[0].Slots, 1)
	assert.Equal(t, model.TimeSlot{StartHour: 9, EndHour: 17}, cs.Dates[0].Slots[0])

	// Round-trip through JSON reproduces the literal input structure.
	out, err := json.Marshal(cs)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestSanitizeStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"action\":\"remove\",\"dates\":[{\"date\":\"2024-01-16\",\"slots\":[{\"start_hour\":14,\"end_hour\":16}]}]}\n```"
	cs, err := Sanitize(raw, refDate)
	require.NoError(t, err)
	assert.Equal(t, model.ActionRemove, cs.Action)
	require.Len(t, cs.Dates, 1)
	assert.Equal(t, 14, cs.Dates[0].Slots[0].StartHour)
}

func TestSanitizeExtractsEmbeddedJSON(t *testing.T) {
	raw := `Sure! Here is the schedule you asked for:
{"action":"add","dates":[{"date":"2024-01-15","slots":[{"start_hour":10,"end_hour":12,"name":"brunch"}]}]}
Let me know if that looks right.`
	cs, err := Sanitize(raw, refDate)
	require.NoError(t, err)
	require.Len(t, cs.Dates, 1)
	assert.Equal(t, "brunch", cs.Dates[0].Slots[0].Name)
}

func TestSanitizeLegacyBareArray(t *testing.T) {
	raw := `[{"start_hour":9,"end_hour":17},{"start_hour":"bad","end_hour":20}]`
	cs, err := Sanitize(raw, refDate)
	require.NoError(t, err)
	assert.Equal(t, model.ActionAdd, cs.Action)
	require.Len(t, cs.Dates, 1)
	assert.Equal(t, "2024-01-15", cs.Dates[0].Date)
	// The string-hour slot is filtered, the valid one survives.
	require.Len(t, cs.Dates[0].Slots, 1)
	assert.Equal(t, 9, cs.Dates[0].Slots[0].StartHour)
}

func TestSanitizeRejectsUnknownAction(t *testing.T) {
	raw := `{"action":"update","dates":[{"date":"2024-01-15","slots":[{"start_hour":9,"end_hour":17}]}]}`
	_, err := Sanitize(raw, refDate)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadAction)
}

func TestSanitizeUnparsableAfterRepair(t *testing.T) {
	_, err := Sanitize("I'm not sure what you mean, could you clarify?", refDate)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnparsable)
	// Raw text is preserved for diagnosis.
	assert.Contains(t, err.Error(), "not sure what you mean")
}

func TestSanitizeDropsInvalidSlotsAndEmptyDates(t *testing.T) {
	raw := `{"action":"add","dates":[
		{"date":"2024-01-15","slots":[{"start_hour":"9","end_hour":17}]},
		{"date":"2024-01-16","slots":[{"start_hour":25,"end_hour":26},{"start_hour":8,"end_hour":10,"availability_type":"busy"}]},
		{"date":"not-a-date","slots":[{"start_hour":9,"end_hour":10}]}
	]}`
	cs, err := Sanitize(raw, refDate)
	require.NoError(t, err)
	// The all-invalid date and the malformed date are gone entirely.
	require.Len(t, cs.Dates, 1)
	assert.Equal(t, "2024-01-16", cs.Dates[0].Date)
	require.Len(t, cs.Dates[0].Slots, 1)
	assert.Equal(t, model.AvailabilityBusy, cs.Dates[0].Slots[0].AvailabilityType)
}

func TestSanitizeNothingUnderstoodIsNotAnError(t *testing.T) {
	cs, err := Sanitize(`{"action":"add","dates":[]}`, refDate)
	require.NoError(t, err)
	assert.True(t, cs.Empty())
}

func TestSanitizeFullDaySentinel(t *testing.T) {
	raw := `{"action":"add","dates":[{"date":"2024-01-15","slots":[{"start_hour":0,"end_hour":24}]}]}`
	cs, err := Sanitize(raw, refDate)
	require.NoError(t, err)
	assert.Equal(t, model.FullDay(), cs.Dates[0].Slots[0])
}

func TestExtractJSONHandlesStrings(t *testing.T) {
	s := `noise {"a":"br}ace \" in string","b":[1,2]} trailing`
	out, ok := extractJSON(s)
	require.True(t, ok)
	assert.Equal(t, `{"a":"br}ace \" in string","b":[1,2]}`, out)

	_, ok = extractJSON("no json here")
	assert.False(t, ok)
}
