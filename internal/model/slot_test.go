package model

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawHours(start, end any) RawSlot {
	return RawSlot{StartHour: start, EndHour: end}
}

func TestValidateSlotAcceptsAllValidPairs(t *testing.T) {
	for s := -1; s <= 25; s++ {
		for e := -1; e <= 25; e++ {
			slot, ok := ValidateSlot(rawHours(float64(s), float64(e)))
			valid := (s == 0 && e == 24) ||
				(s >= 0 && s < 24 && e > 0 && e <= 24 && s < e)
			if valid {
				require.True(t, ok, "expected (%d,%d) to validate", s, e)
				assert.Equal(t, s, slot.StartHour)
				assert.Equal(t, e, slot.EndHour)
			} else {
				assert.False(t, ok, "expected (%d,%d) to be rejected", s, e)
			}
		}
	}
}

func TestValidateSlotFullDaySentinel(t *testing.T) {
	slot, ok := ValidateSlot(rawHours(float64(0), float64(24)))
	require.True(t, ok)
	assert.Equal(t, FullDay(), slot)
}

func TestValidateSlotRejectsNonIntegerHours(t *testing.T) {
	cases := []struct {
		name  string
		start any
		end   any
	}{
		{"string start", "9", float64(17)},
		{"string end", float64(9), "17"},
		{"missing start", nil, float64(17)},
		{"missing end", float64(9), nil},
		{"fractional start", 9.5, float64(17)},
		{"boolean", true, float64(17)},
		{"object", map[string]any{"h": 9}, float64(17)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := ValidateSlot(rawHours(tc.start, tc.end))
			assert.False(t, ok)
		})
	}
}

func TestValidateSlotTrimsName(t *testing.T) {
	raw := rawHours(float64(9), float64(17))
	raw.Name = "  client meeting  "
	slot, ok := ValidateSlot(raw)
	require.True(t, ok)
	assert.Equal(t, "client meeting", slot.Name)

	raw.Name = "   "
	slot, ok = ValidateSlot(raw)
	require.True(t, ok)
	assert.Empty(t, slot.Name)
}

func TestValidateSlotDropsUnknownAvailabilityType(t *testing.T) {
	raw := rawHours(float64(9), float64(17))
	raw.AvailabilityType = "maybe-ish"
	slot, ok := ValidateSlot(raw)
	require.True(t, ok)
	assert.Empty(t, slot.AvailabilityType)

	raw.AvailabilityType = "BUSY"
	slot, ok = ValidateSlot(raw)
	require.True(t, ok)
	assert.Equal(t, AvailabilityBusy, slot.AvailabilityType)
}

func TestValidateSlotFromDecodedJSON(t *testing.T) {
	// String hours must survive decoding and still be rejected.
	payload := `{"start_hour":"9","end_hour":17}`
	var raw RawSlot
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	_, ok := ValidateSlot(raw)
	assert.False(t, ok)
}

func TestAvailabilityTypeCounting(t *testing.T) {
	for _, typ := range []AvailabilityType{"", AvailabilityAvailable, AvailabilityTentative} {
		t.Run(fmt.Sprintf("available %q", typ), func(t *testing.T) {
			assert.True(t, typ.CountsAvailable())
			assert.False(t, typ.CountsUnavailable())
		})
	}
	for _, typ := range []AvailabilityType{AvailabilityBusy, AvailabilityUnavailable} {
		t.Run(fmt.Sprintf("unavailable %q", typ), func(t *testing.T) {
			assert.False(t, typ.CountsAvailable())
			assert.True(t, typ.CountsUnavailable())
		})
	}
}
