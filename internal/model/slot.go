package model

import "strings"

// AvailabilityType qualifies what a time slot means beyond simple
// presence.  An empty value is treated as "available" everywhere for
// backward compatibility with rows written before the column existed.
type AvailabilityType string

const (
	AvailabilityAvailable   AvailabilityType = "available"
	AvailabilityUnavailable AvailabilityType = "unavailable"
	AvailabilityBusy        AvailabilityType = "busy"
	AvailabilityTentative   AvailabilityType = "tentative"
)

// ParseAvailabilityType returns the matching enum value for s.  Unknown
// values report ok=false so callers can drop the field rather than guess
// an incorrect type.
func ParseAvailabilityType(s string) (AvailabilityType, bool) {
	switch AvailabilityType(strings.ToLower(strings.TrimSpace(s))) {
	case AvailabilityAvailable:
		return AvailabilityAvailable, true
	case AvailabilityUnavailable:
		return AvailabilityUnavailable, true
	case AvailabilityBusy:
		return AvailabilityBusy, true
	case AvailabilityTentative:
		return AvailabilityTentative, true
	}
	return "", false
}

// Counts toward the "everyone is free" side of a common-slot check.
// Unset types count as available.
func (t AvailabilityType) CountsAvailable() bool {
	return t == "" || t == AvailabilityAvailable || t == AvailabilityTentative
}

// Vetoes a common slot regardless of how many others are free.
func (t AvailabilityType) CountsUnavailable() bool {
	return t == AvailabilityUnavailable || t == AvailabilityBusy
}

// TimeSlot is a contiguous half-open hour range [StartHour, EndHour) on a
// single date, with an optional label and availability type.  The pair
// (0, 24) is the explicit full-day sentinel and is always valid.
//
// Fields:
//  StartHour        – first hour covered, 0..23 (or 0 for the sentinel).
//  EndHour          – first hour NOT covered, 1..24.
//  Name             – optional label ("client meeting"); empty means none.
//  AvailabilityType – optional semantic status; empty means available.
type TimeSlot struct {
	StartHour        int              `json:"start_hour"`
	EndHour          int              `json:"end_hour"`
	Name             string           `json:"name,omitempty"`
	AvailabilityType AvailabilityType `json:"availability_type,omitempty"`
}

// FullDay is the canonical 24-hour sentinel slot.
func FullDay() TimeSlot { return TimeSlot{StartHour: 0, EndHour: 24} }

// RawSlot is the untyped shape a slot arrives in from the language model.
// Hours may be missing, strings, floats or anything else; ValidateSlot is
// the only way to turn a RawSlot into a TimeSlot.
type RawSlot struct {
	StartHour        any `json:"start_hour"`
	EndHour          any `json:"end_hour"`
	Name             any `json:"name"`
	AvailabilityType any `json:"availability_type"`
}

// ValidateSlot checks a candidate slot from an untrusted producer and
// returns the canonical TimeSlot when it passes.  Rules, in order:
//
//  1. both hours must be integers — strings and missing fields are the
//     dominant real-world failure mode and are rejected, not coerced;
//  2. (0, 24) is accepted unconditionally as the full-day sentinel;
//  3. otherwise 0 <= start < 24, 0 < end <= 24 and start < end;
//  4. the name is trimmed; whitespace-only collapses to absent;
//  5. an unrecognized availability_type is dropped, never defaulted to a
//     wrong value.
//
// Rejection is silent filtering by design: the second return value is
// false and no error is raised.
func ValidateSlot(raw RawSlot) (TimeSlot, bool) {
	start, ok := hourValue(raw.StartHour)
	if !ok {
		return TimeSlot{}, false
	}
	end, ok := hourValue(raw.EndHour)
	if !ok {
		return TimeSlot{}, false
	}
	if !(start == 0 && end == 24) { // full-day sentinel skips bounds checks
		if start < 0 || start >= 24 {
			return TimeSlot{}, false
		}
		if end <= 0 || end > 24 {
			return TimeSlot{}, false
		}
		if start >= end {
			return TimeSlot{}, false
		}
	}
	slot := TimeSlot{StartHour: start, EndHour: end}
	if s, ok := raw.Name.(string); ok {
		slot.Name = strings.TrimSpace(s)
	}
	if s, ok := raw.AvailabilityType.(string); ok {
		if t, ok := ParseAvailabilityType(s); ok {
			slot.AvailabilityType = t
		}
	}
	return slot, true
}

// hourValue extracts an integral hour from a decoded JSON value.  JSON
// numbers decode as float64; only whole values are accepted.  Strings are
// rejected even when they look numeric.
func hourValue(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}
