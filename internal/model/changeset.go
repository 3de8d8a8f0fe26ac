package model

// Action says whether a change set adds availability rows or removes
// coverage from existing ones.  Any other value coming back from the
// language model is a hard interpretation failure, never guessed at.
type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

// DailyAvailability holds the validated slots for one calendar date.
// Dates are plain "YYYY-MM-DD" strings; the service does not normalize
// timezones across participants.
//
// Fields:
//  Date  – calendar date in YYYY-MM-DD form.
//  Slots – validated slots for that date; never empty inside a ChangeSet.
type DailyAvailability struct {
	Date  string     `json:"date"`
	Slots []TimeSlot `json:"slots"`
}

// ChangeSet is the normalized output of the interpreter: an action plus
// one entry per affected date.  Multi-day requests ("June 4-6") expand to
// one DailyAvailability per day with the same slots.  Entries whose slots
// were all rejected by validation are dropped entirely rather than kept
// as empty no-ops.
type ChangeSet struct {
	Action Action              `json:"action"`
	Dates  []DailyAvailability `json:"dates"`
}

// Empty reports whether nothing interpretable survived validation.  An
// empty change set is a success-shaped "nothing understood" outcome, not
// an error.
func (cs *ChangeSet) Empty() bool {
	return cs == nil || len(cs.Dates) == 0
}
