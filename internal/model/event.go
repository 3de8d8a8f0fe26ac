package model

import "time"

// Event represents a shared scheduling event: a named date range that a
// small group of people accumulate availability against.  The host is the
// user who created the event and the only one allowed to move its range.
//
// Fields:
//  ID        – primary key identifier.
//  HostID    – user who created the event.
//  Name      – human-readable event name.
//  StartDate – first date of the range (YYYY-MM-DD).
//  EndDate   – last date of the range, inclusive.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Event struct {
	ID        uint64    // events.id
	HostID    uint64    // events.host_id
	Name      string    // events.name
	StartDate string    // events.start_date
	EndDate   string    // events.end_date
	CreatedAt time.Time // events.created_at
	UpdatedAt time.Time // events.updated_at
}

// AvailabilityRow is one stored availability record: a contiguous hour
// range for one user on one date of an event.  The store is row-per-range,
// not row-per-hour; partial removals split rows rather than flipping hour
// bits.  Rows are created, split and deleted only by their owning user.
//
// Fields:
//  ID               – primary key identifier.
//  EventID          – event the row belongs to.
//  UserID           – owner of the row.
//  Date             – calendar date (YYYY-MM-DD).
//  StartHour        – first covered hour, 0..23.
//  EndHour          – first uncovered hour, 1..24.
//  Name             – optional label carried from the user's message.
//  AvailabilityType – optional status; empty means available.
//  CreatedAt        – creation timestamp.
type AvailabilityRow struct {
	ID               uint64           // availability.id
	EventID          uint64           // availability.event_id
	UserID           uint64           // availability.user_id
	Date             string           // availability.date
	StartHour        int              // availability.start_hour
	EndHour          int              // availability.end_hour
	Name             string           // availability.name (nullable)
	AvailabilityType AvailabilityType // availability.availability_type (nullable)
	CreatedAt        time.Time        // availability.created_at
}

// Participant is derived, never stored: any user with at least one
// availability row for an event, joined with a display name.  A missing
// profile name falls back to a label instead of failing the lookup.
type Participant struct {
	UserID      uint64 `json:"user_id"`
	DisplayName string `json:"display_name"`
}
