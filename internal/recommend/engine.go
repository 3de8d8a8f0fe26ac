// Package recommend computes the hour ranges where every participant of
// an event is simultaneously free. All functions are pure projections
// over stored availability rows; nothing here touches the database.
package recommend

import (
	"sort"
	"time"

	"github.com/noah51022/schedule-sensei-sync/internal/model"
)

// Window bounds the daily scan. StartHour..EndHour are inclusive scan
// hours; a run still open at the boundary closes at EndHour+1.
type Window struct {
	StartHour int
	EndHour   int
}

// DefaultWindow covers the usual waking hours.
var DefaultWindow = Window{StartHour: 8, EndHour: 23}

// Slot is one maximal run of qualifying hours on a single date.
type Slot struct {
	Date      string `json:"date"`
	StartHour int    `json:"start_hour"`
	EndHour   int    `json:"end_hour"`
}

// Group is a span of consecutive dates sharing an identical hour run.
type Group struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	StartHour int    `json:"start_hour"`
	EndHour   int    `json:"end_hour"`
}

// HourCell is one hour of the per-date grid: who said what, and the
// aggregate counts the UI renders.
type HourCell struct {
	Hour      int                               `json:"hour"`
	Available int                               `json:"available"`
	Total     int                               `json:"total"`
	Statuses  map[uint64]model.AvailabilityType `json:"statuses,omitempty"`
}

// hourSets tracks, for one date+hour, which users count as free and
// which count as blocked. A user can appear in both when separate rows
// disagree; blocked always wins.
type hourSets struct {
	available   map[uint64]struct{}
	unavailable map[uint64]struct{}
}

func project(rows []model.AvailabilityRow) map[string]map[int]*hourSets {
	byDate := make(map[string]map[int]*hourSets)
	for _, row := range rows {
		hours := byDate[row.Date]
		if hours == nil {
			hours = make(map[int]*hourSets)
			byDate[row.Date] = hours
		}
		for h := row.StartHour; h < row.EndHour; h++ {
			if h < 0 || h > 23 {
				continue
			}
			cell := hours[h]
			if cell == nil {
				cell = &hourSets{
					available:   make(map[uint64]struct{}),
					unavailable: make(map[uint64]struct{}),
				}
				hours[h] = cell
			}
			if row.AvailabilityType.CountsUnavailable() {
				cell.unavailable[row.UserID] = struct{}{}
			} else {
				cell.available[row.UserID] = struct{}{}
			}
		}
	}
	return byDate
}

// HourlyGrid builds the ephemeral 24-entry projection for one date. It
// is rebuilt on every read and never persisted.
func HourlyGrid(rows []model.AvailabilityRow, date string, total int) []HourCell {
	byDate := project(rows)
	hours := byDate[date]
	grid := make([]HourCell, 24)
	for h := 0; h < 24; h++ {
		cell := HourCell{Hour: h, Total: total}
		if sets := hours[h]; sets != nil {
			statuses := make(map[uint64]model.AvailabilityType)
			for uid := range sets.available {
				statuses[uid] = model.AvailabilityAvailable
			}
			for uid := range sets.unavailable {
				statuses[uid] = model.AvailabilityBusy
			}
			for uid := range sets.available {
				if _, blocked := sets.unavailable[uid]; !blocked {
					cell.Available++
				}
			}
			cell.Statuses = statuses
		}
		grid[h] = cell
	}
	return grid
}

// CommonSlots returns the maximal runs of hours, per date in ascending
// order, where every participant is in the available set and nobody is
// in the unavailable set. A single busy or unavailable row vetoes the
// hour regardless of how many others are free.
func CommonSlots(rows []model.AvailabilityRow, totalParticipants int, window Window) []Slot {
	if totalParticipants == 0 {
		return []Slot{}
	}
	byDate := project(rows)
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	slots := make([]Slot, 0)
	for _, date := range dates {
		hours := byDate[date]
		runStart := -1
		for h := window.StartHour; h <= window.EndHour; h++ {
			ok := false
			if sets := hours[h]; sets != nil {
				ok = len(sets.available) == totalParticipants && len(sets.unavailable) == 0
			}
			if ok {
				if runStart < 0 {
					runStart = h
				}
				continue
			}
			if runStart >= 0 {
				slots = append(slots, Slot{Date: date, StartHour: runStart, EndHour: h})
				runStart = -1
			}
		}
		if runStart >= 0 {
			slots = append(slots, Slot{Date: date, StartHour: runStart, EndHour: window.EndHour + 1})
		}
	}
	return slots
}

// GroupConsecutive merges slots on adjacent calendar dates with
// identical hour runs into date-range groups. Input must be ordered by
// date, as CommonSlots produces.
func GroupConsecutive(slots []Slot) []Group {
	groups := make([]Group, 0, len(slots))
	for _, s := range slots {
		if n := len(groups); n > 0 {
			last := &groups[n-1]
			if last.StartHour == s.StartHour && last.EndHour == s.EndHour && dayAfter(last.EndDate, s.Date) {
				last.EndDate = s.Date
				continue
			}
		}
		groups = append(groups, Group{StartDate: s.Date, EndDate: s.Date, StartHour: s.StartHour, EndHour: s.EndHour})
	}
	return groups
}

func dayAfter(prev, next string) bool {
	p, err1 := time.Parse("2006-01-02", prev)
	n, err2 := time.Parse("2006-01-02", next)
	if err1 != nil || err2 != nil {
		return false
	}
	return n.Sub(p) == 24*time.Hour
}
