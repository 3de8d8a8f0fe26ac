package interpreter

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah51022/schedule-sensei-sync/internal/model"
)

// Confirmation renders the assistant's reply for an applied change set.
// It is deliberately thin: pick the right verb for the action and status,
// then list the dates and hours that were touched.
func Confirmation(cs *model.ChangeSet) string {
	if cs.Empty() {
		return "I couldn't find a specific time in that. Could you tell me the date and hours? " +
			"For example: \"I'm free Saturday 2-5 PM\" or \"busy with a client meeting 2-4pm Thursday\"."
	}

	var b strings.Builder
	if cs.Action == model.ActionRemove {
		b.WriteString("Okay, I've cleared ")
	} else {
		switch cs.Dates[0].Slots[0].AvailabilityType {
		case model.AvailabilityBusy:
			b.WriteString("Got it, I've marked you busy ")
		case model.AvailabilityUnavailable:
			b.WriteString("Got it, I've marked you unavailable ")
		case model.AvailabilityTentative:
			b.WriteString("Noted as tentative: ")
		default:
			b.WriteString("Great, I've marked you available ")
		}
	}
	b.WriteString(describeDates(cs.Dates))
	b.WriteString(".")
	return b.String()
}

// describeDates formats "June 4 from 9:00 AM to 5:00 PM" style summaries,
// collapsing a contiguous run of dates that share the same slots.
func describeDates(dates []model.DailyAvailability) string {
	first := dates[0]
	last := dates[len(dates)-1]
	span := formatDate(first.Date)
	if last.Date != first.Date {
		span = fmt.Sprintf("%s through %s", span, formatDate(last.Date))
	}

	parts := make([]string, 0, len(first.Slots))
	for _, s := range first.Slots {
		if s.StartHour == 0 && s.EndHour == 24 {
			parts = append(parts, "all day")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s to %s", formatHour(s.StartHour), formatHour(s.EndHour)))
	}
	if len(parts) == 1 && parts[0] == "all day" {
		return span + " all day"
	}
	return fmt.Sprintf("%s from %s", span, strings.Join(parts, " and "))
}

func formatDate(d string) string {
	t, err := time.Parse("2006-01-02", d)
	if err != nil {
		return d
	}
	return t.Format("Monday, Jan 2")
}

// formatHour renders a 0..24 hour boundary as 12-hour clock text, with 24
// shown as midnight to keep full-day ranges readable.
func formatHour(h int) string {
	switch {
	case h == 0 || h == 24:
		return "12:00 AM"
	case h == 12:
		return "12:00 PM"
	case h < 12:
		return fmt.Sprintf("%d:00 AM", h)
	default:
		return fmt.Sprintf("%d:00 PM", h-12)
	}
}
