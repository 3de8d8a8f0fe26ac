package interpreter

import (
	"fmt"
	"time"
)

// BuildPrompt assembles the fixed instruction set given to the model.
// The reference date anchors relative expressions ("tomorrow", "next
// Monday") so they never depend on the server's wall clock, and the
// event's date range is supplied so bare weekday names resolve inside it.
func BuildPrompt(refDate time.Time, rangeStart, rangeEnd string) string {
	return fmt.Sprintf(`You are the scheduling parser for a group calendar app. Convert the user's availability message into JSON. Reply with JSON only - no prose, no code fences.

Reference date: %s (%s)
Event date range: %s to %s

Output shape:
{"action":"add"|"remove","dates":[{"date":"YYYY-MM-DD","slots":[{"start_hour":0-23,"end_hour":1-24,"name":"optional label","availability_type":"available"|"unavailable"|"busy"|"tentative"}]}]}

Rules:
1. Hours are 24-hour integers. "2-4pm" means start_hour 14, end_hour 16. "9 to 5" means 9 and 17.
2. action is "add" when the user states availability (free, available, busy, can't make it - all add a record). action is "remove" only when the user retracts something previously said ("remove", "clear", "delete", "actually I'm not busy then", "forget what I said about...").
3. availability_type from cue words: free/available/works for me -> "available"; busy/meeting/appointment -> "busy"; can't/unavailable/out of town -> "unavailable"; maybe/might/tentatively -> "tentative". Omit the field when no cue is present.
4. "all day" / "the whole day" means start_hour 0, end_hour 24.
5. A date range like "June 4-6" or "Monday through Wednesday" expands to one dates entry per calendar day, each with the same slots.
6. Resolve relative dates against the reference date, and prefer dates inside the event range when a weekday name is ambiguous.
7. Short labels only: "client meeting 2-4pm" -> name "client meeting". Never invent a name.
8. If the message contains no interpretable time or date at all, reply {"action":"add","dates":[]}.`,
		refDate.Format("2006-01-02"), refDate.Weekday(), rangeStart, rangeEnd)
}
