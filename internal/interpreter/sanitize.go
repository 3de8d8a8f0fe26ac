package interpreter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/noah51022/schedule-sensei-sync/internal/model"
)

// ErrUnparsable means the model's reply was not JSON even after one
// brace-extraction repair attempt.  The wrapped message carries the raw
// text for diagnosis.
var ErrUnparsable = errors.New("model reply is not parsable JSON")

// ErrBadAction means the reply parsed but its action was neither "add"
// nor "remove".  The whole response is rejected; guessing an action could
// corrupt stored availability.
var ErrBadAction = errors.New("model reply has an unknown action")

// rawChangeSet mirrors the shape the model is instructed to emit, with
// every slot left untyped for the validator.
type rawChangeSet struct {
	Action string `json:"action"`
	Dates  []struct {
		Date  string          `json:"date"`
		Slots []model.RawSlot `json:"slots"`
	} `json:"dates"`
}

// Sanitize converts the raw model reply into a validated ChangeSet.  It
// is a pure transform: no network, no clock, deterministic for a given
// input.  Steps:
//
//  1. strip an optional markdown code fence;
//  2. parse; on failure, extract the first balanced JSON object or array
//     substring and retry exactly once;
//  3. normalize the legacy bare-array shape (a plain slot list) into a
//     single-date add for the reference date;
//  4. validate the action, then every slot; drop rejected slots, drop
//     date entries left empty, drop entries with malformed dates.
//
// A well-formed reply with nothing interpretable yields an empty
// ChangeSet and a nil error - "nothing understood" is not a failure.
func Sanitize(raw string, refDate time.Time) (*model.ChangeSet, error) {
	text := stripFence(raw)

	if cs, err := decode(text, refDate); err == nil {
		return cs, nil
	} else if errors.Is(err, ErrBadAction) {
		return nil, err
	}

	// One repair attempt: the model sometimes wraps JSON in prose.
	if extracted, ok := extractJSON(text); ok {
		cs, err := decode(extracted, refDate)
		if err == nil {
			return cs, nil
		}
		if errors.Is(err, ErrBadAction) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnparsable, snippet(raw))
}

// decode parses either the canonical {action, dates} object or the legacy
// bare slot array and runs the result through validation.
func decode(text string, refDate time.Time) (*model.ChangeSet, error) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "[") {
		var slots []model.RawSlot
		if err := json.Unmarshal([]byte(trimmed), &slots); err != nil {
			return nil, err
		}
		raw := rawChangeSet{Action: string(model.ActionAdd)}
		raw.Dates = append(raw.Dates, struct {
			Date  string          `json:"date"`
			Slots []model.RawSlot `json:"slots"`
		}{Date: refDate.Format("2006-01-02"), Slots: slots})
		return normalize(raw)
	}

	var raw rawChangeSet
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return nil, err
	}
	return normalize(raw)
}

// normalize enforces the action contract and filters every slot through
// the validator.  Slot rejection is silent; only an unknown action is a
// hard failure.
func normalize(raw rawChangeSet) (*model.ChangeSet, error) {
	action := model.Action(strings.ToLower(strings.TrimSpace(raw.Action)))
	if action != model.ActionAdd && action != model.ActionRemove {
		return nil, fmt.Errorf("%w: %q", ErrBadAction, raw.Action)
	}
	cs := &model.ChangeSet{Action: action}
	for _, entry := range raw.Dates {
		if _, err := time.Parse("2006-01-02", entry.Date); err != nil {
			continue
		}
		var slots []model.TimeSlot
		for _, rs := range entry.Slots {
			if slot, ok := model.ValidateSlot(rs); ok {
				slots = append(slots, slot)
			}
		}
		if len(slots) == 0 {
			continue // no empty no-op entries
		}
		cs.Dates = append(cs.Dates, model.DailyAvailability{Date: entry.Date, Slots: slots})
	}
	return cs, nil
}

// stripFence removes a surrounding markdown code fence, with or without a
// language tag, and trims whitespace.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// extractJSON returns the first balanced {...} or [...] substring,
// respecting string literals and escapes.  ok is false when no balanced
// region exists.
func extractJSON(s string) (string, bool) {
	start := -1
	for i, r := range s {
		if r == '{' || r == '[' {
			start = i
			break
		}
	}
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// snippet truncates raw model output for error messages so logs stay
// readable while keeping enough text to diagnose the failure.
func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
