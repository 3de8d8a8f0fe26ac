package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/noah51022/schedule-sensei-sync/internal/interpreter"
	"github.com/noah51022/schedule-sensei-sync/internal/merge"
	"github.com/noah51022/schedule-sensei-sync/internal/queue"
	"github.com/noah51022/schedule-sensei-sync/internal/repository"
	queue_publisher "github.com/noah51022/schedule-sensei-sync/internal/service"
)

// ChatHandler is the interpreter boundary: one user message in, one
// applied change set and a natural-language confirmation out. Every
// failure is translated to the {error, details?} shape with a non-2xx
// status; nothing here panics outward.
type ChatHandler struct {
	Events *repository.EventRepo
	Interp *interpreter.Interpreter
	Merge  *merge.Engine
}

func NewChatHandler(events *repository.EventRepo, interp *interpreter.Interpreter, eng *merge.Engine) *ChatHandler {
	if events == nil || interp == nil || eng == nil {
		panic("nil dependency passed to NewChatHandler")
	}
	return &ChatHandler{Events: events, Interp: interp, Merge: eng}
}

type dateRangePart struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type chatReq struct {
	Message   string         `json:"message"`
	Date      string         `json:"date"`      // optional reference date override
	DateRange *dateRangePart `json:"dateRange"` // optional event-range override
}

// Chat handles POST /v1/events/:id/chat. The model call is the only
// slow step and is awaited exactly once per message; callers serialize
// their own messages.
func (h *ChatHandler) Chat(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := parseEventID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req chatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}

	// Relative expressions resolve against the supplied date, not
	// wall-clock now, so "tomorrow" means the same thing on replay.
	refDate := time.Now().UTC()
	if req.Date != "" {
		d, err := parseDate(req.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		refDate = d
	}
	rangeStart, rangeEnd := ev.StartDate, ev.EndDate
	if req.DateRange != nil {
		if !validDate(req.DateRange.Start) || !validDate(req.DateRange.End) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dateRange must be YYYY-MM-DD"})
		}
		rangeStart, rangeEnd = req.DateRange.Start, req.DateRange.End
	}

	cs, err := h.Interp.Interpret(ctx, interpreter.Request{
		Message:       req.Message,
		ReferenceDate: refDate,
		RangeStart:    rangeStart,
		RangeEnd:      rangeEnd,
	})
	if err != nil {
		switch {
		case errors.Is(err, interpreter.ErrUnparsable):
			return c.JSON(http.StatusBadGateway, echo.Map{
				"error":   "could not interpret the response",
				"details": err.Error(),
			})
		case errors.Is(err, interpreter.ErrBadAction):
			return c.JSON(http.StatusBadGateway, echo.Map{
				"error":   "could not interpret the response",
				"details": err.Error(),
			})
		default:
			// Transport or auth failure reaching the model.
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "interpreter unavailable", "details": err.Error()})
		}
	}

	// A well-formed reply with zero usable slots is a success-shaped
	// outcome; the reply text asks the user to rephrase.
	if cs.Empty() {
		return c.JSON(http.StatusOK, echo.Map{
			"action": cs.Action,
			"dates":  cs.Dates,
			"reply":  interpreter.Confirmation(cs),
		})
	}

	if err := h.Merge.Apply(ctx, eventID, uid, cs); err != nil {
		if errors.Is(err, merge.ErrPartialState) {
			// Stored rows may disagree with what we are about to tell
			// the user; callers must not retry this blindly.
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error":   "availability may be partially updated",
				"details": err.Error(),
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "apply change failed"})
	}

	// Broker trouble never fails the request; the publisher logs it.
	dates := make([]string, 0, len(cs.Dates))
	for _, d := range cs.Dates {
		dates = append(dates, d.Date)
	}
	_ = queue_publisher.PublishAvailabilityChanged(ctx, queue.AvailabilityChangedEvent{
		EventID:    eventID,
		UserID:     uid,
		Action:     string(cs.Action),
		Dates:      dates,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{
		"action": cs.Action,
		"dates":  cs.Dates,
		"reply":  interpreter.Confirmation(cs),
	})
}
