package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/noah51022/schedule-sensei-sync/internal/model"
	"github.com/noah51022/schedule-sensei-sync/internal/queue"
	"github.com/noah51022/schedule-sensei-sync/internal/recommend"
	"github.com/noah51022/schedule-sensei-sync/internal/repository"
	queue_publisher "github.com/noah51022/schedule-sensei-sync/internal/service"
)

// AvailabilityHandler serves the read side (rows, hourly grid,
// recommendations) and the bulk delete. RDB may be nil; recommendation
// reads then always recompute.
type AvailabilityHandler struct {
	Events *repository.EventRepo
	Avail  *repository.AvailabilityRepo
	RDB    *redis.Client
	Window recommend.Window
}

func NewAvailabilityHandler(events *repository.EventRepo, avail *repository.AvailabilityRepo, rdb *redis.Client, window recommend.Window) *AvailabilityHandler {
	if events == nil || avail == nil {
		panic("nil repository passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Events: events, Avail: avail, RDB: rdb, Window: window}
}

// Get returns availability rows for an event, plus the ephemeral hourly
// grid when a single date is requested. The grid is rebuilt on every
// read and never persisted.
func (h *AvailabilityHandler) Get(c echo.Context) error {
	eventID, err := parseEventID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}

	date := c.QueryParam("date")
	if date == "" {
		rows, err := h.Avail.ListForEvent(ctx, eventID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load availability failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{"rows": rows})
	}
	if !validDate(date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	rows, err := h.Avail.ListForEventDate(ctx, eventID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load availability failed"})
	}
	parts, err := h.Avail.Participants(ctx, eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load participants failed"})
	}
	grid := recommend.HourlyGrid(rows, date, len(parts))
	return c.JSON(http.StatusOK, echo.Map{"rows": rows, "grid": grid})
}

type deleteAvailabilityReq struct {
	DateRange dateRangePart   `json:"dateRange"`
	Slots     []model.RawSlot `json:"slots"` // optional; empty clears the whole range
}

// Delete removes every row of the calling user matching the
// date-range / slot-list predicate in one statement.
func (h *AvailabilityHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := parseEventID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req deleteAvailabilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !validDate(req.DateRange.Start) || !validDate(req.DateRange.End) || req.DateRange.Start > req.DateRange.End {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dateRange must be YYYY-MM-DD with start <= end"})
	}
	slots := make([]model.TimeSlot, 0, len(req.Slots))
	for _, raw := range req.Slots {
		slot, ok := model.ValidateSlot(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot in request"})
		}
		slots = append(slots, slot)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Avail.DeleteRange(ctx, eventID, uid, req.DateRange.Start, req.DateRange.End, slots)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete availability failed"})
	}
	if n > 0 {
		_ = queue_publisher.PublishAvailabilityChanged(ctx, queue.AvailabilityChangedEvent{
			EventID:    eventID,
			UserID:     uid,
			Action:     string(model.ActionRemove),
			Dates:      []string{req.DateRange.Start, req.DateRange.End},
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}

// Recommendations returns the grouped common slots for an event. The
// queue consumer warms the Redis key on every mutation; on a cache miss
// (or with no Redis at all) the scan runs inline. An empty list is a
// valid result meaning no slot satisfies all participants.
func (h *AvailabilityHandler) Recommendations(c echo.Context) error {
	eventID, err := parseEventID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}

	if h.RDB != nil {
		if cached, err := h.RDB.Get(ctx, queue.RecommendationKey(eventID)).Bytes(); err == nil {
			var groups []recommend.Group
			if json.Unmarshal(cached, &groups) == nil {
				return c.JSON(http.StatusOK, echo.Map{"recommendations": groups})
			}
		}
	}

	rows, err := h.Avail.ListForEvent(ctx, eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load availability failed"})
	}
	parts, err := h.Avail.Participants(ctx, eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load participants failed"})
	}
	slots := recommend.CommonSlots(rows, len(parts), h.Window)
	groups := recommend.GroupConsecutive(slots)
	return c.JSON(http.StatusOK, echo.Map{"recommendations": groups})
}
