package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/noah51022/schedule-sensei-sync/internal/repository"
)

// EventHandler bundles the repositories backing the event endpoints.
type EventHandler struct {
	Events *repository.EventRepo
	Avail  *repository.AvailabilityRepo
}

func NewEventHandler(events *repository.EventRepo, avail *repository.AvailabilityRepo) *EventHandler {
	if events == nil || avail == nil {
		panic("nil repository passed to NewEventHandler")
	}
	return &EventHandler{Events: events, Avail: avail}
}

type createEventReq struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type updateRangeReq struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Create makes a new event with the caller as host.
func (h *EventHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if !validDate(req.StartDate) || !validDate(req.EndDate) || req.StartDate > req.EndDate {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date/end_date must be YYYY-MM-DD with start <= end"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ev, err := h.Events.Create(ctx, uid, req.Name, req.StartDate, req.EndDate)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"event": ev})
}

// Get returns event details plus the derived participant list: everyone
// with at least one availability row.
func (h *EventHandler) Get(c echo.Context) error {
	id, err := parseEventID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	parts, err := h.Avail.Participants(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load participants failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"event": ev, "participants": parts})
}

// UpdateRange moves the event's date range; host only.
func (h *EventHandler) UpdateRange(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseEventID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req updateRangeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !validDate(req.StartDate) || !validDate(req.EndDate) || req.StartDate > req.EndDate {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date/end_date must be YYYY-MM-DD with start <= end"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Events.UpdateRange(ctx, id, uid, req.StartDate, req.EndDate); err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "only the host may change the range"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update range failed"})
		}
	}
	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"event": ev})
}
