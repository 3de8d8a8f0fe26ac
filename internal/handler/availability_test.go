package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah51022/schedule-sensei-sync/internal/recommend"
	"github.com/noah51022/schedule-sensei-sync/internal/repository"
)

func newAvailabilityHandler(t *testing.T) (*AvailabilityHandler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	h := NewAvailabilityHandler(
		repository.NewEventRepo(db),
		repository.NewAvailabilityRepo(db),
		nil, // no Redis in tests; reads recompute inline
		recommend.DefaultWindow,
	)
	return h, mock
}

func availabilityRows(date time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "event_id", "user_id", "date", "start_hour", "end_hour", "name", "availability_type", "created_at",
	}).
		AddRow(1, 1, 2, date, 9, 17, nil, nil, time.Now()).
		AddRow(2, 1, 3, date, 10, 12, nil, "tentative", time.Now())
}

func participantRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"user_id", "display_name", "email"}).
		AddRow(2, "Ana", "ana@example.com").
		AddRow(3, "", "bo@example.com")
}

func TestAvailabilityGetWithDateReturnsGrid(t *testing.T) {
	h, mock := newAvailabilityHandler(t)
	date := time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)

	expectEventLookup(mock, 1, 9)
	mock.ExpectQuery("SELECT (.+) FROM availability").
		WithArgs(uint64(1), "2024-06-04").
		WillReturnRows(availabilityRows(date))
	mock.ExpectQuery("SELECT DISTINCT (.+) FROM availability").
		WithArgs(uint64(1)).
		WillReturnRows(participantRows())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/events/1/availability?date=2024-06-04", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/events/:id/availability")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"grid"`)
	assert.Contains(t, rec.Body.String(), `"rows"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecommendationsComputedInline(t *testing.T) {
	h, mock := newAvailabilityHandler(t)
	date := time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)

	expectEventLookup(mock, 1, 9)
	mock.ExpectQuery("SELECT (.+) FROM availability").
		WithArgs(uint64(1)).
		WillReturnRows(availabilityRows(date))
	mock.ExpectQuery("SELECT DISTINCT (.+) FROM availability").
		WithArgs(uint64(1)).
		WillReturnRows(participantRows())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/events/1/recommendations", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/events/:id/recommendations")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.Recommendations(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	// Both participants overlap 10-12, so exactly one group comes back.
	assert.Contains(t, rec.Body.String(), `"start_hour":10`)
	assert.Contains(t, rec.Body.String(), `"end_hour":12`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAvailabilityValidatesSlots(t *testing.T) {
	h, _ := newAvailabilityHandler(t)

	e := echo.New()
	body := `{"dateRange":{"start":"2024-06-01","end":"2024-06-07"},"slots":[{"start_hour":"9","end_hour":17}]}`
	req := httptest.NewRequest(http.MethodDelete, "/v1/events/1/availability", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/events/:id/availability")
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("user_id", uint64(2))

	require.NoError(t, h.Delete(c))
	// String hours never reach the database.
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
