package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah51022/schedule-sensei-sync/internal/interpreter"
	"github.com/noah51022/schedule-sensei-sync/internal/merge"
	"github.com/noah51022/schedule-sensei-sync/internal/repository"
)

// stubCompleter returns a canned model reply so handler tests never make
// a network call.
type stubCompleter struct {
	reply string
	err   error
}

func (s stubCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	return s.reply, s.err
}

func expectEventLookup(mock sqlmock.Sqlmock, id, hostID uint64) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM events").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "host_id", "name", "start_date", "end_date", "created_at", "updated_at",
		}).AddRow(id, hostID, "team offsite", start, end, time.Now(), time.Now()))
}

func newChatContext(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/v1/events/1/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/events/:id/chat")
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("user_id", uint64(2))
	return c, rec
}

func TestChatAppliesAdd(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectEventLookup(mock, 1, 9)
	mock.ExpectExec("INSERT INTO availability").
		WithArgs(uint64(1), uint64(2), "2024-06-04", 9, 17, nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	h := NewChatHandler(
		repository.NewEventRepo(db),
		interpreter.New(stubCompleter{reply: `{"action":"add","dates":[{"date":"2024-06-04","slots":[{"start_hour":9,"end_hour":17}]}]}`}),
		merge.New(repository.NewAvailabilityRepo(db)),
	)

	e := echo.New()
	c, rec := newChatContext(e, `{"message":"I'm free 9 to 5 on June 4th","date":"2024-06-01"}`)

	require.NoError(t, h.Chat(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"action":"add"`)
	assert.Contains(t, rec.Body.String(), "2024-06-04")
	assert.Contains(t, rec.Body.String(), "reply")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatNothingUnderstood(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectEventLookup(mock, 1, 9)

	h := NewChatHandler(
		repository.NewEventRepo(db),
		interpreter.New(stubCompleter{reply: `{"action":"add","dates":[]}`}),
		merge.New(repository.NewAvailabilityRepo(db)),
	)

	e := echo.New()
	c, rec := newChatContext(e, `{"message":"hello there"}`)

	require.NoError(t, h.Chat(c))
	// Semantically empty is success-shaped, not an error.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "couldn't find a specific time")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatUnparsableModelOutput(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectEventLookup(mock, 1, 9)

	h := NewChatHandler(
		repository.NewEventRepo(db),
		interpreter.New(stubCompleter{reply: `sorry, I can't help with that`}),
		merge.New(repository.NewAvailabilityRepo(db)),
	)

	e := echo.New()
	c, rec := newChatContext(e, `{"message":"free tomorrow"}`)

	require.NoError(t, h.Chat(c))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
	assert.Contains(t, rec.Body.String(), "details")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatRejectsBlankMessage(t *testing.T) {
	h := &ChatHandler{
		Events: repository.NewEventRepo(nil),
		Interp: interpreter.New(stubCompleter{}),
		Merge:  merge.New(repository.NewAvailabilityRepo(nil)),
	}
	e := echo.New()
	c, rec := newChatContext(e, `{"message":"   "}`)

	require.NoError(t, h.Chat(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
