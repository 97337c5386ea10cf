package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devevent/internal/delivery/http/helpers"
	"devevent/internal/domain"
)

const createBody = `{
	"title": "React Summit",
	"description": "Conference",
	"overview": "Talks",
	"image": "/images/event1.png",
	"venue": "RAI",
	"location": "Amsterdam",
	"date": "2026-03-18",
	"time": "9:30",
	"mode": "hybrid",
	"audience": "Developers",
	"agenda": ["Keynote"],
	"organizer": "GitNation",
	"tags": ["react"]
}`

func TestEventController_CreateEvent(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{name: "created", body: createBody, wantStatus: http.StatusCreated},
		{name: "client supplied slug", body: `{"title":"x","slug":"y"}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "malformed json", body: `{"title":`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{
			name:       "validation failure",
			body:       createBody,
			svcErr:     domain.NewValidationError("time must be in 24-hour format (HH:MM)"),
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "duplicate slug",
			body:       createBody,
			svcErr:     &domain.ConflictError{Resource: "event", Message: "an event with this slug already exists"},
			wantStatus: http.StatusConflict,
			wantCode:   helpers.ErrCodeConflict,
		},
		{
			name:       "storage down",
			body:       createBody,
			svcErr:     &domain.ConnectionError{Err: errors.New("refused")},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   helpers.ErrCodeUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{err: tt.svcErr}
			c := NewEventController(testLogger, svc)
			req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			c.CreateEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var got domain.Event
			apiErr := decode(t, rr, &got)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}
			require.Nil(t, apiErr)
			assert.Equal(t, "ev-1", got.ID)
			assert.Equal(t, "react-summit", got.Slug)
			assert.Equal(t, []string{"Keynote"}, svc.lastCreate.Agenda)
			assert.Equal(t, "9:30", svc.lastCreate.Time, "normalization belongs to the service")
		})
	}
}

func TestEventController_ListEvents(t *testing.T) {
	svc := &fakeEventService{events: []*domain.Event{{ID: "ev-1"}, {ID: "ev-2"}}, total: 7}
	c := NewEventController(testLogger, svc)
	req := httptest.NewRequest(http.MethodGet, "/events?page=2&page_size=2&tag=react&mode=online", nil)
	rr := httptest.NewRecorder()

	c.ListEvents(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got ListEventsResponse
	require.Nil(t, decode(t, rr, &got))
	assert.Len(t, got.Events, 2)
	assert.Equal(t, helpers.PaginationMeta{Page: 2, PageSize: 2, Total: 7, TotalPages: 4}, got.Pagination)
	assert.Equal(t, domain.EventFilter{Tag: "react", Mode: "online"}, svc.lastFilter)
	assert.Equal(t, domain.PaginationParams{Page: 2, PageSize: 2}, svc.lastParams)
}

func TestEventController_ListEvents_HugePageIsClamped(t *testing.T) {
	svc := &fakeEventService{events: []*domain.Event{}, total: 3}
	c := NewEventController(testLogger, svc)
	req := httptest.NewRequest(http.MethodGet, "/events?page=922337203685477580&page_size=100", nil)
	rr := httptest.NewRecorder()

	c.ListEvents(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.MaxPage, svc.lastParams.Page)
	assert.GreaterOrEqual(t, svc.lastParams.Offset(), 0)
	var got ListEventsResponse
	require.Nil(t, decode(t, rr, &got))
	assert.Equal(t, helpers.PaginationMeta{Page: domain.MaxPage, PageSize: 100, Total: 3, TotalPages: 1}, got.Pagination)
}

func TestEventController_GetEventBySlug(t *testing.T) {
	mux := http.NewServeMux()
	svc := &fakeEventService{event: &domain.Event{ID: "ev-1", Slug: "react-summit"}}
	c := NewEventController(testLogger, svc)
	mux.HandleFunc("GET /events/{slug}", c.GetEventBySlug)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/events/react-summit", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "react-summit", svc.lastSlug)

	svc.err = domain.ErrNotFound
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/events/missing", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, helpers.ErrCodeNotFound, decode(t, rr, nil).Code)
}

func TestEventController_UpdateEvent(t *testing.T) {
	mux := http.NewServeMux()
	svc := &fakeEventService{event: &domain.Event{ID: "ev-1", Title: "Old", Venue: "RAI"}}
	c := NewEventController(testLogger, svc)
	mux.HandleFunc("PATCH /events/{eventID}", c.UpdateEvent)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/events/ev-1", strings.NewReader(`{"title":"New","tags":["a"]}`)))
	require.Equal(t, http.StatusOK, rr.Code)
	var got domain.Event
	require.Nil(t, decode(t, rr, &got))
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "RAI", got.Venue)
	assert.Equal(t, "ev-1", svc.lastID)
	require.NotNil(t, svc.lastPatch.Tags)
	assert.Nil(t, svc.lastPatch.Venue)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/events/ev-1", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	svc.err = domain.ErrNotFound
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/events/nope", strings.NewReader(`{"title":"x"}`)))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEventController_DeleteEvent(t *testing.T) {
	mux := http.NewServeMux()
	svc := &fakeEventService{}
	c := NewEventController(testLogger, svc)
	mux.HandleFunc("DELETE /events/{eventID}", c.DeleteEvent)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/events/ev-1", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "ev-1", svc.lastID)
	assert.Empty(t, rr.Body.String())

	svc.err = domain.ErrNotFound
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/events/ev-1", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}
