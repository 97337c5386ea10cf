package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"devevent/internal/adapters/dbconn"
	"devevent/internal/delivery/http/helpers"
	"devevent/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

type fakeEventService struct {
	err        error
	event      *domain.Event
	events     []*domain.Event
	total      int
	lastCreate *domain.Event
	lastID     string
	lastSlug   string
	lastPatch  domain.EventPatch
	lastFilter domain.EventFilter
	lastParams domain.PaginationParams
}

func (f *fakeEventService) CreateEvent(ctx context.Context, e *domain.Event) error {
	f.lastCreate = e
	if f.err != nil {
		return f.err
	}
	e.ID = "ev-1"
	e.Slug = domain.Slugify(e.Title)
	return nil
}

func (f *fakeEventService) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	f.lastSlug = slug
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.lastFilter, f.lastParams = filter, params
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.events, f.total, nil
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, eventID string, patch domain.EventPatch) (*domain.Event, error) {
	f.lastID, f.lastPatch = eventID, patch
	if f.err != nil {
		return nil, f.err
	}
	return patch.Apply(f.event), nil
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, eventID string) error {
	f.lastID = eventID
	return f.err
}

type fakeBookingService struct {
	err       error
	bookings  []*domain.Booking
	lastEvent string
	lastEmail string
}

func (f *fakeBookingService) CreateBooking(ctx context.Context, eventID, email string) (*domain.Booking, error) {
	f.lastEvent, f.lastEmail = eventID, email
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Booking{ID: "bk-1", EventID: eventID, Email: domain.NormalizeEmail(email)}, nil
}

func (f *fakeBookingService) ListBookings(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	f.lastEvent = eventID
	if f.err != nil {
		return nil, f.err
	}
	return f.bookings, nil
}

type fakeAuthService struct {
	token string
	err   error
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return f.token, f.err
}

type fakeProbe struct {
	ready     bool
	warmErr   error
	warmCalls int
}

func (p *fakeProbe) Info() dbconn.ConnectionInfo {
	if p.ready {
		return dbconn.ConnectionInfo{Ready: true, State: dbconn.StateReady, Dials: 1}
	}
	return dbconn.ConnectionInfo{State: dbconn.StateUnconnected}
}

func (p *fakeProbe) Warm(ctx context.Context) error {
	p.warmCalls++
	if p.warmErr == nil {
		p.ready = true
	}
	return p.warmErr
}

// envelope decodes the response envelope, leaving data raw for typed decoding.
type envelope struct {
	Data  json.RawMessage   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, data any) *helpers.APIError {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	if data != nil && env.Error == nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env.Error
}
