package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"devevent/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeEventRepo is an in-memory EventRepository with a unique slug index.
type fakeEventRepo struct {
	byID      map[string]*domain.Event
	nextID    int
	err       error // returned by every call when set
	existsErr error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
}

func (f *fakeEventRepo) slugTaken(slug, exceptID string) bool {
	for id, e := range f.byID {
		if id != exceptID && e.Slug == slug {
			return true
		}
	}
	return false
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	if f.slugTaken(e.Slug, "") {
		return &domain.ConflictError{Resource: "event"}
	}
	e.ID = fmt.Sprintf("00000000-0000-4000-8000-%012d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e.Clone()
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		return e.Clone(), nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, e := range f.byID {
		if e.Slug == slug {
			return e.Clone(), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) Exists(ctx context.Context, id string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeEventRepo) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var all []*domain.Event
	for _, e := range f.byID {
		if filter.Tag != "" && !slices.Contains(e.Tags, filter.Tag) {
			continue
		}
		if filter.Mode != "" && e.Mode != filter.Mode {
			continue
		}
		all = append(all, e.Clone())
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Date+all[i].Time < all[j].Date+all[j].Time
	})
	start := min(params.Offset(), len(all))
	end := min(start+params.Limit(), len(all))
	return all[start:end], len(all), nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	if f.slugTaken(e.Slug, e.ID) {
		return &domain.ConflictError{Resource: "event"}
	}
	f.byID[e.ID] = e.Clone()
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeBookingRepo enforces the (event, email) unique pair.
type fakeBookingRepo struct {
	bookings []*domain.Booking
	err      error
}

func (f *fakeBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	if f.err != nil {
		return f.err
	}
	for _, x := range f.bookings {
		if x.EventID == b.EventID && x.Email == b.Email {
			return &domain.ConflictError{Resource: "booking"}
		}
	}
	b.ID = fmt.Sprintf("bk-%d", len(f.bookings)+1)
	cp := *b
	f.bookings = append(f.bookings, &cp)
	return nil
}

func (f *fakeBookingRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []*domain.Booking{}
	for _, b := range f.bookings {
		if b.EventID == eventID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) CountByEventID(ctx context.Context, eventID string) (int, error) {
	list, err := f.ListByEventID(ctx, eventID)
	return len(list), err
}

// fakeCache records calls on top of a map.
type fakeCache struct {
	data        map[string]*domain.Event
	gets        int
	invalidated []string
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string]*domain.Event{}} }

func (c *fakeCache) Get(ctx context.Context, slug string) (*domain.Event, bool) {
	c.gets++
	e, ok := c.data[slug]
	return e, ok
}

func (c *fakeCache) Set(ctx context.Context, e *domain.Event) { c.data[e.Slug] = e.Clone() }

func (c *fakeCache) Invalidate(ctx context.Context, slugs ...string) {
	for _, s := range slugs {
		delete(c.data, s)
		c.invalidated = append(c.invalidated, s)
	}
}

type fakeEmailService struct {
	sent []*domain.BookingConfirmationEmailData
	err  error
}

func (f *fakeEmailService) SendBookingConfirmation(ctx context.Context, data *domain.BookingConfirmationEmailData) error {
	f.sent = append(f.sent, data)
	return f.err
}

type sentMail struct {
	to, subject, html, text string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, html, text string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, html, text})
	return nil
}

type fakeRenderer struct {
	err error
}

func (r fakeRenderer) Render(name string, data any) (string, string, string, error) {
	if r.err != nil {
		return "", "", "", r.err
	}
	d := data.(*domain.BookingConfirmationEmailData)
	return name + ": " + d.EventTitle, "<p>" + d.Email + "</p>", d.Email, nil
}

// plainHasher stores "salt:password" so tests need no bcrypt rounds.
type plainHasher struct{}

func (plainHasher) GenerateSalt() (string, error) { return "salt", nil }
func (plainHasher) Hash(salt, password string) (string, error) {
	return salt + ":" + password, nil
}
func (plainHasher) Compare(hash, salt, password string) error {
	if hash != salt+":"+password {
		return domain.ErrUnauthorized
	}
	return nil
}

type fakeIssuer struct {
	subject string
	expiry  time.Duration
	err     error
}

func (f *fakeIssuer) Issue(subject string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.subject, f.expiry = subject, expiry
	return "token-for-" + strings.ToLower(subject), nil
}

func validEvent() *domain.Event {
	return &domain.Event{
		Title:       "  Node+JS Interactive!! ",
		Description: "The Node.js community conference.",
		Overview:    "Two days of talks.",
		Image:       "/images/event2.png",
		Venue:       "Palais",
		Location:    "Vienna, AT",
		Date:        "2026-09-10T00:00:00Z",
		Time:        "9:05",
		Mode:        " Offline ",
		Audience:    "Backend developers",
		Agenda:      []string{" Keynote ", "", "Hallway track"},
		Organizer:   "OpenJS",
		Tags:        []string{"AI", " ai ", "", "Node"},
	}
}
