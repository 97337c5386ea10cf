package domain

import (
	"context"
	"slices"
	"time"
)

// Event modes.
const (
	ModeOnline  = "online"
	ModeOffline = "offline"
	ModeHybrid  = "hybrid"
)

// Event is a single event listing.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Overview    string    `json:"overview"`
	Image       string    `json:"image"`
	Venue       string    `json:"venue"`
	Location    string    `json:"location"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Mode        string    `json:"mode"`
	Audience    string    `json:"audience"`
	Agenda      []string  `json:"agenda"`
	Organizer   string    `json:"organizer"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Clone returns a deep copy of e.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	c := *e
	c.Agenda = slices.Clone(e.Agenda)
	c.Tags = slices.Clone(e.Tags)
	return &c
}

// EventPatch carries the fields of a partial update. Nil fields are unchanged.
type EventPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Overview    *string   `json:"overview"`
	Image       *string   `json:"image"`
	Venue       *string   `json:"venue"`
	Location    *string   `json:"location"`
	Date        *string   `json:"date"`
	Time        *string   `json:"time"`
	Mode        *string   `json:"mode"`
	Audience    *string   `json:"audience"`
	Agenda      *[]string `json:"agenda"`
	Organizer   *string   `json:"organizer"`
	Tags        *[]string `json:"tags"`
}

// Apply returns a copy of e with the patch applied.
func (p EventPatch) Apply(e *Event) *Event {
	next := e.Clone()
	setString(&next.Title, p.Title)
	setString(&next.Description, p.Description)
	setString(&next.Overview, p.Overview)
	setString(&next.Image, p.Image)
	setString(&next.Venue, p.Venue)
	setString(&next.Location, p.Location)
	setString(&next.Date, p.Date)
	setString(&next.Time, p.Time)
	setString(&next.Mode, p.Mode)
	setString(&next.Audience, p.Audience)
	setString(&next.Organizer, p.Organizer)
	if p.Agenda != nil {
		next.Agenda = slices.Clone(*p.Agenda)
	}
	if p.Tags != nil {
		next.Tags = slices.Clone(*p.Tags)
	}
	return next
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// EventFilter narrows a List query. Empty fields match everything.
type EventFilter struct {
	Tag  string
	Mode string
}

// EventRepository defines the interface for event storage.
// Create and Update return a *ConflictError when the slug is already taken.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
}

// EventCache stores events by slug for the details page.
type EventCache interface {
	Get(ctx context.Context, slug string) (*Event, bool)
	Set(ctx context.Context, event *Event)
	Invalidate(ctx context.Context, slugs ...string)
}

// EventService defines the business logic for event listings.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
	ListEvents(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	UpdateEvent(ctx context.Context, eventID string, patch EventPatch) (*Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}
