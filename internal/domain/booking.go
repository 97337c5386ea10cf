package domain

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxEmailLen is the longest email address accepted for a booking.
const MaxEmailLen = 254

// emailRegex matches local@domain.tld with no whitespace or extra @.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Booking is one person's reservation for one event.
// swagger:model Booking
type Booking struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBooking creates a new Booking. ID is typically set by the repository on create.
func NewBooking(eventID, email string, createdAt, updatedAt time.Time) *Booking {
	return &Booking{
		EventID:   eventID,
		Email:     email,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateBookingFields checks the shape of eventID and email without touching storage.
func ValidateBookingFields(b *Booking) error {
	var problems []string
	if strings.TrimSpace(b.EventID) == "" {
		problems = append(problems, "event_id is required")
	} else if _, err := uuid.Parse(strings.TrimSpace(b.EventID)); err != nil {
		problems = append(problems, "event_id must be a valid id")
	}

	email := NormalizeEmail(b.Email)
	switch {
	case email == "":
		problems = append(problems, "email is required")
	case len(email) > MaxEmailLen:
		problems = append(problems, "email cannot exceed 254 characters")
	case !emailRegex.MatchString(email):
		problems = append(problems, "please provide a valid email address")
	}

	if len(problems) > 0 {
		return NewValidationError(problems...)
	}
	return nil
}

// EventLookup answers whether an event exists. Implemented by the event repository.
type EventLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// BookingRepository defines storage operations for bookings.
// Create returns a *ConflictError when the (event, email) pair is already booked.
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	ListByEventID(ctx context.Context, eventID string) ([]*Booking, error)
	CountByEventID(ctx context.Context, eventID string) (int, error)
}

// BookingService defines booking operations.
type BookingService interface {
	CreateBooking(ctx context.Context, eventID, email string) (*Booking, error)
	ListBookings(ctx context.Context, eventID string) ([]*Booking, error)
}
