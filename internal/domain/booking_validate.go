package domain

import (
	"context"
	"strings"
)

// BookingValidator runs the checks a booking must pass before it is written.
type BookingValidator struct {
	Events EventLookup
}

// NewBookingValidator returns a validator that resolves event references through events.
func NewBookingValidator(events EventLookup) *BookingValidator {
	return &BookingValidator{Events: events}
}

// Validate checks next and normalizes its email in place.
// prev is the stored booking, or nil when next is new. Field shape is checked
// first, so malformed input never reaches the event lookup.
func (v *BookingValidator) Validate(ctx context.Context, prev, next *Booking) error {
	if err := ValidateBookingFields(next); err != nil {
		return err
	}
	isNew := prev == nil

	next.EventID = strings.TrimSpace(next.EventID)
	if isNew || next.EventID != prev.EventID {
		ok, err := v.Events.Exists(ctx, next.EventID)
		if err != nil {
			return NewReferenceError(MsgEventLookupFailed)
		}
		if !ok {
			return NewReferenceError(MsgEventDoesNotExist)
		}
	}

	if isNew || next.Email != prev.Email {
		next.Email = NormalizeEmail(next.Email)
		if next.Email == "" {
			return NewValidationError(MsgEmailEmpty)
		}
	}
	return nil
}
