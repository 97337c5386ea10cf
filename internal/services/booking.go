package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"devevent/internal/domain"
)

type bookingService struct {
	bookingRepo    domain.BookingRepository
	eventRepo      domain.EventRepository
	validator      *domain.BookingValidator
	emailService   domain.EmailService
	siteURL        string
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewBookingService returns the BookingService. siteURL is used to link the
// event page from the confirmation email and may be empty.
func NewBookingService(
	bookingRepo domain.BookingRepository,
	eventRepo domain.EventRepository,
	emailService domain.EmailService,
	siteURL string,
	logger *slog.Logger,
	timeout time.Duration,
) domain.BookingService {
	return &bookingService{
		bookingRepo:    bookingRepo,
		eventRepo:      eventRepo,
		validator:      domain.NewBookingValidator(eventRepo),
		emailService:   emailService,
		siteURL:        strings.TrimRight(siteURL, "/"),
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, eventID, email string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.now().UTC()
	b := domain.NewBooking(eventID, email, now, now)
	if err := s.validator.Validate(ctx, nil, b); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	s.logger.InfoContext(ctx, "booking created", "booking_id", b.ID, "event_id", b.EventID)

	s.sendConfirmation(ctx, b)
	return b, nil
}

// sendConfirmation mails the booker. Failures are logged; the booking stands.
func (s *bookingService) sendConfirmation(ctx context.Context, b *domain.Booking) {
	event, err := s.eventRepo.GetByID(ctx, b.EventID)
	if err != nil {
		s.logger.WarnContext(ctx, "booking confirmation skipped", "booking_id", b.ID, "err", err)
		return
	}
	data := &domain.BookingConfirmationEmailData{
		Email:      b.Email,
		EventTitle: event.Title,
		EventDate:  event.Date,
		EventTime:  event.Time,
		Venue:      event.Venue,
		Location:   event.Location,
		Mode:       event.Mode,
	}
	if s.siteURL != "" {
		data.EventURL = s.siteURL + "/events/" + event.Slug
	}
	if err := s.emailService.SendBookingConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "booking confirmation failed", "booking_id", b.ID, "err", err)
	}
}

func (s *bookingService) ListBookings(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ok, err := s.eventRepo.Exists(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("check event: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	bookings, err := s.bookingRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}
