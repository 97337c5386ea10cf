package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"devevent/internal/domain"
)

const bookingConfirmationTemplate = "booking_confirmation"

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

func (s *emailService) SendBookingConfirmation(ctx context.Context, data *domain.BookingConfirmationEmailData) error {
	if data == nil {
		return errors.New("booking confirmation data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render(bookingConfirmationTemplate, data)
	if err != nil {
		return fmt.Errorf("render %s template: %w", bookingConfirmationTemplate, err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send booking confirmation: %w", err)
	}
	s.logger.DebugContext(ctx, "booking confirmation sent", "to", data.Email)
	return nil
}
