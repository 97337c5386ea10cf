package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"devevent/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	cache          domain.EventCache
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewEventService returns the EventService. Reads by slug go through cache.
func NewEventService(eventRepo domain.EventRepository, cache domain.EventCache, logger *slog.Logger, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		cache:          cache,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := domain.NormalizeEvent(nil, event); err != nil {
		return err
	}
	if err := domain.ValidateEvent(event); err != nil {
		return err
	}

	now := s.now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	s.logger.InfoContext(ctx, "event created", "event_id", event.ID, "slug", event.Slug)
	return nil
}

func (s *eventService) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, domain.ErrNotFound
	}
	if e, ok := s.cache.Get(ctx, slug); ok {
		return e, nil
	}

	e, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	s.cache.Set(ctx, e)
	return e, nil
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	filter.Tag = strings.ToLower(strings.TrimSpace(filter.Tag))
	filter.Mode = strings.ToLower(strings.TrimSpace(filter.Mode))
	events, total, err := s.eventRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID string, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	prev, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	next := patch.Apply(prev)
	if err := domain.NormalizeEvent(prev, next); err != nil {
		return nil, err
	}
	if err := domain.ValidateEvent(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = s.now().UTC()

	if err := s.eventRepo.Update(ctx, next); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	s.cache.Invalidate(ctx, prev.Slug, next.Slug)
	return next, nil
}

// DeleteEvent removes the event. Its bookings go with it.
func (s *eventService) DeleteEvent(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	prev, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	s.cache.Invalidate(ctx, prev.Slug)
	s.logger.InfoContext(ctx, "event deleted", "event_id", eventID, "slug", prev.Slug)
	return nil
}
