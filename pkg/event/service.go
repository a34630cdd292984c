package event

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/klokku/eventcal/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

type Service struct {
	repo      Repository
	bus       *event_bus.EventBus
	validator *validator.Validate
}

func NewService(repo Repository, bus *event_bus.EventBus) *Service {
	return &Service{
		repo:      repo,
		bus:       bus,
		validator: newValidator(),
	}
}

func (s *Service) EnsureSchema(ctx context.Context) error {
	if err := s.repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure events schema: %w", err)
	}
	return nil
}

func (s *Service) ListEvents(ctx context.Context) ([]Event, error) {
	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// GetEvent returns ErrEventNotFound when there is no event with the given id.
func (s *Service) GetEvent(ctx context.Context, id int64) (Event, error) {
	return s.repo.GetEvent(ctx, id)
}

// CreateEvent stores a valid draft under a new id, ignoring draft.Id. Invalid drafts are not stored
// and come back as ValidationErrors.
func (s *Service) CreateEvent(ctx context.Context, draft Draft) (int64, ValidationErrors, error) {
	event, verrs := Validate(s.validator, draft)
	if len(verrs) > 0 {
		return 0, verrs, nil
	}
	event.Id = 0

	id, err := s.repo.StoreEvent(ctx, event)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to store event: %w", err)
	}
	event.Id = id

	s.publish(ctx, event_bus.CalendarEventCreatedType, event_bus.CalendarEventCreated{
		Id:              event.Id,
		Title:           event.Title,
		DateTime:        event.DateTime,
		HasReminder:     event.HasReminder,
		ReminderMinutes: event.ReminderMinutes,
	})
	return id, nil, nil
}

// UpdateEvent replaces every field of the event draft.Id. It reports false when that event does not exist.
func (s *Service) UpdateEvent(ctx context.Context, draft Draft) (bool, ValidationErrors, error) {
	event, verrs := Validate(s.validator, draft)
	if len(verrs) > 0 {
		return false, verrs, nil
	}

	updated, err := s.repo.UpdateEvent(ctx, event)
	if err != nil {
		return false, nil, fmt.Errorf("failed to update event: %w", err)
	}
	if updated {
		s.publish(ctx, event_bus.CalendarEventUpdatedType, event_bus.CalendarEventUpdated{
			Id:              event.Id,
			Title:           event.Title,
			DateTime:        event.DateTime,
			HasReminder:     event.HasReminder,
			ReminderMinutes: event.ReminderMinutes,
		})
	}
	return updated, nil, nil
}

// DeleteEvent removes the event. Deleting an event that does not exist reports false and no error.
func (s *Service) DeleteEvent(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.repo.DeleteEvent(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete event: %w", err)
	}
	if deleted {
		s.publish(ctx, event_bus.CalendarEventDeletedType, event_bus.CalendarEventDeleted{Id: id})
	}
	return deleted, nil
}

// publish never fails the caller: the mutation is already committed.
func (s *Service) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Warnf("failed to publish %s: %v", eventType, err)
	}
}
