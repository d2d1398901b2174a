package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/luizhmmachado/school-diary/internal/dates"
	"github.com/luizhmmachado/school-diary/internal/model"
	"github.com/luizhmmachado/school-diary/internal/numeric"
)

// Event validation errors.
var (
	ErrInvalidDate = errors.New("event date is not a valid calendar date")
	ErrInvalidTime = errors.New("event time is not HH:MM")
)

// EventStore is the event persistence needed by the services.
type EventStore interface {
	List(ctx context.Context, ownerID string) ([]model.Event, error)
	ListByClass(ctx context.Context, ownerID, classID string) ([]model.Event, error)
	Get(ctx context.Context, ownerID, eventID string) (*model.Event, error)
	Put(ctx context.Context, e *model.Event) error
	Update(ctx context.Context, e *model.Event) error
	Delete(ctx context.Context, ownerID, eventID string) error
}

// EventInput is the raw payload of an event save. Grade and Weight arrive as
// text and may use a decimal comma; they are normalized, never rejected —
// malformed values are stored as typed and simply excluded from averages.
type EventInput struct {
	ClassID string
	Name    string
	Date    string
	Time    string
	Grade   string
	Weight  string
	Color   string
}

// EventService handles event business logic.
type EventService struct {
	events EventStore
}

// NewEventService creates a new EventService.
func NewEventService(events EventStore) *EventService {
	return &EventService{events: events}
}

// List retrieves all events owned by ownerID.
func (s *EventService) List(ctx context.Context, ownerID string) ([]model.Event, error) {
	return s.events.List(ctx, ownerID)
}

// Create persists a new event.
func (s *EventService) Create(ctx context.Context, ownerID string, in EventInput) (*model.Event, error) {
	e, err := buildEvent(ownerID, uuid.New().String(), in)
	if err != nil {
		return nil, err
	}
	if err := s.events.Put(ctx, e); err != nil {
		return nil, fmt.Errorf("put event: %w", err)
	}
	return e, nil
}

// Update fully replaces the mutable fields of an existing event.
func (s *EventService) Update(ctx context.Context, ownerID, eventID string, in EventInput) (*model.Event, error) {
	existing, err := s.events.Get(ctx, ownerID, eventID)
	if err != nil {
		return nil, err
	}

	e, err := buildEvent(ownerID, eventID, in)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = existing.CreatedAt

	if err := s.events.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, ownerID, eventID string) error {
	if _, err := s.events.Get(ctx, ownerID, eventID); err != nil {
		return err
	}
	return s.events.Delete(ctx, ownerID, eventID)
}

func buildEvent(ownerID, eventID string, in EventInput) (*model.Event, error) {
	name := in.Name
	if name == "" {
		name = model.DefaultEventName
	}

	date, err := dates.Parse(in.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if in.Time != "" {
		if _, _, err := dates.ParseClock(in.Time); err != nil {
			return nil, ErrInvalidTime
		}
	}

	color := in.Color
	if color == "" || !model.ValidColor(color) {
		color = model.DefaultEventColor
	}

	return &model.Event{
		OwnerID: ownerID,
		EventID: eventID,
		ClassID: in.ClassID,
		Name:    name,
		Date:    date,
		Time:    in.Time,
		Grade:   numeric.Normalize(in.Grade),
		Weight:  numeric.Normalize(in.Weight),
		Color:   color,
	}, nil
}
