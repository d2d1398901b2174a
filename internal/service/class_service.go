package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/luizhmmachado/school-diary/internal/dates"
	"github.com/luizhmmachado/school-diary/internal/model"
	"github.com/luizhmmachado/school-diary/internal/repository"
	"github.com/luizhmmachado/school-diary/internal/schedule"
)

// Validation errors surfaced by class saves.
var (
	ErrNotFound       = repository.ErrNotFound
	ErrInvalidWeekday = errors.New("weekday index out of range")
	ErrInvalidSlot    = errors.New("slot time is not HH:MM")
	ErrPresencePolicy = errors.New("maxAbsences and minPresence are mutually exclusive")
)

// cascadeAttempts bounds how often the failed subset of a cascade delete is
// retried before the whole operation is reported as failed.
const cascadeAttempts = 3

// ClassStore is the class persistence needed by the services.
type ClassStore interface {
	List(ctx context.Context, ownerID string) ([]model.Class, error)
	Get(ctx context.Context, ownerID, classID string) (*model.Class, error)
	Put(ctx context.Context, c *model.Class) error
	Update(ctx context.Context, c *model.Class) error
	IncrementAbsences(ctx context.Context, ownerID, classID string) (*model.Class, error)
	Delete(ctx context.Context, ownerID, classID string) error
}

// ClassInput is the raw payload of a class save. StartDate and EndDate are
// ISO date strings; both empty means the class has no expanded schedule yet.
type ClassInput struct {
	Name           string
	Weekdays       []int
	SlotsByWeekday map[int][]schedule.Slot
	StartDate      string
	EndDate        string
	ImageURL       string
	TotalClasses   int
	MaxAbsences    *int
	MinPresence    *int
}

// ClassService handles class business logic: validation, schedule expansion
// and the delete cascade over events.
type ClassService struct {
	classes ClassStore
	events  EventStore
	log     zerolog.Logger
}

// NewClassService creates a new ClassService.
func NewClassService(classes ClassStore, events EventStore, log zerolog.Logger) *ClassService {
	return &ClassService{classes: classes, events: events, log: log}
}

// List retrieves all classes owned by ownerID.
func (s *ClassService) List(ctx context.Context, ownerID string) ([]model.Class, error) {
	return s.classes.List(ctx, ownerID)
}

// Get retrieves one class.
func (s *ClassService) Get(ctx context.Context, ownerID, classID string) (*model.Class, error) {
	return s.classes.Get(ctx, ownerID, classID)
}

// Create validates the input, expands the schedule and persists a new class.
// Schedule errors (schedule.ErrInvalidRange, schedule.ErrEmptySchedule) block
// the save before anything is written.
func (s *ClassService) Create(ctx context.Context, ownerID string, in ClassInput) (*model.Class, error) {
	c, err := s.build(ownerID, uuid.New().String(), in)
	if err != nil {
		return nil, err
	}
	if err := s.classes.Put(ctx, c); err != nil {
		return nil, fmt.Errorf("put class: %w", err)
	}
	return c, nil
}

// Update revalidates and fully replaces the class, recomputing the derived
// schedule from scratch. The stored schedule is never patched incrementally.
func (s *ClassService) Update(ctx context.Context, ownerID, classID string, in ClassInput) (*model.Class, error) {
	existing, err := s.classes.Get(ctx, ownerID, classID)
	if err != nil {
		return nil, err
	}

	c, err := s.build(ownerID, classID, in)
	if err != nil {
		return nil, err
	}
	// The absence counter moves only through IncrementAbsences.
	c.Absences = existing.Absences
	c.CreatedAt = existing.CreatedAt

	if err := s.classes.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.classes.Get(ctx, ownerID, classID)
}

// IncrementAbsences registers one more absence. There is no undo.
func (s *ClassService) IncrementAbsences(ctx context.Context, ownerID, classID string) (*model.Class, error) {
	return s.classes.IncrementAbsences(ctx, ownerID, classID)
}

// Delete removes a class and cascades into its events. Per-event deletes are
// idempotent, so only the failed subset is retried; the class record goes
// last, guaranteeing no event ever references a missing class because of a
// partially-failed cascade.
func (s *ClassService) Delete(ctx context.Context, ownerID, classID string) error {
	if _, err := s.classes.Get(ctx, ownerID, classID); err != nil {
		return err
	}

	events, err := s.events.ListByClass(ctx, ownerID, classID)
	if err != nil {
		return fmt.Errorf("list class events: %w", err)
	}

	pending := make([]string, 0, len(events))
	for _, e := range events {
		pending = append(pending, e.EventID)
	}

	var lastErr error
	for attempt := 1; attempt <= cascadeAttempts && len(pending) > 0; attempt++ {
		var failed []string
		for _, eventID := range pending {
			if err := s.events.Delete(ctx, ownerID, eventID); err != nil {
				lastErr = err
				failed = append(failed, eventID)
			}
		}
		if len(failed) > 0 {
			s.log.Warn().
				Str("class_id", classID).
				Int("attempt", attempt).
				Int("remaining", len(failed)).
				Err(lastErr).
				Msg("cascade delete retrying failed subset")
		}
		pending = failed
	}
	if len(pending) > 0 {
		return fmt.Errorf("cascade delete left %d events: %w", len(pending), lastErr)
	}

	return s.classes.Delete(ctx, ownerID, classID)
}

// build normalizes the raw input into a Class, running the schedule
// expansion. All validation happens here, before any write.
func (s *ClassService) build(ownerID, classID string, in ClassInput) (*model.Class, error) {
	name := in.Name
	if name == "" {
		name = model.DefaultClassName
	}

	if in.MaxAbsences != nil && in.MinPresence != nil {
		return nil, ErrPresencePolicy
	}

	weekdays, weekdaySet, err := normalizeWeekdays(in.Weekdays)
	if err != nil {
		return nil, err
	}
	slots, err := normalizeSlots(weekdaySet, in.SlotsByWeekday)
	if err != nil {
		return nil, err
	}

	c := &model.Class{
		OwnerID:        ownerID,
		ClassID:        classID,
		Name:           name,
		Weekdays:       weekdays,
		SlotsByWeekday: slots,
		ImageURL:       in.ImageURL,
		TotalClasses:   in.TotalClasses,
		MaxAbsences:    in.MaxAbsences,
		MinPresence:    in.MinPresence,
		ScheduleByDay:  []schedule.Entry{},
	}

	if in.StartDate == "" && in.EndDate == "" {
		// No recurrence bounds yet; the class exists without a schedule.
		return c, nil
	}

	start, err := dates.Parse(in.StartDate)
	if err != nil {
		return nil, schedule.ErrInvalidRange
	}
	end, err := dates.Parse(in.EndDate)
	if err != nil {
		return nil, schedule.ErrInvalidRange
	}

	entries, err := schedule.Expand(start, end, weekdaySet, slots)
	if err != nil {
		return nil, err
	}
	c.StartDate = &start
	c.EndDate = &end
	c.ScheduleByDay = entries
	return c, nil
}

func normalizeWeekdays(in []int) ([]int, map[int]bool, error) {
	set := make(map[int]bool)
	for _, d := range in {
		if d < 0 || d > 6 {
			return nil, nil, ErrInvalidWeekday
		}
		set[d] = true
	}
	out := make([]int, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Ints(out)
	return out, set, nil
}

// normalizeSlots keeps only slots for selected weekdays, guarantees every
// selected weekday has at least one slot, and validates slot times.
func normalizeSlots(weekdays map[int]bool, in map[int][]schedule.Slot) (map[int][]schedule.Slot, error) {
	out := make(map[int][]schedule.Slot, len(weekdays))
	for dow := range weekdays {
		slots := in[dow]
		if len(slots) == 0 {
			slots = []schedule.Slot{{}}
		}
		for _, sl := range slots {
			for _, t := range []string{sl.Start, sl.End} {
				if t == "" {
					continue
				}
				if _, _, err := dates.ParseClock(t); err != nil {
					return nil, ErrInvalidSlot
				}
			}
		}
		out[dow] = slots
	}
	return out, nil
}
