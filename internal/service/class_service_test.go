package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/luizhmmachado/school-diary/internal/model"
	"github.com/luizhmmachado/school-diary/internal/repository"
	"github.com/luizhmmachado/school-diary/internal/schedule"
)

type fakeClassStore struct {
	classes map[string]*model.Class
	deleted []string
	failDel map[string]int // classID -> remaining failures
}

func newFakeClassStore() *fakeClassStore {
	return &fakeClassStore{classes: map[string]*model.Class{}, failDel: map[string]int{}}
}

func (f *fakeClassStore) List(_ context.Context, _ string) ([]model.Class, error) {
	out := make([]model.Class, 0, len(f.classes))
	for _, c := range f.classes {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeClassStore) Get(_ context.Context, _, classID string) (*model.Class, error) {
	c, ok := f.classes[classID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClassStore) Put(_ context.Context, c *model.Class) error {
	cp := *c
	f.classes[c.ClassID] = &cp
	return nil
}

func (f *fakeClassStore) Update(_ context.Context, c *model.Class) error {
	if _, ok := f.classes[c.ClassID]; !ok {
		return repository.ErrNotFound
	}
	cp := *c
	f.classes[c.ClassID] = &cp
	return nil
}

func (f *fakeClassStore) IncrementAbsences(_ context.Context, _, classID string) (*model.Class, error) {
	c, ok := f.classes[classID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c.Absences++
	cp := *c
	return &cp, nil
}

func (f *fakeClassStore) Delete(_ context.Context, _, classID string) error {
	if n := f.failDel[classID]; n > 0 {
		f.failDel[classID] = n - 1
		return errors.New("transient store failure")
	}
	delete(f.classes, classID)
	f.deleted = append(f.deleted, classID)
	return nil
}

type fakeEventStore struct {
	events  map[string]*model.Event
	failDel map[string]int // eventID -> remaining failures
	deletes int
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: map[string]*model.Event{}, failDel: map[string]int{}}
}

func (f *fakeEventStore) List(_ context.Context, _ string) ([]model.Event, error) {
	out := make([]model.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeEventStore) ListByClass(_ context.Context, _, classID string) ([]model.Event, error) {
	var out []model.Event
	for _, e := range f.events {
		if e.ClassID == classID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEventStore) Get(_ context.Context, _, eventID string) (*model.Event, error) {
	e, ok := f.events[eventID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventStore) Put(_ context.Context, e *model.Event) error {
	cp := *e
	f.events[e.EventID] = &cp
	return nil
}

func (f *fakeEventStore) Update(_ context.Context, e *model.Event) error {
	if _, ok := f.events[e.EventID]; !ok {
		return repository.ErrNotFound
	}
	cp := *e
	f.events[e.EventID] = &cp
	return nil
}

func (f *fakeEventStore) Delete(_ context.Context, _, eventID string) error {
	f.deletes++
	if n := f.failDel[eventID]; n > 0 {
		f.failDel[eventID] = n - 1
		return errors.New("transient store failure")
	}
	delete(f.events, eventID)
	return nil
}

func newTestClassService(classes ClassStore, events EventStore) *ClassService {
	return NewClassService(classes, events, zerolog.Nop())
}

func TestCreateExpandsSchedule(t *testing.T) {
	classes, events := newFakeClassStore(), newFakeEventStore()
	svc := newTestClassService(classes, events)

	c, err := svc.Create(context.Background(), "owner", ClassInput{
		Name:      "Cálculo I",
		Weekdays:  []int{1, 3},
		StartDate: "2024-03-01",
		EndDate:   "2024-03-07",
		SlotsByWeekday: map[int][]schedule.Slot{
			1: {{Start: "08:00", End: "09:00"}},
			3: {{Start: "10:00", End: "11:00"}},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(c.ScheduleByDay) != 2 {
		t.Fatalf("schedule entries = %d, want 2", len(c.ScheduleByDay))
	}
	if got := c.ScheduleByDay[0].Date.String(); got != "2024-03-04" {
		t.Errorf("first schedule day = %s", got)
	}
	if _, err := classes.Get(context.Background(), "owner", c.ClassID); err != nil {
		t.Errorf("class not persisted: %v", err)
	}
}

func TestCreateDefaultsName(t *testing.T) {
	svc := newTestClassService(newFakeClassStore(), newFakeEventStore())

	c, err := svc.Create(context.Background(), "owner", ClassInput{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Name != model.DefaultClassName {
		t.Errorf("name = %q, want %q", c.Name, model.DefaultClassName)
	}
	if len(c.ScheduleByDay) != 0 {
		t.Errorf("class without dates should have no schedule, got %d entries", len(c.ScheduleByDay))
	}
}

func TestCreateScheduleErrorsBlockSave(t *testing.T) {
	classes := newFakeClassStore()
	svc := newTestClassService(classes, newFakeEventStore())

	_, err := svc.Create(context.Background(), "owner", ClassInput{
		Weekdays:  []int{1},
		StartDate: "2024-03-10",
		EndDate:   "2024-03-01",
	})
	if !errors.Is(err, schedule.ErrInvalidRange) {
		t.Errorf("got %v, want ErrInvalidRange", err)
	}

	// One date present, the other missing, also fails as an invalid range.
	_, err = svc.Create(context.Background(), "owner", ClassInput{
		Weekdays:  []int{1},
		StartDate: "2024-03-01",
	})
	if !errors.Is(err, schedule.ErrInvalidRange) {
		t.Errorf("got %v, want ErrInvalidRange", err)
	}

	// Monday-only range selecting Tuesday matches nothing.
	_, err = svc.Create(context.Background(), "owner", ClassInput{
		Weekdays:  []int{2},
		StartDate: "2024-03-04",
		EndDate:   "2024-03-04",
	})
	if !errors.Is(err, schedule.ErrEmptySchedule) {
		t.Errorf("got %v, want ErrEmptySchedule", err)
	}

	if len(classes.classes) != 0 {
		t.Errorf("failed saves must persist nothing, store has %d classes", len(classes.classes))
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestClassService(newFakeClassStore(), newFakeEventStore())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "owner", ClassInput{Weekdays: []int{7}}); !errors.Is(err, ErrInvalidWeekday) {
		t.Errorf("weekday 7: got %v", err)
	}
	if _, err := svc.Create(ctx, "owner", ClassInput{
		Weekdays:       []int{1},
		SlotsByWeekday: map[int][]schedule.Slot{1: {{Start: "25:00"}}},
	}); !errors.Is(err, ErrInvalidSlot) {
		t.Errorf("bad slot time: got %v", err)
	}
	limit := 5
	if _, err := svc.Create(ctx, "owner", ClassInput{
		MaxAbsences: &limit,
		MinPresence: &limit,
	}); !errors.Is(err, ErrPresencePolicy) {
		t.Errorf("both presence policies: got %v", err)
	}
}

func TestUpdatePreservesAbsencesAndRecomputes(t *testing.T) {
	classes, events := newFakeClassStore(), newFakeEventStore()
	svc := newTestClassService(classes, events)
	ctx := context.Background()

	c, err := svc.Create(ctx, "owner", ClassInput{
		Weekdays:  []int{1},
		StartDate: "2024-03-01",
		EndDate:   "2024-03-07",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.IncrementAbsences(ctx, "owner", c.ClassID); err != nil {
		t.Fatalf("increment: %v", err)
	}

	updated, err := svc.Update(ctx, "owner", c.ClassID, ClassInput{
		Name:      "Física",
		Weekdays:  []int{1, 3},
		StartDate: "2024-03-01",
		EndDate:   "2024-03-14",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Absences != 1 {
		t.Errorf("absences = %d, want 1 preserved across update", updated.Absences)
	}
	if len(updated.ScheduleByDay) != 4 {
		t.Errorf("schedule entries = %d, want 4 after recompute", len(updated.ScheduleByDay))
	}
}

func TestUpdateMissingClass(t *testing.T) {
	svc := newTestClassService(newFakeClassStore(), newFakeEventStore())

	_, err := svc.Update(context.Background(), "owner", "nope", ClassInput{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func seedClassWithEvents(t *testing.T, classes *fakeClassStore, events *fakeEventStore, n int) string {
	t.Helper()
	svc := newTestClassService(classes, events)
	c, err := svc.Create(context.Background(), "owner", ClassInput{Name: "Química"})
	if err != nil {
		t.Fatalf("create class: %v", err)
	}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("ev-%d", i)
		events.events[id] = &model.Event{OwnerID: "owner", EventID: id, ClassID: c.ClassID}
	}
	// An unrelated event that must survive the cascade.
	events.events["other"] = &model.Event{OwnerID: "owner", EventID: "other", ClassID: "another-class"}
	return c.ClassID
}

func TestDeleteCascadesEvents(t *testing.T) {
	classes, events := newFakeClassStore(), newFakeEventStore()
	classID := seedClassWithEvents(t, classes, events, 5)
	svc := newTestClassService(classes, events)

	if err := svc.Delete(context.Background(), "owner", classID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	for id, e := range events.events {
		if e.ClassID == classID {
			t.Errorf("orphaned event %s survived the cascade", id)
		}
	}
	if _, ok := events.events["other"]; !ok {
		t.Error("unrelated event was deleted")
	}
	if _, ok := classes.classes[classID]; ok {
		t.Error("class record survived")
	}
}

func TestDeleteRetriesFailedSubset(t *testing.T) {
	classes, events := newFakeClassStore(), newFakeEventStore()
	classID := seedClassWithEvents(t, classes, events, 4)
	// Two events fail once each; idempotent deletes make the retry safe.
	events.failDel["ev-1"] = 1
	events.failDel["ev-3"] = 1
	svc := newTestClassService(classes, events)

	if err := svc.Delete(context.Background(), "owner", classID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	for id, e := range events.events {
		if e.ClassID == classID {
			t.Errorf("orphaned event %s survived retried cascade", id)
		}
	}
	// 4 first-pass deletes plus 2 retries of only the failed subset.
	if events.deletes != 6 {
		t.Errorf("delete calls = %d, want 6 (failed subset only retried)", events.deletes)
	}
	if _, ok := classes.classes[classID]; ok {
		t.Error("class record survived")
	}
}

func TestDeleteGivesUpAfterPersistentFailure(t *testing.T) {
	classes, events := newFakeClassStore(), newFakeEventStore()
	classID := seedClassWithEvents(t, classes, events, 2)
	events.failDel["ev-0"] = cascadeAttempts + 1
	svc := newTestClassService(classes, events)

	err := svc.Delete(context.Background(), "owner", classID)
	if err == nil {
		t.Fatal("expected cascade failure")
	}
	// The class record must survive so no event references a missing class.
	if _, ok := classes.classes[classID]; !ok {
		t.Error("class record deleted despite surviving events")
	}
}

func TestDeleteMissingClass(t *testing.T) {
	svc := newTestClassService(newFakeClassStore(), newFakeEventStore())

	err := svc.Delete(context.Background(), "owner", "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
