package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/luizhmmachado/school-diary/internal/calendar"
	"github.com/luizhmmachado/school-diary/internal/config"
	"github.com/luizhmmachado/school-diary/internal/dates"
	"github.com/luizhmmachado/school-diary/internal/model"
	"github.com/luizhmmachado/school-diary/internal/numeric"
)

// EventView is an event enriched for rendering: resolved class name and
// grade display string.
type EventView struct {
	model.Event
	ClassName    string `json:"className"`
	GradeDisplay string `json:"gradeDisplay,omitempty"`
}

// DayGroup is one calendar day with its ordered events.
type DayGroup struct {
	Date   dates.Date  `json:"date"`
	Events []EventView `json:"events"`
}

// AverageResult is the outcome of a class average computation. Average is nil
// when no event qualifies — "no data", not zero.
type AverageResult struct {
	ClassID string   `json:"classId"`
	Average *float64 `json:"average"`
	Display string   `json:"display"`
}

// CalendarService composes the aggregation views over both collections. The
// grade average is always recomputed from events on read; no cached value is
// ever trusted.
type CalendarService struct {
	classes ClassStore
	events  EventStore
	loc     *time.Location
	now     func() time.Time
}

// NewCalendarService creates a new CalendarService.
func NewCalendarService(classes ClassStore, events EventStore, cfg *config.Config) *CalendarService {
	return &CalendarService{
		classes: classes,
		events:  events,
		loc:     cfg.Location(),
		now:     time.Now,
	}
}

// load fetches the owner's classes and events. The two reads populate
// disjoint collections, so they are dispatched concurrently and joined.
func (s *CalendarService) load(ctx context.Context, ownerID string) ([]model.Class, []model.Event, error) {
	var (
		wg        sync.WaitGroup
		classes   []model.Class
		events    []model.Event
		clsErr    error
		eventsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		classes, clsErr = s.classes.List(ctx, ownerID)
	}()
	go func() {
		defer wg.Done()
		events, eventsErr = s.events.List(ctx, ownerID)
	}()
	wg.Wait()

	if clsErr != nil {
		return nil, nil, clsErr
	}
	if eventsErr != nil {
		return nil, nil, eventsErr
	}
	return classes, events, nil
}

// Days groups the month's events per calendar day for the week-strip view.
// Days without events are included so the strip renders the whole month.
func (s *CalendarService) Days(ctx context.Context, ownerID string, year int, month time.Month) ([]DayGroup, error) {
	classes, events, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	names := classNames(classes)

	var monthEvents []model.Event
	for _, e := range events {
		if e.Date.Year == year && e.Date.Month == month {
			monthEvents = append(monthEvents, e)
		}
	}
	grouped := calendar.GroupByDate(monthEvents)

	last := dates.DaysIn(year, month)
	out := make([]DayGroup, 0, last)
	for day := 1; day <= last; day++ {
		d := dates.Date{Year: year, Month: month, Day: day}
		evs := grouped[d]
		views := make([]EventView, 0, len(evs))
		for _, e := range evs {
			views = append(views, makeView(e, names))
		}
		out = append(out, DayGroup{Date: d, Events: views})
	}
	return out, nil
}

// Month returns the calendar grid for a month. selected may be the zero Date
// when nothing is selected.
func (s *CalendarService) Month(year int, month time.Month, selected dates.Date) []calendar.DayCell {
	today := dates.FromTime(s.now().In(s.loc))
	return calendar.MonthMatrix(year, month, selected, today)
}

// Upcoming projects the month's future events with their relative labels.
func (s *CalendarService) Upcoming(ctx context.Context, ownerID string, year int, month time.Month) ([]calendar.UpcomingEvent, error) {
	classes, events, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return calendar.Upcoming(events, s.now().In(s.loc), year, month, classNames(classes), s.loc), nil
}

// ClassAverage recomputes the weighted average for one class from its events.
func (s *CalendarService) ClassAverage(ctx context.Context, ownerID, classID string) (*AverageResult, error) {
	if _, err := s.classes.Get(ctx, ownerID, classID); err != nil {
		return nil, err
	}
	events, err := s.events.ListByClass(ctx, ownerID, classID)
	if err != nil {
		return nil, err
	}

	avg, ok := calendar.ClassAverage(classID, events)
	res := &AverageResult{ClassID: classID, Display: calendar.FormatAverage(avg, ok)}
	if ok {
		res.Average = &avg
	}
	return res, nil
}

// Averages recomputes the weighted average for every class of the owner.
func (s *CalendarService) Averages(ctx context.Context, ownerID string) ([]AverageResult, error) {
	classes, events, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := make([]AverageResult, 0, len(classes))
	for _, c := range classes {
		avg, ok := calendar.ClassAverage(c.ClassID, events)
		res := AverageResult{ClassID: c.ClassID, Display: calendar.FormatAverage(avg, ok)}
		if ok {
			res.Average = &avg
		}
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClassID < out[j].ClassID })
	return out, nil
}

func classNames(classes []model.Class) map[string]string {
	names := make(map[string]string, len(classes))
	for _, c := range classes {
		names[c.ClassID] = c.Name
	}
	return names
}

func makeView(e model.Event, names map[string]string) EventView {
	name, found := names[e.ClassID]
	if !found || name == "" {
		name = model.MissingClassLabel
	}
	v := EventView{Event: e, ClassName: name}
	if e.Grade != "" {
		// Valid grades render with one decimal; anything else shows as typed.
		v.GradeDisplay = numeric.Normalize(e.Grade)
	}
	return v
}
