package service

import (
	"context"
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/luizhmmachado/school-diary/internal/model"
)

// ICalService renders the diary as an iCalendar document: one VEVENT per
// materialized schedule day and one per diary event, so the feed can be
// subscribed to from any calendar client.
type ICalService struct {
	classes ClassStore
	events  EventStore
	loc     *time.Location
}

// NewICalService creates a new ICalService.
func NewICalService(classes ClassStore, events EventStore, loc *time.Location) *ICalService {
	return &ICalService{classes: classes, events: events, loc: loc}
}

// Export serializes the owner's classes and events to iCalendar text.
func (s *ICalService) Export(ctx context.Context, ownerID string) (string, error) {
	classes, err := s.classes.List(ctx, ownerID)
	if err != nil {
		return "", fmt.Errorf("list classes: %w", err)
	}
	events, err := s.events.List(ctx, ownerID)
	if err != nil {
		return "", fmt.Errorf("list events: %w", err)
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)

	now := time.Now().In(s.loc)
	names := make(map[string]string, len(classes))

	for _, c := range classes {
		names[c.ClassID] = c.Name
		for i, entry := range c.ScheduleByDay {
			for j, slot := range entry.Slots {
				ve := cal.AddEvent(fmt.Sprintf("%s-%d-%d@school-diary", c.ClassID, i, j))
				ve.SetDtStampTime(now)
				ve.SetSummary(c.Name)

				if slot.Start == "" {
					// Untimed schedule day: all-day entry.
					day := entry.Date.At("", s.loc)
					ve.SetAllDayStartAt(day)
					ve.SetAllDayEndAt(day.AddDate(0, 0, 1))
					continue
				}
				start := entry.Date.At(slot.Start, s.loc)
				end := start.Add(time.Hour)
				if slot.End != "" {
					if e := entry.Date.At(slot.End, s.loc); e.After(start) {
						end = e
					}
				}
				ve.SetStartAt(start)
				ve.SetEndAt(end)
			}
		}
	}

	for _, e := range events {
		ve := cal.AddEvent(e.EventID + "@school-diary")
		ve.SetDtStampTime(now)
		ve.SetSummary(e.Name)

		className, found := names[e.ClassID]
		if !found || className == "" {
			className = model.MissingClassLabel
		}
		ve.SetDescription(className)

		start := e.Date.At(e.Time, s.loc)
		if e.Time == "" {
			ve.SetAllDayStartAt(start)
			ve.SetAllDayEndAt(start.AddDate(0, 0, 1))
		} else {
			ve.SetStartAt(start)
			ve.SetEndAt(start.Add(time.Hour))
		}
	}

	return cal.Serialize(), nil
}
