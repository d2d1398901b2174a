// Package calendar derives every calendar-facing view from the raw class and
// event collections: per-day groupings, weighted class averages, upcoming
// event projections and the month grid. All functions are pure and total over
// well-formed input; malformed individual records degrade per-record instead
// of failing the whole aggregation.
package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/luizhmmachado/school-diary/internal/dates"
	"github.com/luizhmmachado/school-diary/internal/model"
	"github.com/luizhmmachado/school-diary/internal/numeric"
)

// GroupByDate groups events by calendar date. Within a date events are
// ordered ascending by time, with timeless events first (they sort as 00:00).
// Events sharing date and time order deterministically by creation instant,
// then event ID.
func GroupByDate(events []model.Event) map[dates.Date][]model.Event {
	out := make(map[dates.Date][]model.Event)
	for _, e := range events {
		out[e.Date] = append(out[e.Date], e)
	}
	for d, evs := range out {
		sortEvents(evs)
		out[d] = evs
	}
	return out
}

func sortEvents(evs []model.Event) {
	sort.SliceStable(evs, func(i, j int) bool {
		ti, tj := orderingTime(evs[i]), orderingTime(evs[j])
		if ti != tj {
			return ti < tj
		}
		if !evs[i].CreatedAt.Equal(evs[j].CreatedAt) {
			return evs[i].CreatedAt.Before(evs[j].CreatedAt)
		}
		return evs[i].EventID < evs[j].EventID
	})
}

// orderingTime maps a missing time to start of day for sorting.
func orderingTime(e model.Event) string {
	if e.Time == "" {
		return "00:00"
	}
	return e.Time
}

// ClassAverage computes the weighted grade average for one class. An event
// contributes only when it references the class, its grade parses as a
// number, and its weight parses as a number strictly greater than zero;
// everything else is excluded entirely, never treated as zero.
//
// ok is false when no event qualifies — "no data" is distinct from an
// average of zero. Callers render via FormatAverage.
func ClassAverage(classID string, events []model.Event) (avg float64, ok bool) {
	var weightedSum, weightSum float64
	for _, e := range events {
		if e.ClassID != classID {
			continue
		}
		g := numeric.Parse(e.Grade)
		w := numeric.Parse(e.Weight)
		if g.Kind != numeric.Number || w.Kind != numeric.Number || w.Float <= 0 {
			continue
		}
		weightedSum += g.Float * w.Float
		weightSum += w.Float
	}
	if weightSum == 0 {
		return 0, false
	}
	return weightedSum / weightSum, true
}

// NoGradePlaceholder is displayed when a class has no qualifying grades.
const NoGradePlaceholder = "-"

// FormatAverage renders an average to one decimal place, or the placeholder
// when there is no data.
func FormatAverage(avg float64, ok bool) string {
	if !ok {
		return NoGradePlaceholder
	}
	return numeric.Format(avg)
}

// UpcomingEvent is an event projected into the "next events" panel.
type UpcomingEvent struct {
	model.Event
	// ClassName resolves the owning class, or the placeholder label when the
	// reference dangles.
	ClassName string `json:"className"`
	// TimeLeft is the relative label: "Em N dia(s)", "Em N hora(s)" or "Hoje".
	TimeLeft string `json:"timeLeft"`
}

// Upcoming filters events to those whose date+time (time defaulting to start
// of day, in loc) is at or after ref and that fall inside the year/month
// window, ordered ascending by combined instant. classNames resolves classId
// to display name; unresolvable references get the placeholder label.
func Upcoming(events []model.Event, ref time.Time, year int, month time.Month, classNames map[string]string, loc *time.Location) []UpcomingEvent {
	var selected []model.Event
	for _, e := range events {
		if e.Date.Year != year || e.Date.Month != month {
			continue
		}
		if e.Date.At(e.Time, loc).Before(ref) {
			continue
		}
		selected = append(selected, e)
	}
	sort.SliceStable(selected, func(i, j int) bool {
		ti := selected[i].Date.At(selected[i].Time, loc)
		tj := selected[j].Date.At(selected[j].Time, loc)
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return selected[i].EventID < selected[j].EventID
	})

	out := make([]UpcomingEvent, 0, len(selected))
	for _, e := range selected {
		name, found := classNames[e.ClassID]
		if !found || name == "" {
			name = model.MissingClassLabel
		}
		out = append(out, UpcomingEvent{
			Event:     e,
			ClassName: name,
			TimeLeft:  RelativeLabel(e.Date.At(e.Time, loc).Sub(ref)),
		})
	}
	return out
}

// RelativeLabel renders how far away an event is. Counts truncate: an event
// 23.9 hours out is still labeled in hours, not rounded up to a day.
func RelativeLabel(until time.Duration) string {
	if days := int(until / (24 * time.Hour)); days >= 1 {
		if days == 1 {
			return "Em 1 dia"
		}
		return fmt.Sprintf("Em %d dias", days)
	}
	if hours := int(until / time.Hour); hours >= 1 {
		if hours == 1 {
			return "Em 1 hora"
		}
		return fmt.Sprintf("Em %d horas", hours)
	}
	return "Hoje"
}
