package calendar

import (
	"testing"
	"time"

	"github.com/luizhmmachado/school-diary/internal/dates"
	"github.com/luizhmmachado/school-diary/internal/model"
)

func TestGroupByDateTimelessFirst(t *testing.T) {
	d := dates.New(2024, time.March, 15)
	events := []model.Event{
		{EventID: "a", Date: d, Time: "09:00"},
		{EventID: "b", Date: d, Time: ""},
	}

	grouped := GroupByDate(events)
	got := grouped[d]
	if len(got) != 2 {
		t.Fatalf("expected 2 events for %s, got %d", d, len(got))
	}
	if got[0].EventID != "b" {
		t.Errorf("timeless event should sort first, got %s", got[0].EventID)
	}
}

func TestGroupByDateOrdering(t *testing.T) {
	d := dates.New(2024, time.March, 15)
	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	events := []model.Event{
		{EventID: "late", Date: d, Time: "14:00", CreatedAt: base},
		{EventID: "early", Date: d, Time: "08:00", CreatedAt: base},
		{EventID: "tie-b", Date: d, Time: "10:00", CreatedAt: base.Add(time.Minute)},
		{EventID: "tie-a", Date: d, Time: "10:00", CreatedAt: base},
		{EventID: "other-day", Date: dates.New(2024, time.March, 16), Time: "08:00"},
	}

	grouped := GroupByDate(events)
	got := grouped[d]
	wantOrder := []string{"early", "tie-a", "tie-b", "late"}
	if len(got) != len(wantOrder) {
		t.Fatalf("expected %d events, got %d", len(wantOrder), len(got))
	}
	for i, id := range wantOrder {
		if got[i].EventID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].EventID, id)
		}
	}
	if len(grouped[dates.New(2024, time.March, 16)]) != 1 {
		t.Error("event on another day should group separately")
	}
}

func TestGroupByDateIdenticalInstantTieBreaksByID(t *testing.T) {
	d := dates.New(2024, time.March, 15)
	at := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	events := []model.Event{
		{EventID: "zzz", Date: d, Time: "10:00", CreatedAt: at},
		{EventID: "aaa", Date: d, Time: "10:00", CreatedAt: at},
	}

	got := GroupByDate(events)[d]
	if got[0].EventID != "aaa" || got[1].EventID != "zzz" {
		t.Errorf("identical date+time+created should order by ID: got [%s %s]",
			got[0].EventID, got[1].EventID)
	}
}

func TestClassAverageWeighted(t *testing.T) {
	events := []model.Event{
		{ClassID: "c1", Grade: "8", Weight: "2"},
		{ClassID: "c1", Grade: "6", Weight: "1"},
		{ClassID: "c1", Grade: "x", Weight: "1"},
	}

	avg, ok := ClassAverage("c1", events)
	if !ok {
		t.Fatal("expected a computed average")
	}
	if got := FormatAverage(avg, ok); got != "7.3" {
		t.Errorf("display = %s, want 7.3", got)
	}
}

func TestClassAverageExclusions(t *testing.T) {
	events := []model.Event{
		{ClassID: "c1", Grade: "9,5", Weight: "2"}, // decimal comma accepted
		{ClassID: "c1", Grade: "5", Weight: "0"},   // weight zero excluded
		{ClassID: "c1", Grade: "5", Weight: "-1"},  // negative weight excluded
		{ClassID: "c1", Grade: "", Weight: "3"},    // absent grade excluded
		{ClassID: "c1", Grade: "7", Weight: ""},    // absent weight excluded
		{ClassID: "c2", Grade: "1", Weight: "1"},   // other class excluded
	}

	avg, ok := ClassAverage("c1", events)
	if !ok {
		t.Fatal("expected a computed average from the one qualifying event")
	}
	if avg != 9.5 {
		t.Errorf("avg = %v, want 9.5", avg)
	}
}

func TestClassAverageNoData(t *testing.T) {
	_, ok := ClassAverage("c1", nil)
	if ok {
		t.Error("no events should report no data")
	}
	if got := FormatAverage(0, false); got != NoGradePlaceholder {
		t.Errorf("display = %s, want %s", got, NoGradePlaceholder)
	}

	// An average of zero is real data, distinct from the placeholder.
	events := []model.Event{{ClassID: "c1", Grade: "0", Weight: "1"}}
	avg, ok := ClassAverage("c1", events)
	if !ok || avg != 0 {
		t.Errorf("zero average should still be data: avg=%v ok=%v", avg, ok)
	}
	if got := FormatAverage(avg, ok); got != "0.0" {
		t.Errorf("display = %s, want 0.0", got)
	}
}

func TestRelativeLabel(t *testing.T) {
	cases := []struct {
		until time.Duration
		want  string
	}{
		{36 * time.Hour, "Em 1 dia"},
		{48 * time.Hour, "Em 2 dias"},
		{90 * time.Minute, "Em 1 hora"},
		{23*time.Hour + 54*time.Minute, "Em 23 horas"},
		{5 * time.Hour, "Em 5 horas"},
		{30 * time.Minute, "Hoje"},
		{0, "Hoje"},
	}
	for _, c := range cases {
		if got := RelativeLabel(c.until); got != c.want {
			t.Errorf("RelativeLabel(%v) = %q, want %q", c.until, got, c.want)
		}
	}
}

func TestUpcoming(t *testing.T) {
	loc := time.UTC
	ref := time.Date(2024, time.March, 15, 12, 0, 0, 0, loc)
	names := map[string]string{"c1": "Cálculo I"}
	events := []model.Event{
		{EventID: "past", ClassID: "c1", Date: dates.New(2024, time.March, 10), Time: "08:00"},
		{EventID: "tomorrow", ClassID: "c1", Date: dates.New(2024, time.March, 17), Time: "00:00"},
		{EventID: "today", ClassID: "c1", Date: dates.New(2024, time.March, 15), Time: "13:00"},
		{EventID: "dangling", ClassID: "gone", Date: dates.New(2024, time.March, 20), Time: ""},
		{EventID: "next-month", ClassID: "c1", Date: dates.New(2024, time.April, 1), Time: "08:00"},
	}

	got := Upcoming(events, ref, 2024, time.March, names, loc)
	wantOrder := []string{"today", "tomorrow", "dangling"}
	if len(got) != len(wantOrder) {
		t.Fatalf("expected %d events, got %d", len(wantOrder), len(got))
	}
	for i, id := range wantOrder {
		if got[i].EventID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].EventID, id)
		}
	}

	if got[0].TimeLeft != "Em 1 hora" {
		t.Errorf("today 13:00 from 12:00 = %q, want Em 1 hora", got[0].TimeLeft)
	}
	if got[0].ClassName != "Cálculo I" {
		t.Errorf("class name = %q", got[0].ClassName)
	}
	if got[2].ClassName != model.MissingClassLabel {
		t.Errorf("dangling reference name = %q, want %q", got[2].ClassName, model.MissingClassLabel)
	}
}

func TestUpcomingTimelessEventAtStartOfDay(t *testing.T) {
	loc := time.UTC
	// Reference mid-day: a timeless event today counts as 00:00 and is past.
	ref := time.Date(2024, time.March, 15, 12, 0, 0, 0, loc)
	events := []model.Event{
		{EventID: "today-timeless", Date: dates.New(2024, time.March, 15), Time: ""},
		{EventID: "tomorrow-timeless", Date: dates.New(2024, time.March, 16), Time: ""},
	}

	got := Upcoming(events, ref, 2024, time.March, nil, loc)
	if len(got) != 1 || got[0].EventID != "tomorrow-timeless" {
		t.Fatalf("got %v, want only tomorrow-timeless", got)
	}
	// 12 hours away truncates below one day.
	if got[0].TimeLeft != "Em 12 horas" {
		t.Errorf("label = %q, want Em 12 horas", got[0].TimeLeft)
	}
}
