// Package schedule expands a class's weekly recurrence rule into a concrete
// list of dated entries. The expansion is pure and deterministic: saving the
// same rule twice materializes the same schedule.
package schedule

import (
	"errors"
	"sort"

	"github.com/luizhmmachado/school-diary/internal/dates"
)

// Expansion failure modes. Both are user-correctable validation errors and
// must block the save; nothing is persisted.
var (
	ErrInvalidRange  = errors.New("end date precedes start date")
	ErrEmptySchedule = errors.New("no date in range matches the selected weekdays")
)

// Slot is a class time slot within a day. Start and End are HH:MM strings;
// either may be empty, meaning the time is unspecified.
type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Entry is one materialized schedule day: a calendar date plus the time slots
// the class meets on that date.
type Entry struct {
	Date  dates.Date `json:"date"`
	Slots []Slot     `json:"slots"`
}

// Expand walks every calendar day from start to end inclusive and emits one
// Entry per day whose weekday (0=Sunday..6=Saturday) is in weekdays, carrying
// a copy of that weekday's slot list. Output is strictly ascending by date;
// callers rely on the first and last entries being the effective start and
// end dates.
//
// Returns ErrInvalidRange when end is before start, and ErrEmptySchedule when
// the range contains no matching day.
func Expand(start, end dates.Date, weekdays map[int]bool, slotsByWeekday map[int][]Slot) ([]Entry, error) {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil, ErrInvalidRange
	}

	var out []Entry
	for d := start; !d.After(end); d = d.Next() {
		dow := d.Weekday()
		if !weekdays[dow] {
			continue
		}
		out = append(out, Entry{Date: d, Slots: copySlots(slotsByWeekday[dow])})
	}

	if len(out) == 0 {
		return nil, ErrEmptySchedule
	}
	return out, nil
}

// Weekdays lists the distinct weekday indices present in entries, ascending.
func Weekdays(entries []Entry) []int {
	seen := make(map[int]bool)
	for _, e := range entries {
		seen[e.Date.Weekday()] = true
	}
	out := make([]int, 0, len(seen))
	for dow := range seen {
		out = append(out, dow)
	}
	sort.Ints(out)
	return out
}

// copySlots returns a defensive copy so later edits to the source rule do not
// retroactively alter already-expanded entries.
func copySlots(slots []Slot) []Slot {
	if len(slots) == 0 {
		return []Slot{}
	}
	out := make([]Slot, len(slots))
	copy(out, slots)
	return out
}
