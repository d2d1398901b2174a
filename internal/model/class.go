package model

import (
	"time"

	"github.com/luizhmmachado/school-diary/internal/dates"
	"github.com/luizhmmachado/school-diary/internal/schedule"
)

// DefaultClassName is shown when the user saves a class without a name.
const DefaultClassName = "Sem título"

// Class is a recurring subject the user tracks attendance and grades for.
// Both keys are immutable: OwnerID is the storage partition key, ClassID the
// item key.
//
// ScheduleByDay is derived from Weekdays/SlotsByWeekday/StartDate/EndDate and
// recomputed wholesale on every save; it is never edited in place.
type Class struct {
	OwnerID string `json:"-"`
	ClassID string `json:"classId"`
	Name    string `json:"name"`

	// Weekdays holds the recurring weekday indices, 0=Sunday..6=Saturday.
	Weekdays       []int                   `json:"weekdays"`
	SlotsByWeekday map[int][]schedule.Slot `json:"slotsByWeekday"`
	StartDate      *dates.Date             `json:"startDate,omitempty"`
	EndDate        *dates.Date             `json:"endDate,omitempty"`
	ScheduleByDay  []schedule.Entry        `json:"scheduleByDay"`

	ImageURL     string `json:"imageUrl,omitempty"`
	TotalClasses int    `json:"totalClasses"`
	Absences     int    `json:"absences"`

	// Presence policy: at most one of the two is set.
	MaxAbsences *int `json:"maxAbsences,omitempty"`
	MinPresence *int `json:"minPresence,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PresencePercent derives attendance from TotalClasses and Absences, clamped
// to [0,100]. A class with no planned sessions counts as full presence.
func (c *Class) PresencePercent() int {
	if c.TotalClasses <= 0 {
		return 100
	}
	pct := float64(c.TotalClasses-c.Absences) / float64(c.TotalClasses) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return int(pct + 0.5)
}
