package model

import (
	"time"

	"github.com/luizhmmachado/school-diary/internal/dates"
)

// Event display defaults and color palette. Colors are purely presentational
// tags the frontend maps to CSS variables.
const (
	DefaultEventName  = "Evento"
	DefaultEventColor = "red-alert"

	// MissingClassLabel substitutes the class name when an event's classId
	// no longer resolves. Dangling references are tolerated, never fatal.
	MissingClassLabel = "Aula"
)

// EventColors is the fixed palette accepted for Event.Color.
var EventColors = []string{"red-alert", "blue-alert", "green-alert", "yellow-alert"}

// Event is a dated, optionally timed and graded occurrence (exam, assignment)
// tied to a class. OwnerID is the partition key, EventID the item key; both
// immutable.
//
// Grade and Weight are kept as the raw normalized text the user entered.
// Empty means absent; anything unparseable is tolerated at read time and
// excluded from averages rather than treated as zero.
type Event struct {
	OwnerID string `json:"-"`
	EventID string `json:"eventId"`
	ClassID string `json:"classId"`
	Name    string `json:"name"`

	Date   dates.Date `json:"date"`
	Time   string     `json:"time,omitempty"` // HH:MM, empty = unspecified
	Grade  string     `json:"grade,omitempty"`
	Weight string     `json:"weight,omitempty"`
	Color  string     `json:"color"`

	CreatedAt time.Time `json:"createdAt"`
}

// ValidColor reports whether c is one of the palette tags.
func ValidColor(c string) bool {
	for _, v := range EventColors {
		if v == c {
			return true
		}
	}
	return false
}
