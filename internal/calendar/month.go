package calendar

import (
	"time"

	"github.com/luizhmmachado/school-diary/internal/dates"
)

// DayCell is one cell of the 7-column month grid. Blank padding cells have
// Day == 0 and all flags false.
type DayCell struct {
	Day        int    `json:"day"`
	Date       string `json:"date,omitempty"`
	IsToday    bool   `json:"isToday"`
	IsSelected bool   `json:"isSelected"`
	IsWeekend  bool   `json:"isWeekend"`
}

// MonthMatrix produces the calendar grid for a month: leading blank cells for
// the weekday offset of day 1 (Sunday-first columns), one cell per day of the
// month, then trailing blanks padding the final week to a multiple of 7.
// Pure calendar geometry; holds for any Gregorian month.
func MonthMatrix(year int, month time.Month, selected, today dates.Date) []DayCell {
	first := dates.New(year, month, 1)
	offset := first.Weekday()
	last := dates.DaysIn(year, month)

	cells := make([]DayCell, 0, offset+last+6)
	for i := 0; i < offset; i++ {
		cells = append(cells, DayCell{})
	}
	for day := 1; day <= last; day++ {
		d := dates.Date{Year: year, Month: month, Day: day}
		dow := d.Weekday()
		cells = append(cells, DayCell{
			Day:        day,
			Date:       d.String(),
			IsToday:    d == today,
			IsSelected: d == selected,
			IsWeekend:  dow == 0 || dow == 6,
		})
	}
	for len(cells)%7 != 0 {
		cells = append(cells, DayCell{})
	}
	return cells
}
