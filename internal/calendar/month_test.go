package calendar

import (
	"testing"
	"time"

	"github.com/luizhmmachado/school-diary/internal/dates"
)

func countDays(cells []DayCell) int {
	n := 0
	for _, c := range cells {
		if c.Day != 0 {
			n++
		}
	}
	return n
}

func TestMonthMatrixFebruary(t *testing.T) {
	leap := MonthMatrix(2024, time.February, dates.Date{}, dates.Date{})
	if got := countDays(leap); got != 29 {
		t.Errorf("Feb 2024 day cells = %d, want 29", got)
	}
	common := MonthMatrix(2023, time.February, dates.Date{}, dates.Date{})
	if got := countDays(common); got != 28 {
		t.Errorf("Feb 2023 day cells = %d, want 28", got)
	}
}

func TestMonthMatrixGeometry(t *testing.T) {
	// March 2024 starts on a Friday (offset 5) and has 31 days.
	cells := MonthMatrix(2024, time.March, dates.Date{}, dates.Date{})

	if len(cells)%7 != 0 {
		t.Errorf("grid length %d not a multiple of 7", len(cells))
	}
	for i := 0; i < 5; i++ {
		if cells[i].Day != 0 {
			t.Errorf("leading cell %d should be blank, got day %d", i, cells[i].Day)
		}
	}
	if cells[5].Day != 1 {
		t.Errorf("cell 5 should be day 1, got %d", cells[5].Day)
	}
	if got := countDays(cells); got != 31 {
		t.Errorf("March 2024 day cells = %d, want 31", got)
	}

	// Column index mod 7 gives the weekday; Sunday and Saturday are weekend.
	for i, c := range cells {
		if c.Day == 0 {
			continue
		}
		wantWeekend := i%7 == 0 || i%7 == 6
		if c.IsWeekend != wantWeekend {
			t.Errorf("day %d weekend flag = %v, want %v", c.Day, c.IsWeekend, wantWeekend)
		}
	}
}

func TestMonthMatrixFlags(t *testing.T) {
	today := dates.New(2024, time.March, 15)
	selected := dates.New(2024, time.March, 20)
	cells := MonthMatrix(2024, time.March, selected, today)

	var todayCount, selectedCount int
	for _, c := range cells {
		if c.IsToday {
			todayCount++
			if c.Day != 15 {
				t.Errorf("isToday on day %d, want 15", c.Day)
			}
		}
		if c.IsSelected {
			selectedCount++
			if c.Day != 20 {
				t.Errorf("isSelected on day %d, want 20", c.Day)
			}
		}
	}
	if todayCount != 1 || selectedCount != 1 {
		t.Errorf("flag counts today=%d selected=%d, want 1 and 1", todayCount, selectedCount)
	}

	// Other months never flag today/selected.
	other := MonthMatrix(2024, time.April, selected, today)
	for _, c := range other {
		if c.IsToday || c.IsSelected {
			t.Errorf("April cell day %d unexpectedly flagged", c.Day)
		}
	}
}

func TestMonthMatrixNoLeadingBlanksWhenMonthStartsSunday(t *testing.T) {
	// September 2024 starts on a Sunday.
	cells := MonthMatrix(2024, time.September, dates.Date{}, dates.Date{})
	if cells[0].Day != 1 {
		t.Errorf("first cell day = %d, want 1", cells[0].Day)
	}
	if got := countDays(cells); got != 30 {
		t.Errorf("September 2024 day cells = %d, want 30", got)
	}
}
