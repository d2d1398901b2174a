package dates

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	d, err := Parse("2024-03-06")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Year != 2024 || d.Month != time.March || d.Day != 6 {
		t.Errorf("got %v", d)
	}

	invalid := []string{"", "2024-3-6", "06/03/2024", "2024-13-01", "2024-02-30", "2023-02-29", "abcd-ef-gh"}
	for _, s := range invalid {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) should fail", s)
		}
	}

	// Leap day parses in a leap year.
	if _, err := Parse("2024-02-29"); err != nil {
		t.Errorf("2024-02-29 should parse: %v", err)
	}
}

func TestOrderingAndNext(t *testing.T) {
	a := New(2024, time.February, 28)
	b := New(2024, time.February, 29)
	c := New(2024, time.March, 1)

	if !a.Before(b) || !b.Before(c) || c.Before(a) {
		t.Error("ordering broken across leap-day boundary")
	}
	if b.Next() != c {
		t.Errorf("Feb 29 next = %v, want %v", b.Next(), c)
	}
	if !c.After(b) {
		t.Error("After inconsistent with Before")
	}

	// Year boundary.
	if got := New(2023, time.December, 31).Next(); got != New(2024, time.January, 1) {
		t.Errorf("Dec 31 next = %v", got)
	}
}

func TestWeekday(t *testing.T) {
	// 2024-03-04 was a Monday, 2024-03-03 a Sunday.
	if got := New(2024, time.March, 4).Weekday(); got != 1 {
		t.Errorf("weekday = %d, want 1", got)
	}
	if got := New(2024, time.March, 3).Weekday(); got != 0 {
		t.Errorf("weekday = %d, want 0", got)
	}
}

func TestDaysIn(t *testing.T) {
	cases := []struct {
		y    int
		m    time.Month
		want int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.April, 30},
		{2024, time.January, 31},
	}
	for _, c := range cases {
		if got := DaysIn(c.y, c.m); got != c.want {
			t.Errorf("DaysIn(%d, %v) = %d, want %d", c.y, c.m, got, c.want)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := New(2024, time.March, 6)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-03-06"` {
		t.Errorf("marshal = %s", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Errorf("round trip %v != %v", back, d)
	}

	if err := json.Unmarshal([]byte(`"not-a-date"`), &back); err == nil {
		t.Error("unmarshal of invalid date should fail")
	}
}

func TestAt(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	d := New(2024, time.March, 6)

	at := d.At("13:30", loc)
	if at.Hour() != 13 || at.Minute() != 30 || at.Location() != loc {
		t.Errorf("At = %v", at)
	}
	if midnight := d.At("", loc); midnight.Hour() != 0 || midnight.Minute() != 0 {
		t.Errorf("empty clock should be start of day, got %v", midnight)
	}
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("08:45")
	if err != nil || h != 8 || m != 45 {
		t.Errorf("ParseClock = %d:%d, %v", h, m, err)
	}

	invalid := []string{"", "8:45", "24:00", "12:60", "ab:cd", "12h30"}
	for _, s := range invalid {
		if _, _, err := ParseClock(s); err == nil {
			t.Errorf("ParseClock(%q) should fail", s)
		}
	}
}
