package numeric

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		kind Kind
		f    float64
	}{
		{"", Absent, 0},
		{"   ", Absent, 0},
		{"8", Number, 8},
		{"7.5", Number, 7.5},
		{"7,5", Number, 7.5},
		{" 9,25 ", Number, 9.25},
		{"-1", Number, -1},
		{"x", Malformed, 0},
		{"7.5.1", Malformed, 0},
		{"dez", Malformed, 0},
	}
	for _, c := range cases {
		v := Parse(c.in)
		if v.Kind != c.kind {
			t.Errorf("Parse(%q) kind = %v, want %v", c.in, v.Kind, c.kind)
			continue
		}
		if v.Kind == Number && v.Float != c.f {
			t.Errorf("Parse(%q) = %v, want %v", c.in, v.Float, c.f)
		}
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"8", "8.0"},
		{"7,5", "7.5"},
		{"9.25", "9.3"},
		{"", ""},
		{"  ", ""},
		{"abc", "abc"},
		{" abc ", "abc"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormat(t *testing.T) {
	if got := Format(7.333333); got != "7.3" {
		t.Errorf("Format = %q, want 7.3", got)
	}
	if got := Format(0); got != "0.0" {
		t.Errorf("Format = %q, want 0.0", got)
	}
}
