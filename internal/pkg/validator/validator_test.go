package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidClock(t *testing.T) {
	valid := []string{"00:00", "08:30", "16:00", "23:59"}
	invalid := []string{"24:00", "8:30", "16:60", "16-00", "16:0", "", "noon"}
	for _, s := range valid {
		if !IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = true, want false", s)
		}
	}
}

func TestIsValidMonthKey(t *testing.T) {
	valid := []string{"01-2025", "12-2024", "06-1999"}
	invalid := []string{"13-2025", "00-2025", "2025-01", "1-2025", "06-25", ""}
	for _, s := range valid {
		if !IsValidMonthKey(s) {
			t.Errorf("IsValidMonthKey(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidMonthKey(s) {
			t.Errorf("IsValidMonthKey(%q) = true, want false", s)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if _, ok := IsValidDate("2025-06-09"); !ok {
		t.Error("IsValidDate(2025-06-09) = false, want true")
	}
	for _, s := range []string{"2025-13-01", "09-06-2025", "2025-06-32", ""} {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "start_time", Message: "is required"},
		{Field: "off_type", Message: "is invalid"},
	}
	m := errs.ToMap()
	if m["start_time"] != "is required" || m["off_type"] != "is invalid" {
		t.Errorf("ToMap() = %v", m)
	}
	if errs.Error() != "start_time: is required; off_type: is invalid" {
		t.Errorf("Error() = %q", errs.Error())
	}
}
