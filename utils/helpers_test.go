package utils

import (
	"testing"
	"time"
)

func TestNormalizeGrade(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "labelled grade", input: "Grade 10", want: "10"},
		{name: "padded digits", input: " 9 ", want: "9"},
		{name: "ordinal suffix", input: "10th", want: "10"},
		{name: "split digits", input: "1 0", want: "10"},
		{name: "plain digits", input: "12", want: "12"},
		{name: "no digits", input: "N/A", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeGrade(tc.input); got != tc.want {
				t.Fatalf("NormalizeGrade(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestIsValidGrade(t *testing.T) {
	for _, g := range []string{"9", "10", "11", "12"} {
		if !IsValidGrade(g) {
			t.Fatalf("expected %q to be valid", g)
		}
	}
	for _, g := range []string{"", "8", "13", "100", "ten"} {
		if IsValidGrade(g) {
			t.Fatalf("expected %q to be invalid", g)
		}
	}
}

func TestMonthAndDateKeys(t *testing.T) {
	at := time.Date(2026, time.March, 4, 10, 30, 0, 0, time.UTC)

	if got := MonthKey(at); got != "2026-03" {
		t.Fatalf("MonthKey = %q, want 2026-03", got)
	}
	if got := DateKey(at); got != "2026-03-04" {
		t.Fatalf("DateKey = %q, want 2026-03-04", got)
	}
}

func TestWeekdayDateKeys(t *testing.T) {
	keys := WeekdayDateKeys(2026, time.February)

	if len(keys) != 20 {
		t.Fatalf("expected 20 weekdays in February 2026, got %d", len(keys))
	}
	if keys[0] != "2026-02-02" || keys[len(keys)-1] != "2026-02-27" {
		t.Fatalf("unexpected range: %s .. %s", keys[0], keys[len(keys)-1])
	}
	for i := 1; i < len(keys); i++ {
		if keys[i] <= keys[i-1] {
			t.Fatalf("keys not ascending: %s before %s", keys[i-1], keys[i])
		}
	}
	for _, k := range keys {
		d, err := time.Parse("2006-01-02", k)
		if err != nil {
			t.Fatalf("bad key %q: %v", k, err)
		}
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Fatalf("weekend date %s included", k)
		}
	}
}

func TestDefaultIfEmpty(t *testing.T) {
	if got := DefaultIfEmpty("  ", "Not specified"); got != "Not specified" {
		t.Fatalf("expected fallback for blank input, got %q", got)
	}
	if got := DefaultIfEmpty(" value ", "Not specified"); got != "value" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckPassword("s3cret", hash); err != nil {
		t.Fatalf("expected password to verify: %v", err)
	}
	if err := CheckPassword("wrong", hash); err == nil {
		t.Fatalf("expected mismatch to fail")
	}
}
