package ledger

import (
	"testing"
	"time"

	"Medivue/errs"
)

func TestDayKeyFromTime_SameCivilDateAcrossZones(t *testing.T) {
	utc := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	ist := time.Date(2024, 3, 1, 23, 59, 59, 0, time.FixedZone("IST", 5*3600+1800))

	if DayKeyFromTime(utc) != DayKeyFromTime(ist) {
		t.Fatalf("expected same day key, got %s and %s", DayKeyFromTime(utc), DayKeyFromTime(ist))
	}
	if got := DayKeyFromTime(utc); got != "2024-03-01" {
		t.Errorf("expected 2024-03-01, got %s", got)
	}
}

func TestDayKeyFromTime_NoUTCShift(t *testing.T) {
	// 01:00 IST on March 1st is still Feb 29 in UTC; the civil date must win.
	ist := time.Date(2024, 3, 1, 1, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	if got := DayKeyFromTime(ist); got != "2024-03-01" {
		t.Errorf("expected 2024-03-01, got %s", got)
	}
}

func TestParseDayKey(t *testing.T) {
	day, err := ParseDayKey("2025-01-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day != "2025-01-10" {
		t.Errorf("expected 2025-01-10, got %s", day)
	}

	day, err = ParseDayKey("2024-03-01T23:59:59+05:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day != "2024-03-01" {
		t.Errorf("expected 2024-03-01, got %s", day)
	}
}

func TestParseDayKey_Invalid(t *testing.T) {
	for _, bad := range []string{"", "not-a-date", "2024-13-40", "10/01/2025"} {
		if _, err := ParseDayKey(bad); !errs.IsValidation(err) {
			t.Errorf("expected validation error for %q, got %v", bad, err)
		}
	}
}

func TestDayKeyInRange(t *testing.T) {
	day := DayKey("2025-01-10")

	if !day.InRange("2025-01-01", "2025-01-31") {
		t.Error("expected day in january range")
	}
	if !day.InRange("", "") {
		t.Error("expected open range to match")
	}
	if day.InRange("2025-02-01", "") {
		t.Error("expected day before open-ended start to be excluded")
	}
	if day.InRange("", "2025-01-09") {
		t.Error("expected day after end to be excluded")
	}
}
