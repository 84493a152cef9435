package utils

import (
	"testing"
	"time"
)

func TestDayStringNormalizesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("WAT", 1*60*60)
	// 00:30 WAT on June 2 is still June 1 in UTC
	got := DayString(time.Date(2024, 6, 2, 0, 30, 0, 0, loc))
	if got != "2024-06-01" {
		t.Fatalf("expected 2024-06-01, got %s", got)
	}

	got = DayString(time.Date(2024, 6, 1, 23, 59, 59, 0, time.UTC))
	if got != "2024-06-01" {
		t.Fatalf("expected 2024-06-01, got %s", got)
	}
}

func TestParseDayStringRoundTrip(t *testing.T) {
	day, err := ParseDayString("2024-06-01")
	if err != nil {
		t.Fatal(err)
	}
	if !day.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected parse result: %v", day)
	}
	if DayString(day) != "2024-06-01" {
		t.Fatalf("round trip mismatch: %s", DayString(day))
	}

	if _, err := ParseDayString("06/01/2024"); err == nil {
		t.Fatal("expected error for non-canonical format")
	}
}

func TestDaysInRangeIncludesBothEndpoints(t *testing.T) {
	start := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 3, 11, 0, 0, 0, time.UTC)

	days := DaysInRange(start, end)
	want := []string{"2024-06-01", "2024-06-02", "2024-06-03"}
	if len(days) != len(want) {
		t.Fatalf("expected %d days, got %d: %v", len(want), len(days), days)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Fatalf("day %d: expected %s, got %s", i, want[i], days[i])
		}
	}
}

func TestDaysInRangeSingleDay(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	days := DaysInRange(day, day)
	if len(days) != 1 || days[0] != "2024-06-01" {
		t.Fatalf("expected single day 2024-06-01, got %v", days)
	}
}

func TestDaysInRangeCrossesMonthBoundary(t *testing.T) {
	days := DaysInRange(
		time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
	)
	want := []string{"2024-01-30", "2024-01-31", "2024-02-01", "2024-02-02"}
	for i := range want {
		if days[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, days)
		}
	}
}
