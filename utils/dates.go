package utils

import "time"

// DayLayout is the canonical calendar-day format used across availability lists.
const DayLayout = "2006-01-02"

// DayString normalizes a timestamp to UTC midnight and formats it as YYYY-MM-DD.
func DayString(t time.Time) string {
	return StartOfDayUTC(t).Format(DayLayout)
}

// ParseDayString parses a YYYY-MM-DD string back into a UTC midnight time.
func ParseDayString(s string) (time.Time, error) {
	return time.Parse(DayLayout, s)
}

// StartOfDayUTC truncates a timestamp to UTC midnight.
func StartOfDayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysInRange expands a check-in/check-out pair into every calendar day from
// start to end inclusive, as YYYY-MM-DD strings. The checkout day itself is
// part of the range, so it is marked occupied alongside the nights stayed.
func DaysInRange(start, end time.Time) []string {
	from := StartOfDayUTC(start)
	to := StartOfDayUTC(end)

	var days []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DayLayout))
	}
	return days
}
