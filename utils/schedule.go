package utils

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidDay  = errors.New("invalid day of week")
	ErrInvalidTime = errors.New("invalid time format")
)

// OperatingDays lists the recognized weekday keys for operating hours,
// monday first.
var OperatingDays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

var weekdayByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// NextDateForDay resolves a weekday name plus a 24-hour "HH:MM" clock to the
// next concrete occurrence on or after now. When the weekday is today but the
// clock time has already passed, the result rolls forward one week. The
// weekday name is case-insensitive.
func NextDateForDay(day, clock string, now time.Time) (time.Time, error) {
	target, ok := weekdayByName[strings.ToLower(day)]
	if !ok {
		return time.Time{}, ErrInvalidDay
	}

	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}

	diff := int(target - now.Weekday())
	if diff < 0 {
		diff += 7
	}

	result := time.Date(now.Year(), now.Month(), now.Day()+diff, hour, minute, 0, 0, now.Location())
	if diff == 0 && now.After(result) {
		result = result.AddDate(0, 0, 7)
	}
	return result, nil
}

// ParseClock splits a 24-hour "HH:MM" string into its components.
func ParseClock(clock string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, 0, ErrInvalidTime
	}
	return t.Hour(), t.Minute(), nil
}

// CombineDateClock puts an "HH:MM" wall-clock time onto the calendar date of
// date, in date's location.
func CombineDateClock(date time.Time, clock string) (time.Time, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location()), nil
}

// HasTimeRangeOverlap tests two half-open intervals [start1,end1) and
// [start2,end2). Intervals that only touch at an endpoint do not overlap, so
// back-to-back reservations are legal.
func HasTimeRangeOverlap(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

// FormatClock renders the wall-clock part of t as 24-hour "HH:MM".
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

// DateString renders the calendar date of t as "YYYY-MM-DD".
func DateString(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseDate parses a "YYYY-MM-DD" string in the local location.
func ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", date, time.Local)
}
