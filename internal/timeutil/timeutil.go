// Package timeutil holds the date and clock-time string conventions
// used across the scheduling code: dates are "2006-01-02", times are
// 24h "15:04".
package timeutil

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ParseDate parses a calendar date string.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	return t, nil
}

// ParseClock splits a 24h time string into hour and minute.
func ParseClock(clock string) (hour, minute int, err error) {
	t, err := time.Parse(TimeLayout, clock)
	if err != nil {
		return 0, 0, fmt.Errorf("parse time %q: %w", clock, err)
	}
	return t.Hour(), t.Minute(), nil
}

// Combine builds a full timestamp from a date string and a clock string.
func Combine(date, clock string) (time.Time, error) {
	t, err := time.Parse(DateLayout+" "+TimeLayout, date+" "+clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("combine %q %q: %w", date, clock, err)
	}
	return t, nil
}

// Split is the inverse of Combine.
func Split(t time.Time) (date, clock string) {
	return t.Format(DateLayout), t.Format(TimeLayout)
}

// To12Hour renders a 24h clock string in 12-hour form, e.g. "14:30" ->
// "2:30 PM". Invalid input is returned unchanged.
func To12Hour(clock string) string {
	t, err := time.Parse(TimeLayout, clock)
	if err != nil {
		return clock
	}
	return t.Format("3:04 PM")
}

// To24Hour parses a 12-hour clock string back to 24h form, e.g.
// "2:30 PM" -> "14:30". Invalid input is returned unchanged.
func To24Hour(clock string) string {
	t, err := time.Parse("3:04 PM", clock)
	if err != nil {
		return clock
	}
	return t.Format(TimeLayout)
}

// AddDays shifts a date string by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(DateLayout), nil
}

// WeekdayName returns the schedule key ("Monday".."Sunday") for a date.
func WeekdayName(t time.Time) string {
	return t.Weekday().String()
}
