package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock is a time of day expressed in minutes after midnight
type Clock uint16

func NewClock(hour, minute int) (Clock, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time of day %02d:%02d", hour, minute)
	}
	return Clock(hour*60 + minute), nil
}

// Parses "HH:MM" (seconds, if present, are ignored)
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time of day \"%v\": expected HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in \"%v\": %v", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in \"%v\": %v", s, err)
	}
	return NewClock(hour, minute)
}

// Parses an optional clock, where the empty string stands for "no fixed time"
func parseOptionalClock(s string) (*Clock, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	clock, err := ParseClock(s)
	if err != nil {
		return nil, err
	}
	return &clock, nil
}

func (clock Clock) Hour() int {
	return int(clock) / 60
}

func (clock Clock) Minute() int {
	return int(clock) % 60
}

// On returns the instant at this time of day on the given date's calendar day in location
func (clock Clock) On(date time.Time, location *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, location)
}

func (clock Clock) String() string {
	return fmt.Sprintf("%02d:%02d", clock.Hour(), clock.Minute())
}
