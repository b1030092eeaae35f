package model

import (
	"fmt"
	"strings"
	"time"
)

// Days is a set of weekdays stored as a bitmask, Monday being the least significant bit
type Days uint8

const (
	Monday Days = 1 << iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

const AllDays = Monday | Tuesday | Wednesday | Thursday | Friday | Saturday | Sunday

// Single-letter codes used by the registrar, in Monday..Sunday order
const dayLetters = "mtwrfsu"

var weekdays = [7]time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// Parses a days string such as "MWF" or "tr" (case-insensitive) into a bitmask
func ParseDays(s string) (Days, error) {
	var days Days
	for _, letter := range strings.ToLower(strings.TrimSpace(s)) {
		position := strings.IndexRune(dayLetters, letter)
		if position < 0 {
			return 0, fmt.Errorf("invalid day letter %q in \"%v\"", letter, s)
		}
		days |= 1 << position
	}
	return days, nil
}

// Checks whether both sets share at least one weekday
func (days Days) Intersects(other Days) bool {
	return days&other != 0
}

// Weekdays returns the days in the set in Monday..Sunday order
func (days Days) Weekdays() []time.Weekday {
	result := make([]time.Weekday, 0, 7)
	for i, weekday := range weekdays {
		if days&(1<<i) != 0 {
			result = append(result, weekday)
		}
	}
	return result
}

func (days Days) String() string {
	var builder strings.Builder
	for i := 0; i < len(dayLetters); i++ {
		if days&(1<<i) != 0 {
			builder.WriteByte(dayLetters[i])
		}
	}
	return builder.String()
}
