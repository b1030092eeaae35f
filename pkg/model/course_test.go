package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDays(t *testing.T) {
	days, err := ParseDays("MWF")
	require.Nil(t, err)
	assert.Equal(t, Monday|Wednesday|Friday, days)
	assert.Equal(t, "mwf", days.String())
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, days.Weekdays())

	days, err = ParseDays("tr")
	require.Nil(t, err)
	assert.Equal(t, Tuesday|Thursday, days)
	assert.False(t, days.Intersects(Monday|Wednesday|Friday))
	assert.True(t, days.Intersects(Thursday))

	days, err = ParseDays("")
	require.Nil(t, err)
	assert.Equal(t, Days(0), days)

	_, err = ParseDays("MX")
	assert.NotNil(t, err)
}

func TestClock(t *testing.T) {
	clock, err := ParseClock("14:30")
	require.Nil(t, err)
	assert.Equal(t, 14, clock.Hour())
	assert.Equal(t, 30, clock.Minute())
	assert.Equal(t, "14:30", clock.String())

	clock, err = ParseClock("08:05:59")
	require.Nil(t, err)
	assert.Equal(t, Clock(8*60+5), clock)

	location := time.FixedZone("PDT", -7*60*60)
	instant := clock.On(time.Date(2024, 9, 4, 0, 0, 0, 0, time.UTC), location)
	assert.Equal(t, time.Date(2024, 9, 4, 8, 5, 0, 0, location), instant)

	for _, malformed := range []string{"", "8", "24:00", "12:60", "aa:bb", "1:2:3:4"} {
		_, err := ParseClock(malformed)
		assert.NotNil(t, err, malformed)
	}

	optional, err := parseOptionalClock(" ")
	assert.Nil(t, err)
	assert.Nil(t, optional)
}

func TestParseCourseKey(t *testing.T) {
	key, err := ParseCourseKey(" csc  111 ")
	require.Nil(t, err)
	assert.Equal(t, CourseKey{Subject: "CSC", Code: "111"}, key)
	assert.Equal(t, "CSC 111", key.String())

	for _, malformed := range []string{"", "CSC", "CSC "} {
		_, err := ParseCourseKey(malformed)
		assert.NotNil(t, err, malformed)
	}
}

func TestParseComponentType(t *testing.T) {
	cases := map[string]ComponentType{"A01": Lecture, "B03": Lab, "T02": Tutorial}
	for sequence, expected := range cases {
		componentType, err := ParseComponentType(sequence)
		assert.Nil(t, err)
		assert.Equal(t, expected, componentType)
		assert.True(t, componentType.Valid())
	}

	for _, malformed := range []string{"", "X01", "a01"} {
		componentType, err := ParseComponentType(malformed)
		assert.ErrorIs(t, err, ErrMalformedType)
		assert.False(t, componentType.Valid())
	}
}

func TestSelections(t *testing.T) {
	//** Arrange
	csc := CourseKey{Subject: "CSC", Code: "111"}
	math := CourseKey{Subject: "MATH", Code: "100"}
	components := []Component{
		{Id: 20654, Course: csc, Type: Lecture},
		{Id: 20664, Course: csc, Type: Lab},
		{Id: 20670, Course: csc, Type: Tutorial},
		{Id: 21144, Course: math, Type: Lecture},
	}

	//** Act
	selections := SelectionsFromComponents(components)

	//** Assert
	assert.Len(t, selections, 2)
	assert.Equal(t, []uint64{20654, 20664, 20670}, selections[csc].Crns())
	assert.Equal(t, []uint64{21144}, selections[math].Crns())
	assert.Nil(t, selections[math].Lab)
	assert.Equal(t, []CourseKey{csc, math}, SortedCourseKeys(selections))
}
