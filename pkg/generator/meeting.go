package generator

import (
	"time"

	"github.com/limaJavier/coursegen/pkg/model"
	"github.com/samber/lo"
)

const secondsPerDay = 24 * 60 * 60

// meeting is the compact form of model.Meeting the conflict predicate works on
type meeting struct {
	startDate int32 // Days since the Unix epoch
	endDate   int32
	days      model.Days
	startTime model.Clock
	endTime   model.Clock
	timed     bool // False for asynchronous meetings (no concrete time window)
}

func newMeeting(m model.Meeting) meeting {
	normalized := meeting{
		startDate: dayOrdinal(m.StartDate),
		endDate:   dayOrdinal(m.EndDate),
		days:      m.Days,
		timed:     m.Timed(),
	}
	if normalized.timed {
		normalized.startTime, normalized.endTime = *m.StartTime, *m.EndTime
	}
	return normalized
}

func dayOrdinal(date time.Time) int32 {
	civil := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return int32(civil.Unix() / secondsPerDay)
}

// Checks whether two meetings can not coexist in the same schedule
func (a meeting) conflicts(b meeting) bool {
	// No conflict in term
	if a.endDate < b.startDate || b.endDate < a.startDate {
		return false
	}
	// No conflict in week
	if !a.days.Intersects(b.days) {
		return false
	}
	// An asynchronous meeting has no clock time to overlap with
	if !a.timed || !b.timed {
		return false
	}
	// No conflict in day
	return !(a.endTime < b.startTime || b.endTime < a.startTime)
}

// candidate is a component together with its normalized meetings
type candidate struct {
	component model.Component
	meetings  []meeting
}

func newCandidate(component model.Component) candidate {
	return candidate{
		component: component,
		meetings:  lo.Map(component.Meetings, func(m model.Meeting, _ int) meeting { return newMeeting(m) }),
	}
}

// Checks whether any meeting of a conflicts with any meeting of b
func (a candidate) conflicts(b candidate) bool {
	return lo.SomeBy(a.meetings, func(aMeeting meeting) bool {
		return lo.SomeBy(b.meetings, func(bMeeting meeting) bool {
			return aMeeting.conflicts(bMeeting)
		})
	})
}

// MeetingsConflict checks whether two meetings overlap in date range, weekday and time of day.
// Meetings without a concrete time window never conflict.
func MeetingsConflict(a, b model.Meeting) bool {
	return newMeeting(a).conflicts(newMeeting(b))
}

// ComponentsConflict checks whether any meeting of a conflicts with any meeting of b
func ComponentsConflict(a, b model.Component) bool {
	return newCandidate(a).conflicts(newCandidate(b))
}
