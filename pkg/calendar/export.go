// Package calendar renders schedules as iCalendar documents.
package calendar

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/limaJavier/coursegen/pkg/model"
)

const (
	productId    = "-//coursegen//schedule export//EN"
	localLayout  = "20060102T150405"
	untilHour    = 23
	untilMinute  = 59
	untilSeconds = 59
)

var weekdays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// Export builds a calendar with one weekly recurring event per timed meeting of the schedule, in
// the given location. Meetings without a time window, or that never occur, are left out.
func Export(schedule []model.Component, location *time.Location) (string, error) {
	if location == nil {
		location = time.UTC
	}

	calendar := ical.NewCalendar()
	calendar.SetProductId(productId)
	calendar.SetMethod(ical.MethodPublish)

	stamp := time.Now().UTC()
	for _, component := range schedule {
		for i, meeting := range component.Meetings {
			if !meeting.Timed() || meeting.Days == 0 {
				continue
			}

			occurrence, err := newOccurrence(meeting, location)
			if err != nil {
				return "", fmt.Errorf("section %d: %v", component.Id, err)
			} else if occurrence == nil {
				continue
			}

			event := calendar.AddEvent(fmt.Sprintf("%d-%d@coursegen", component.Id, i))
			event.SetDtStampTime(stamp)
			tzid := &ical.KeyValues{Key: string(ical.ParameterTzid), Value: []string{location.String()}}
			event.SetProperty(ical.ComponentPropertyDtStart, occurrence.start.Format(localLayout), tzid)
			event.SetProperty(ical.ComponentPropertyDtEnd, occurrence.end.Format(localLayout), tzid)
			event.AddProperty(ical.ComponentPropertyRrule, occurrence.rule)
			event.SetSummary(fmt.Sprintf("%v %v (%v)", component.Course, component.Sequence, component.Type))
			event.SetDescription(fmt.Sprintf("CRN %d", component.Id))
			if where := strings.TrimSpace(meeting.Building + " " + meeting.Room); where != "" {
				event.SetLocation(where)
			}
		}
	}

	return calendar.Serialize(), nil
}

type occurrence struct {
	start time.Time // First occurrence
	end   time.Time
	rule  string // RRULE value
}

// Computes the first occurrence of a timed meeting and its weekly recurrence rule. Returns nil when
// the meeting's days never fall within its date range.
func newOccurrence(meeting model.Meeting, location *time.Location) (*occurrence, error) {
	byWeekday := make([]rrule.Weekday, 0, 7)
	for _, weekday := range meeting.Days.Weekdays() {
		byWeekday = append(byWeekday, weekdays[weekday])
	}

	option := rrule.ROption{
		Freq:      rrule.WEEKLY,
		Until:     time.Date(meeting.EndDate.Year(), meeting.EndDate.Month(), meeting.EndDate.Day(), untilHour, untilMinute, untilSeconds, 0, location),
		Byweekday: byWeekday,
	}

	// DTSTART is a property of its own in the event, so the RRULE value is taken before setting it
	ruleString := option.RRuleString()
	dtstart := meeting.StartTime.On(meeting.StartDate, location)
	option.Dtstart = dtstart
	rule, err := rrule.NewRRule(option)
	if err != nil {
		return nil, err
	}

	first := rule.After(dtstart, true)
	if first.IsZero() {
		return nil, nil
	}

	return &occurrence{
		start: first,
		end:   meeting.EndTime.On(first, location),
		rule:  ruleString,
	}, nil
}
