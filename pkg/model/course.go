package model

import (
	"fmt"
	"strings"
	"time"
)

// CourseKey identifies a course within a term, e.g. {"CSC", "111"}
type CourseKey struct {
	Subject string
	Code    string
}

func ParseCourseKey(s string) (CourseKey, error) {
	subject, code, ok := strings.Cut(strings.TrimSpace(s), " ")
	subject, code = strings.TrimSpace(subject), strings.TrimSpace(code)
	if !ok || subject == "" || code == "" {
		return CourseKey{}, fmt.Errorf("invalid course \"%v\": expected \"SUBJECT CODE\"", s)
	}
	return CourseKey{Subject: strings.ToUpper(subject), Code: strings.ToUpper(code)}, nil
}

func (key CourseKey) String() string {
	return key.Subject + " " + key.Code
}

type Course struct {
	Key        CourseKey
	Title      string
	Campus     string
	Components []Component
}

// Component is a single schedulable offering (a lecture, lab or tutorial section) of a course
type Component struct {
	Id                 uint64 // CRN
	Course             CourseKey
	Sequence           string
	Type               ComponentType
	Enrollment         uint64
	EnrollmentCapacity uint64
	Waitlist           uint64
	WaitlistCapacity   uint64
	Meetings           []Meeting
}

// Checks whether the component has no seat left (either full or with people already waiting)
func (component Component) Full() bool {
	return component.Enrollment >= component.EnrollmentCapacity || component.Waitlist > 0
}

// Meeting is one recurring occurrence of a component. StartTime and EndTime are nil for
// asynchronous meetings. Dates are civil dates (midnight UTC).
type Meeting struct {
	Days      Days
	StartTime *Clock
	EndTime   *Clock
	StartDate time.Time
	EndDate   time.Time
	Building  string
	Room      string
}

// Checks whether the meeting has a concrete time window
func (meeting Meeting) Timed() bool {
	return meeting.StartTime != nil && meeting.EndTime != nil
}

func (meeting Meeting) String() string {
	if !meeting.Timed() {
		return fmt.Sprintf("%v: TBA", meeting.Days)
	}
	return fmt.Sprintf("%v: %v - %v", meeting.Days, *meeting.StartTime, *meeting.EndTime)
}
