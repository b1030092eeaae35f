package model

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

const DateLayout = "2006-01-02"

type RawMeeting struct {
	Days      string
	StartTime string
	EndTime   string
	StartDate string
	EndDate   string
	Building  string
	Room      string
}

type RawSection struct {
	Crn                uint64
	Sequence           string
	Enrollment         uint64
	EnrollmentCapacity uint64
	Waitlist           uint64
	WaitlistCapacity   uint64
	Meetings           []RawMeeting
}

type RawCourse struct {
	Subject  string
	Code     string
	Title    string
	Campus   string
	Sections []RawSection
}

type RawCatalog struct {
	Term    string
	Courses []RawCourse
}

// Catalog holds every course offered during a term, in registrar order
type Catalog struct {
	Term    string
	Courses []Course
}

func (catalog Catalog) Course(key CourseKey) (Course, bool) {
	return lo.Find(catalog.Courses, func(course Course) bool {
		return course.Key == key
	})
}

func CatalogFromJson(file string) (Catalog, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Catalog{}, fmt.Errorf("cannot read catalog file: %v", err)
	}

	var catalogJson map[string]any
	if err := json.Unmarshal(bytes, &catalogJson); err != nil {
		return Catalog{}, err
	}

	var rawCatalog RawCatalog
	if err := mapstructure.Decode(catalogJson, &rawCatalog); err != nil {
		return Catalog{}, fmt.Errorf("cannot decode catalog: %v", err)
	}
	return ProcessRawCatalog(rawCatalog)
}

func ProcessRawCatalog(rawCatalog RawCatalog) (Catalog, error) {
	catalog := Catalog{
		Term:    rawCatalog.Term,
		Courses: make([]Course, 0, len(rawCatalog.Courses)),
	}

	seenCourses := make(map[CourseKey]bool)
	seenCrns := make(map[uint64]CourseKey)
	for _, rawCourse := range rawCatalog.Courses {
		//** Manage course
		key, err := ParseCourseKey(rawCourse.Subject + " " + rawCourse.Code)
		if err != nil {
			return Catalog{}, err
		}
		// Make sure every course is listed once, otherwise its components would be split in two
		if seenCourses[key] {
			return Catalog{}, fmt.Errorf("duplicate course \"%v\"", key)
		}
		seenCourses[key] = true

		course := Course{
			Key:        key,
			Title:      rawCourse.Title,
			Campus:     rawCourse.Campus,
			Components: make([]Component, 0, len(rawCourse.Sections)),
		}

		//** Manage sections
		for _, rawSection := range rawCourse.Sections {
			// Make sure a CRN identifies a single component across the whole catalog
			if owner, ok := seenCrns[rawSection.Crn]; ok {
				return Catalog{}, fmt.Errorf("duplicate CRN %d in courses \"%v\" and \"%v\"", rawSection.Crn, owner, key)
			}
			seenCrns[rawSection.Crn] = key

			component, err := processRawSection(key, rawSection)
			if err != nil {
				return Catalog{}, fmt.Errorf("course \"%v\": %w", key, err)
			}
			course.Components = append(course.Components, component)
		}

		catalog.Courses = append(catalog.Courses, course)
	}

	return catalog, nil
}

func processRawSection(course CourseKey, rawSection RawSection) (Component, error) {
	componentType, err := ParseComponentType(rawSection.Sequence)
	if err != nil {
		return Component{}, fmt.Errorf("section %d: %w", rawSection.Crn, err)
	}

	meetings := make([]Meeting, 0, len(rawSection.Meetings))
	for _, rawMeeting := range rawSection.Meetings {
		meeting, err := processRawMeeting(rawMeeting)
		if err != nil {
			return Component{}, fmt.Errorf("section %d: %w", rawSection.Crn, err)
		}
		meetings = append(meetings, meeting)
	}

	return Component{
		Id:                 rawSection.Crn,
		Course:             course,
		Sequence:           rawSection.Sequence,
		Type:               componentType,
		Enrollment:         rawSection.Enrollment,
		EnrollmentCapacity: rawSection.EnrollmentCapacity,
		Waitlist:           rawSection.Waitlist,
		WaitlistCapacity:   rawSection.WaitlistCapacity,
		Meetings:           meetings,
	}, nil
}

func processRawMeeting(rawMeeting RawMeeting) (Meeting, error) {
	days, err := ParseDays(rawMeeting.Days)
	if err != nil {
		return Meeting{}, err
	}
	startTime, err := parseOptionalClock(rawMeeting.StartTime)
	if err != nil {
		return Meeting{}, err
	}
	endTime, err := parseOptionalClock(rawMeeting.EndTime)
	if err != nil {
		return Meeting{}, err
	}
	if startTime != nil && endTime != nil && *endTime < *startTime {
		return Meeting{}, fmt.Errorf("meeting ends (%v) before it starts (%v)", *endTime, *startTime)
	}

	startDate, err := time.Parse(DateLayout, rawMeeting.StartDate)
	if err != nil {
		return Meeting{}, fmt.Errorf("invalid start date: %v", err)
	}
	endDate, err := time.Parse(DateLayout, rawMeeting.EndDate)
	if err != nil {
		return Meeting{}, fmt.Errorf("invalid end date: %v", err)
	}
	if endDate.Before(startDate) {
		return Meeting{}, fmt.Errorf("meeting date range ends (%v) before it starts (%v)", rawMeeting.EndDate, rawMeeting.StartDate)
	}

	return Meeting{
		Days:      days,
		StartTime: startTime,
		EndTime:   endTime,
		StartDate: startDate,
		EndDate:   endDate,
		Building:  rawMeeting.Building,
		Room:      rawMeeting.Room,
	}, nil
}
