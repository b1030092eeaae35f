package model

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
)

// CsvMeetingRow is one line of a flat catalog export: one row per meeting, section and course
// columns repeated on every row of the same CRN. A section without meetings has empty days and dates.
type CsvMeetingRow struct {
	Subject            string `csv:"subject"`
	Code               string `csv:"code"`
	Title              string `csv:"title"`
	Campus             string `csv:"campus"`
	Crn                uint64 `csv:"crn"`
	Sequence           string `csv:"sequence"`
	Enrollment         uint64 `csv:"enrollment"`
	EnrollmentCapacity uint64 `csv:"enrollment_capacity"`
	Waitlist           uint64 `csv:"waitlist"`
	WaitlistCapacity   uint64 `csv:"waitlist_capacity"`
	Days               string `csv:"days"`
	StartTime          string `csv:"start_time"`
	EndTime            string `csv:"end_time"`
	StartDate          string `csv:"start_date"`
	EndDate            string `csv:"end_date"`
	Building           string `csv:"building"`
	Room               string `csv:"room"`
}

func CatalogFromCsvFile(file string, delimiter rune) (Catalog, error) {
	csvFile, err := os.Open(file)
	if err != nil {
		return Catalog{}, fmt.Errorf("cannot open catalog file: %v", err)
	}
	defer csvFile.Close()

	return CatalogFromCsv(csvFile, delimiter)
}

func CatalogFromCsv(in io.Reader, delimiter rune) (Catalog, error) {
	reader := csv.NewReader(in)
	reader.Comma = delimiter
	reader.TrimLeadingSpace = true

	rows := []*CsvMeetingRow{}
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return Catalog{}, fmt.Errorf("cannot parse catalog csv: %v", err)
	}

	rawCatalog, err := rawCatalogFromRows(rows)
	if err != nil {
		return Catalog{}, err
	}
	return ProcessRawCatalog(rawCatalog)
}

// Folds flat rows back into the nested raw catalog, keeping first-seen order of courses and sections
func rawCatalogFromRows(rows []*CsvMeetingRow) (RawCatalog, error) {
	rawCatalog := RawCatalog{Courses: []RawCourse{}}
	courseIndex := make(map[string]int)
	sectionIndex := make(map[uint64][2]int)

	for line, row := range rows {
		courseName := strings.ToUpper(strings.TrimSpace(row.Subject)) + " " + strings.ToUpper(strings.TrimSpace(row.Code))

		i, ok := courseIndex[courseName]
		if !ok {
			i = len(rawCatalog.Courses)
			courseIndex[courseName] = i
			rawCatalog.Courses = append(rawCatalog.Courses, RawCourse{
				Subject:  row.Subject,
				Code:     row.Code,
				Title:    row.Title,
				Campus:   row.Campus,
				Sections: []RawSection{},
			})
		}

		position, ok := sectionIndex[row.Crn]
		if !ok {
			position = [2]int{i, len(rawCatalog.Courses[i].Sections)}
			sectionIndex[row.Crn] = position
			rawCatalog.Courses[i].Sections = append(rawCatalog.Courses[i].Sections, RawSection{
				Crn:                row.Crn,
				Sequence:           row.Sequence,
				Enrollment:         row.Enrollment,
				EnrollmentCapacity: row.EnrollmentCapacity,
				Waitlist:           row.Waitlist,
				WaitlistCapacity:   row.WaitlistCapacity,
				Meetings:           []RawMeeting{},
			})
		} else if position[0] != i {
			return RawCatalog{}, fmt.Errorf("line %d: CRN %d belongs to \"%v\" and \"%v\"", line+2, row.Crn, rawCatalog.Courses[position[0]].Subject+" "+rawCatalog.Courses[position[0]].Code, courseName)
		}

		if row.Days == "" && row.StartDate == "" && row.EndDate == "" {
			continue
		}

		section := &rawCatalog.Courses[position[0]].Sections[position[1]]
		section.Meetings = append(section.Meetings, RawMeeting{
			Days:      row.Days,
			StartTime: row.StartTime,
			EndTime:   row.EndTime,
			StartDate: row.StartDate,
			EndDate:   row.EndDate,
			Building:  row.Building,
			Room:      row.Room,
		})
	}

	return rawCatalog, nil
}
