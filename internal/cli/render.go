package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"

	"github.com/limaJavier/coursegen/pkg/calendar"
	"github.com/limaJavier/coursegen/pkg/generator"
	"github.com/limaJavier/coursegen/pkg/model"
)

var formats = []string{"json", "text", "ics"}

type meetingView struct {
	Days     string `json:"days"`
	Time     string `json:"time"`
	Dates    string `json:"dates"`
	Location string `json:"location,omitempty"`
}

type componentView struct {
	Crn        uint64        `json:"crn"`
	Course     string        `json:"course"`
	Sequence   string        `json:"sequence"`
	Type       string        `json:"type"`
	Enrollment string        `json:"enrollment"`
	Waitlist   string        `json:"waitlist"`
	Full       bool          `json:"full"`
	Meetings   []meetingView `json:"meetings"`
}

type pageView struct {
	State       string                     `json:"state"`
	Next        string                     `json:"next"`
	Previous    string                     `json:"prev"`
	Rank        string                     `json:"rank,omitempty"`
	SearchSpace string                     `json:"searchSpace,omitempty"`
	Selections  map[string]model.Selection `json:"selections"`
	Schedule    []componentView            `json:"schedule"`
}

func newMeetingView(meeting model.Meeting) meetingView {
	view := meetingView{
		Days:     strings.ToUpper(meeting.Days.String()),
		Time:     "TBA",
		Dates:    meeting.StartDate.Format(model.DateLayout) + "/" + meeting.EndDate.Format(model.DateLayout),
		Location: strings.TrimSpace(meeting.Building + " " + meeting.Room),
	}
	if meeting.Timed() {
		view.Time = fmt.Sprintf("%v-%v", *meeting.StartTime, *meeting.EndTime)
	}
	return view
}

func newComponentView(component model.Component) componentView {
	return componentView{
		Crn:        component.Id,
		Course:     component.Course.String(),
		Sequence:   component.Sequence,
		Type:       component.Type.String(),
		Enrollment: fmt.Sprintf("%d/%d", component.Enrollment, component.EnrollmentCapacity),
		Waitlist:   fmt.Sprintf("%d/%d", component.Waitlist, component.WaitlistCapacity),
		Full:       component.Full(),
		Meetings:   lo.Map(component.Meetings, func(m model.Meeting, _ int) meetingView { return newMeetingView(m) }),
	}
}

func newPageView(page *generator.Page) pageView {
	selections := make(map[string]model.Selection)
	for key, selection := range model.SelectionsFromComponents(page.Schedule) {
		selections[key.String()] = selection
	}
	return pageView{
		State:       page.State,
		Next:        page.Next.Query(),
		Previous:    page.Previous.Query(),
		Rank:        page.Rank.String(),
		SearchSpace: page.SearchSpace.String(),
		Selections:  selections,
		Schedule:    lo.Map(page.Schedule, func(c model.Component, _ int) componentView { return newComponentView(c) }),
	}
}

// Writes a schedule page in the requested format
func render(out io.Writer, format string, page *generator.Page, env *environment) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(newPageView(page))
	case "text":
		fmt.Fprintf(out, "Schedule %v of %v (state %v)\n", page.Rank, page.SearchSpace, page.State)
		renderSelections(out, page.Schedule)
		return renderText(out, page.Schedule)
	case "ics":
		return renderCalendar(out, page.Schedule, env)
	default:
		return fmt.Errorf("invalid format \"%v\": allowed values are %v", format, formats)
	}
}

// Writes one line per course with its selected CRNs, e.g. "CSC 111: 20654 20664 20670"
func renderSelections(out io.Writer, schedule []model.Component) {
	selections := model.SelectionsFromComponents(schedule)
	for _, key := range model.SortedCourseKeys(selections) {
		crns := lo.Map(selections[key].Crns(), func(crn uint64, _ int) string { return strconv.FormatUint(crn, 10) })
		fmt.Fprintf(out, "%v: %v\n", key, strings.Join(crns, " "))
	}
	fmt.Fprintln(out)
}

func renderText(out io.Writer, schedule []model.Component) error {
	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, component := range schedule {
		view := newComponentView(component)
		full := ""
		if view.Full {
			full = "FULL"
		}
		if len(view.Meetings) == 0 {
			fmt.Fprintf(writer, "%v\t%v\t%v\t%d\t\t\t\t%v\n", view.Course, view.Sequence, view.Type, view.Crn, full)
		}
		for _, meeting := range view.Meetings {
			fmt.Fprintf(writer, "%v\t%v\t%v\t%d\t%v\t%v\t%v\t%v\n", view.Course, view.Sequence, view.Type, view.Crn, meeting.Days, meeting.Time, meeting.Location, full)
		}
	}
	return writer.Flush()
}

func renderCalendar(out io.Writer, schedule []model.Component, env *environment) error {
	location, err := env.location()
	if err != nil {
		return err
	}
	serialized, err := calendar.Export(schedule, location)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, serialized)
	return err
}

// Runs write against the file at path, or against fallback when path is empty
func withOutput(path string, fallback io.Writer, write func(io.Writer) error) error {
	if path == "" {
		return write(fallback)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create output file: %v", err)
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
