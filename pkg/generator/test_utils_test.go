package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/limaJavier/coursegen/pkg/model"
)

var (
	termStart = date("2024-09-04")
	termEnd   = date("2024-12-02")
)

func date(s string) time.Time {
	parsed, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return parsed
}

func clock(s string) *model.Clock {
	parsed, err := model.ParseClock(s)
	if err != nil {
		panic(err)
	}
	return &parsed
}

// Builds a meeting recurring during the whole term
func timed(days model.Days, start, end string) model.Meeting {
	return model.Meeting{
		Days:      days,
		StartTime: clock(start),
		EndTime:   clock(end),
		StartDate: termStart,
		EndDate:   termEnd,
	}
}

func asynchronous(days model.Days) model.Meeting {
	return model.Meeting{
		Days:      days,
		StartDate: termStart,
		EndDate:   termEnd,
	}
}

func component(id uint64, sequence string, meetings ...model.Meeting) model.Component {
	componentType, err := model.ParseComponentType(sequence)
	if err != nil {
		panic(err)
	}
	return model.Component{
		Id:                 id,
		Sequence:           sequence,
		Type:               componentType,
		EnrollmentCapacity: 100,
		Meetings:           meetings,
	}
}

func course(key string, components ...model.Component) model.Course {
	courseKey, err := model.ParseCourseKey(key)
	if err != nil {
		panic(err)
	}
	for i := range components {
		components[i].Course = courseKey
	}
	return model.Course{Key: courseKey, Components: components}
}

func ids(components []model.Component) []uint64 {
	result := make([]uint64, len(components))
	for i, component := range components {
		result[i] = component.Id
	}
	return result
}

// Builds a random selection of courses whose meetings are packed into a few hours of the week,
// so that conflicts are frequent
func randomCourses(random *rand.Rand, total int) []model.Course {
	nextId := uint64(10000)
	courses := make([]model.Course, 0, total)
	for c := 0; c < total; c++ {
		components := make([]model.Component, 0)
		for _, prefix := range []string{"A", "B", "T"} {
			if prefix != "A" && random.Intn(2) == 0 {
				continue
			}
			for s, n := 0, random.Intn(3)+1; s < n; s++ {
				days := model.Days(1<<random.Intn(5)) | model.Days(1<<random.Intn(5))
				start := 8*60 + 30*random.Intn(8)
				meeting := timed(days,
					fmt.Sprintf("%02d:%02d", start/60, start%60),
					fmt.Sprintf("%02d:%02d", (start+50)/60, (start+50)%60),
				)
				components = append(components, component(nextId, fmt.Sprintf("%v%02d", prefix, s+1), meeting))
				nextId++
			}
		}
		courses = append(courses, course(fmt.Sprintf("CSC %d", 100+c), components...))
	}
	return courses
}

// Walks the whole enumeration from the first leaf until exhaustion
func walk(groups Groups, prior Cursor) []Cursor {
	enumerator := newEnumerator(groups, newConflictEvaluator(groups))
	leaves := make([]Cursor, 0)
	for leaf := enumerator.advance(prior); leaf != nil; leaf = enumerator.advance(leaf) {
		leaves = append(leaves, leaf)
	}
	return leaves
}
