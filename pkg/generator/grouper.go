package generator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/limaJavier/coursegen/pkg/model"
	"github.com/samber/lo"
)

var (
	ErrEmptyCourse    = errors.New("course has no components")
	ErrMissingLecture = errors.New("course has no lecture sections")
)

// Direction in which schedules are enumerated
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (direction Direction) String() string {
	if direction == Backward {
		return "backward"
	}
	return "forward"
}

type groupKey struct {
	course        model.CourseKey
	componentType model.ComponentType
}

// Group holds the mutually exclusive alternatives for one (course, type) slot
type Group struct {
	Course     model.CourseKey
	Type       model.ComponentType
	candidates []candidate
}

func (group Group) Len() int {
	return len(group.candidates)
}

func (group Group) Components() []model.Component {
	return lo.Map(group.candidates, func(c candidate, _ int) model.Component { return c.component })
}

// Returns the position of the component with the given id within the group
func (group Group) indexOf(id uint64) (int, bool) {
	index := slices.IndexFunc(group.candidates, func(c candidate) bool { return c.component.Id == id })
	return index, index >= 0
}

type Groups []Group

// Returns the number of options of every group, in group order
func (groups Groups) radices() []int {
	return lo.Map(groups, func(group Group, _ int) int { return group.Len() })
}

// Returns the components selected by a full cursor
func (groups Groups) components(cursor Cursor) []model.Component {
	return lo.Map(cursor, func(index int, g int) model.Component {
		return groups[g].candidates[index].component
	})
}

// Partitions the components of courses into one group per (course, type), keeping first-seen order
// of the keys and store order within each group. A course selected twice only counts once.
// Backward enumeration reverses every group.
func buildGroups(courses []model.Course, direction Direction) (Groups, error) {
	groups := make(Groups, 0, len(courses))
	positions := make(map[groupKey]int)
	seen := make(map[model.CourseKey]bool, len(courses))

	for _, course := range courses {
		if seen[course.Key] {
			continue
		}
		seen[course.Key] = true

		// A selected course always contributes its primary group, an empty one means the store lost data
		if len(course.Components) == 0 {
			return nil, fmt.Errorf("%w: \"%v\"", ErrEmptyCourse, course.Key)
		}

		for _, component := range course.Components {
			if !component.Type.Valid() {
				return nil, fmt.Errorf("course \"%v\", section %d (\"%v\"): %w", course.Key, component.Id, component.Sequence, model.ErrMalformedType)
			}

			key := groupKey{course: course.Key, componentType: component.Type}
			position, ok := positions[key]
			if !ok {
				position = len(groups)
				positions[key] = position
				groups = append(groups, Group{Course: course.Key, Type: component.Type})
			}
			groups[position].candidates = append(groups[position].candidates, newCandidate(component))
		}

		if _, ok := positions[groupKey{course: course.Key, componentType: model.Lecture}]; !ok {
			return nil, fmt.Errorf("%w: \"%v\"", ErrMissingLecture, course.Key)
		}
	}

	if direction == Backward {
		for _, group := range groups {
			slices.Reverse(group.candidates)
		}
	}

	return groups, nil
}
