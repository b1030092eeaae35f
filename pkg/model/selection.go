package model

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Selection records which component a student picked for every slot of one course
type Selection struct {
	Lecture  uint64  `json:"lecture"`
	Lab      *uint64 `json:"lab,omitempty"`
	Tutorial *uint64 `json:"tutorial,omitempty"`
}

// Crns returns the selected CRNs in lecture, lab, tutorial order
func (selection Selection) Crns() []uint64 {
	crns := []uint64{selection.Lecture}
	if selection.Lab != nil {
		crns = append(crns, *selection.Lab)
	}
	if selection.Tutorial != nil {
		crns = append(crns, *selection.Tutorial)
	}
	return crns
}

// Folds a generated schedule into one selection per course
func SelectionsFromComponents(components []Component) map[CourseKey]Selection {
	selections := make(map[CourseKey]Selection)
	for _, component := range components {
		selection := selections[component.Course]
		id := component.Id
		switch component.Type {
		case Lecture:
			selection.Lecture = id
		case Lab:
			selection.Lab = &id
		case Tutorial:
			selection.Tutorial = &id
		}
		selections[component.Course] = selection
	}
	return selections
}

// SortedCourseKeys returns the keys of a selection map in "SUBJECT CODE" order
func SortedCourseKeys(selections map[CourseKey]Selection) []CourseKey {
	keys := lo.Keys(selections)
	slices.SortFunc(keys, func(a, b CourseKey) int {
		return strings.Compare(a.String(), b.String())
	})
	return keys
}
