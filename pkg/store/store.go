// Package store provides read access to the course catalog of a term.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/limaJavier/coursegen/pkg/model"
	"github.com/samber/lo"
)

var ErrCourseNotFound = errors.New("course not found")

// Store defines the catalog lookup interface the generator is fed from
type Store interface {
	// Courses returns the requested courses in key order, each with its components in catalog order
	Courses(ctx context.Context, keys []model.CourseKey) ([]model.Course, error)

	// Keys lists every course of the catalog
	Keys(ctx context.Context) ([]model.CourseKey, error)

	// Search lists the courses whose "SUBJECT CODE" (or "SUBJECTCODE") contains query, case-insensitive
	Search(ctx context.Context, query string) ([]model.CourseKey, error)

	// Close closes the store
	Close() error
}

type catalogStore struct {
	catalog model.Catalog
	index   map[model.CourseKey]int
}

// NewCatalogStore serves courses straight from an in-memory catalog
func NewCatalogStore(catalog model.Catalog) Store {
	index := make(map[model.CourseKey]int, len(catalog.Courses))
	for i, course := range catalog.Courses {
		index[course.Key] = i
	}
	return &catalogStore{catalog: catalog, index: index}
}

func (s *catalogStore) Courses(ctx context.Context, keys []model.CourseKey) ([]model.Course, error) {
	courses := make([]model.Course, 0, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		i, ok := s.index[key]
		if !ok {
			return nil, fmt.Errorf("%w: \"%v\"", ErrCourseNotFound, key)
		}
		course := s.catalog.Courses[i]
		course.Components = slices.Clone(course.Components)
		courses = append(courses, course)
	}
	return courses, nil
}

func (s *catalogStore) Keys(ctx context.Context) ([]model.CourseKey, error) {
	return lo.Map(s.catalog.Courses, func(course model.Course, _ int) model.CourseKey { return course.Key }), nil
}

func (s *catalogStore) Search(ctx context.Context, query string) ([]model.CourseKey, error) {
	keys, _ := s.Keys(ctx)
	return lo.Filter(keys, func(key model.CourseKey, _ int) bool { return matches(key, query) }), nil
}

func matches(key model.CourseKey, query string) bool {
	query = strings.ToUpper(strings.TrimSpace(query))
	return strings.Contains(key.String(), query) || strings.Contains(key.Subject+key.Code, query)
}

func (s *catalogStore) Close() error {
	return nil
}
