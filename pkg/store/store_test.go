package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/limaJavier/coursegen/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogFile = "../model/testdata/catalog.json"

var (
	csc  = model.CourseKey{Subject: "CSC", Code: "111"}
	math = model.CourseKey{Subject: "MATH", Code: "100"}
	engl = model.CourseKey{Subject: "ENGL", Code: "135"}
)

func loadCatalog(t *testing.T) model.Catalog {
	t.Helper()
	catalog, err := model.CatalogFromJson(catalogFile)
	require.Nil(t, err)
	return catalog
}

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "catalog.db"))
	require.Nil(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStores(t *testing.T) {
	catalog := loadCatalog(t)
	sqlite := newTestStore(t)
	require.Nil(t, sqlite.Persist(context.Background(), catalog))

	stores := map[string]Store{
		"Catalog": NewCatalogStore(catalog),
		"SQLite":  sqlite,
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("Courses in requested order", func(t *testing.T) {
				//** Act
				courses, err := store.Courses(ctx, []model.CourseKey{math, csc})

				//** Assert
				require.Nil(t, err)
				require.Len(t, courses, 2)
				expectedMath, _ := catalog.Course(math)
				expectedCsc, _ := catalog.Course(csc)
				assert.Equal(t, expectedMath, courses[0])
				assert.Equal(t, expectedCsc, courses[1])
			})

			t.Run("Untimed meetings survive", func(t *testing.T) {
				courses, err := store.Courses(ctx, []model.CourseKey{engl})
				require.Nil(t, err)
				assert.False(t, courses[0].Components[0].Meetings[0].Timed())
				assert.Len(t, courses[0].Components[1].Meetings, 2)
			})

			t.Run("Unknown course", func(t *testing.T) {
				_, err := store.Courses(ctx, []model.CourseKey{csc, {Subject: "CSC", Code: "999"}})
				assert.ErrorIs(t, err, ErrCourseNotFound)
			})

			t.Run("Keys", func(t *testing.T) {
				keys, err := store.Keys(ctx)
				require.Nil(t, err)
				assert.Equal(t, []model.CourseKey{csc, math, engl}, keys)
			})

			t.Run("Search", func(t *testing.T) {
				for query, expected := range map[string][]model.CourseKey{
					"csc 1":   {csc},
					"MATH100": {math},
					"1":       {csc, math, engl},
					"phys":    {},
				} {
					keys, err := store.Search(ctx, query)
					require.Nil(t, err)
					assert.Equal(t, expected, keys, query)
				}
			})
		})
	}
}

func TestSQLiteStorePersistReplaces(t *testing.T) {
	//** Arrange
	ctx := context.Background()
	s := newTestStore(t)
	catalog := loadCatalog(t)
	require.Nil(t, s.Persist(ctx, catalog))

	//** Act
	catalog.Courses = catalog.Courses[:1]
	err := s.Persist(ctx, catalog)

	//** Assert
	require.Nil(t, err)
	keys, err := s.Keys(ctx)
	require.Nil(t, err)
	assert.Equal(t, []model.CourseKey{csc}, keys)
}

func TestSQLiteStoreReopen(t *testing.T) {
	//** Arrange
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "catalog.db")
	s, err := NewSQLiteStore(path)
	require.Nil(t, err)
	require.Nil(t, s.Persist(ctx, loadCatalog(t)))
	require.Nil(t, s.Close())

	//** Act
	reopened, err := NewSQLiteStore(path)
	require.Nil(t, err)
	defer reopened.Close()
	courses, err := reopened.Courses(ctx, []model.CourseKey{csc})

	//** Assert
	require.Nil(t, err)
	assert.Len(t, courses[0].Components, 5)
}

func TestSQLiteStoreRejectsDuplicateCrn(t *testing.T) {
	//** Arrange
	ctx := context.Background()
	s := newTestStore(t)
	catalog := loadCatalog(t)
	require.Nil(t, s.Persist(ctx, catalog))
	duplicated := catalog
	duplicated.Courses = append([]model.Course{}, catalog.Courses...)
	duplicated.Courses[1].Components = append([]model.Component{}, duplicated.Courses[1].Components...)
	duplicated.Courses[1].Components[0].Id = duplicated.Courses[0].Components[0].Id

	//** Act
	err := s.Persist(ctx, duplicated)

	//** Assert
	assert.NotNil(t, err)
	keys, _ := s.Keys(ctx)
	assert.Len(t, keys, 3) // The previous catalog is kept
}
