package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/limaJavier/coursegen/pkg/model"
)

// SQLiteStore implements Store using SQLite. A database holds the catalog of a single term.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS course (
		subject_code TEXT NOT NULL,
		course_code  TEXT NOT NULL,
		title        TEXT NOT NULL,
		campus       TEXT NOT NULL,
		PRIMARY KEY (subject_code, course_code)
	) STRICT;

	CREATE TABLE IF NOT EXISTS section (
		crn                 INTEGER NOT NULL PRIMARY KEY,
		subject_code        TEXT NOT NULL,
		course_code         TEXT NOT NULL,
		sequence_code       TEXT NOT NULL,
		position            INTEGER NOT NULL,
		enrollment          INTEGER NOT NULL,
		enrollment_capacity INTEGER NOT NULL,
		waitlist            INTEGER NOT NULL,
		waitlist_capacity   INTEGER NOT NULL,
		FOREIGN KEY (subject_code, course_code) REFERENCES course(subject_code, course_code)
	) STRICT;
	CREATE INDEX IF NOT EXISTS section_subject_course ON section(subject_code, course_code);

	CREATE TABLE IF NOT EXISTS meeting_time (
		crn        INTEGER NOT NULL,
		start_time TEXT,
		end_time   TEXT,
		start_date TEXT NOT NULL,
		end_date   TEXT NOT NULL,
		monday     INTEGER NOT NULL,
		tuesday    INTEGER NOT NULL,
		wednesday  INTEGER NOT NULL,
		thursday   INTEGER NOT NULL,
		friday     INTEGER NOT NULL,
		saturday   INTEGER NOT NULL,
		sunday     INTEGER NOT NULL,
		building   TEXT,
		room       TEXT,
		FOREIGN KEY (crn) REFERENCES section(crn)
	) STRICT;
	CREATE INDEX IF NOT EXISTS meeting_time_crn ON meeting_time(crn);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Persist replaces the stored catalog with the given one in a single transaction
func (s *SQLiteStore) Persist(ctx context.Context, catalog model.Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"meeting_time", "section", "course"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %v: %w", table, err)
		}
	}

	for _, course := range catalog.Courses {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO course (subject_code, course_code, title, campus) VALUES (?, ?, ?, ?)`,
			course.Key.Subject, course.Key.Code, course.Title, course.Campus,
		)
		if err != nil {
			return fmt.Errorf("insert course \"%v\": %w", course.Key, err)
		}

		for position, component := range course.Components {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO section (
					crn, subject_code, course_code, sequence_code, position,
					enrollment, enrollment_capacity, waitlist, waitlist_capacity
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				int64(component.Id), course.Key.Subject, course.Key.Code, component.Sequence, position,
				int64(component.Enrollment), int64(component.EnrollmentCapacity),
				int64(component.Waitlist), int64(component.WaitlistCapacity),
			)
			if err != nil {
				return fmt.Errorf("insert section %d: %w", component.Id, err)
			}

			for _, meeting := range component.Meetings {
				if err := insertMeeting(ctx, tx, component.Id, meeting); err != nil {
					return fmt.Errorf("insert meeting of section %d: %w", component.Id, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertMeeting(ctx context.Context, tx *sql.Tx, crn uint64, meeting model.Meeting) error {
	args := []any{
		int64(crn),
		nullableClock(meeting.StartTime),
		nullableClock(meeting.EndTime),
		meeting.StartDate.Format(model.DateLayout),
		meeting.EndDate.Format(model.DateLayout),
	}
	for i := 0; i < 7; i++ {
		args = append(args, meeting.Days&(1<<i) != 0)
	}
	args = append(args, nullableString(meeting.Building), nullableString(meeting.Room))

	_, err := tx.ExecContext(ctx,
		`INSERT INTO meeting_time (
			crn, start_time, end_time, start_date, end_date,
			monday, tuesday, wednesday, thursday, friday, saturday, sunday,
			building, room
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	return err
}

func (s *SQLiteStore) Courses(ctx context.Context, keys []model.CourseKey) ([]model.Course, error) {
	courses := make([]model.Course, 0, len(keys))
	for _, key := range keys {
		course, err := s.course(ctx, key)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, nil
}

func (s *SQLiteStore) course(ctx context.Context, key model.CourseKey) (model.Course, error) {
	course := model.Course{Key: key}
	err := s.db.QueryRowContext(ctx,
		`SELECT title, campus FROM course WHERE subject_code = ? AND course_code = ?`,
		key.Subject, key.Code,
	).Scan(&course.Title, &course.Campus)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Course{}, fmt.Errorf("%w: \"%v\"", ErrCourseNotFound, key)
	} else if err != nil {
		return model.Course{}, fmt.Errorf("query course \"%v\": %w", key, err)
	}

	components, err := s.sections(ctx, key)
	if err != nil {
		return model.Course{}, err
	}

	for i := range components {
		meetings, err := s.meetings(ctx, components[i].Id)
		if err != nil {
			return model.Course{}, err
		}
		components[i].Meetings = meetings
	}

	course.Components = components
	return course, nil
}

func (s *SQLiteStore) sections(ctx context.Context, key model.CourseKey) ([]model.Component, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT crn, sequence_code, enrollment, enrollment_capacity, waitlist, waitlist_capacity
		FROM section
		WHERE subject_code = ? AND course_code = ?
		ORDER BY position`,
		key.Subject, key.Code,
	)
	if err != nil {
		return nil, fmt.Errorf("query sections of \"%v\": %w", key, err)
	}
	defer rows.Close()

	components := make([]model.Component, 0)
	for rows.Next() {
		var crn, enrollment, enrollmentCapacity, waitlist, waitlistCapacity int64
		component := model.Component{Course: key}
		if err := rows.Scan(&crn, &component.Sequence, &enrollment, &enrollmentCapacity, &waitlist, &waitlistCapacity); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}

		// Stored data is trusted to be classifiable, an unknown type is left for the generator to reject
		component.Type, _ = model.ParseComponentType(component.Sequence)
		component.Id = uint64(crn)
		component.Enrollment = uint64(enrollment)
		component.EnrollmentCapacity = uint64(enrollmentCapacity)
		component.Waitlist = uint64(waitlist)
		component.WaitlistCapacity = uint64(waitlistCapacity)
		components = append(components, component)
	}
	return components, rows.Err()
}

func (s *SQLiteStore) meetings(ctx context.Context, crn uint64) ([]model.Meeting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT start_time, end_time, start_date, end_date,
			monday, tuesday, wednesday, thursday, friday, saturday, sunday,
			building, room
		FROM meeting_time
		WHERE crn = ?
		ORDER BY rowid`,
		int64(crn),
	)
	if err != nil {
		return nil, fmt.Errorf("query meetings of section %d: %w", crn, err)
	}
	defer rows.Close()

	meetings := make([]model.Meeting, 0)
	for rows.Next() {
		var startTime, endTime, building, room sql.NullString
		var startDate, endDate string
		var days [7]bool
		err := rows.Scan(&startTime, &endTime, &startDate, &endDate,
			&days[0], &days[1], &days[2], &days[3], &days[4], &days[5], &days[6],
			&building, &room,
		)
		if err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}

		meeting, err := decodeMeeting(startTime, endTime, startDate, endDate, days)
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", crn, err)
		}
		meeting.Building, meeting.Room = building.String, room.String
		meetings = append(meetings, meeting)
	}
	return meetings, rows.Err()
}

func decodeMeeting(startTime, endTime sql.NullString, startDate, endDate string, days [7]bool) (model.Meeting, error) {
	var meeting model.Meeting
	for i, set := range days {
		if set {
			meeting.Days |= 1 << i
		}
	}

	var err error
	if meeting.StartTime, err = scanClock(startTime); err != nil {
		return model.Meeting{}, err
	}
	if meeting.EndTime, err = scanClock(endTime); err != nil {
		return model.Meeting{}, err
	}
	if meeting.StartDate, err = time.Parse(model.DateLayout, startDate); err != nil {
		return model.Meeting{}, fmt.Errorf("invalid start date: %v", err)
	}
	if meeting.EndDate, err = time.Parse(model.DateLayout, endDate); err != nil {
		return model.Meeting{}, fmt.Errorf("invalid end date: %v", err)
	}
	return meeting, nil
}

func (s *SQLiteStore) Keys(ctx context.Context) ([]model.CourseKey, error) {
	return s.queryKeys(ctx, `SELECT subject_code, course_code FROM course ORDER BY rowid`)
}

func (s *SQLiteStore) Search(ctx context.Context, query string) ([]model.CourseKey, error) {
	query = strings.TrimSpace(query)
	return s.queryKeys(ctx,
		`SELECT subject_code, course_code
		FROM course
		WHERE subject_code || course_code LIKE '%' || ?1 || '%'
		   OR subject_code || ' ' || course_code LIKE '%' || ?1 || '%'
		ORDER BY rowid`,
		query,
	)
}

func (s *SQLiteStore) queryKeys(ctx context.Context, query string, args ...any) ([]model.CourseKey, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	keys := make([]model.CourseKey, 0)
	for rows.Next() {
		var key model.CourseKey
		if err := rows.Scan(&key.Subject, &key.Code); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullableClock(clock *model.Clock) any {
	if clock == nil {
		return nil
	}
	return clock.String()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func scanClock(s sql.NullString) (*model.Clock, error) {
	if !s.Valid {
		return nil, nil
	}
	clock, err := model.ParseClock(s.String)
	if err != nil {
		return nil, err
	}
	return &clock, nil
}
