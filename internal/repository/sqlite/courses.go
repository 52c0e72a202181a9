package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/steelfist/internal/model"
	"github.com/Shivanand-hulikatti/steelfist/internal/repository"
)

// CreateCourse inserts a course after confirming its coach exists.
func (s *Store) CreateCourse(ctx context.Context, c model.Course) (*model.Course, error) {
	course := c
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if c.CoachID != nil {
			var n int
			if err := tx.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM coaches WHERE coach_id = ?`, *c.CoachID,
			).Scan(&n); err != nil {
				return fmt.Errorf("check coach: %w", err)
			}
			if n == 0 {
				return repository.ErrCoachNotFound
			}
		}

		var coach sql.NullInt64
		if c.CoachID != nil {
			coach = sql.NullInt64{Int64: *c.CoachID, Valid: true}
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO courses (name, scheduled_at, max_capacity, coach_id) VALUES (?, ?, ?, ?)`,
			c.Name, toUnix(c.ScheduledAt), c.MaxCapacity, coach)
		if err != nil {
			return fmt.Errorf("insert course: %w", err)
		}
		course.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("course id: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	course.ScheduledAt = fromUnix(toUnix(c.ScheduledAt))
	return &course, nil
}

// GetCourse returns a single course or repository.ErrCourseNotFound.
func (s *Store) GetCourse(ctx context.Context, id int64) (*model.Course, error) {
	var c model.Course
	var at int64
	var coach sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT course_id, name, scheduled_at, max_capacity, coach_id FROM courses WHERE course_id = ?`, id,
	).Scan(&c.ID, &c.Name, &at, &c.MaxCapacity, &coach)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	c.ScheduledAt = fromUnix(at)
	c.CoachID = nullableID(coach)
	return &c, nil
}

// DeleteCourse removes the course; its registrations cascade.
func (s *Store) DeleteCourse(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE course_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return rowsAffected(res, repository.ErrCourseNotFound)
}

// ListCourses joins every course with its coach and a grouped registration
// count, ordered by schedule.
func (s *Store) ListCourses(ctx context.Context) ([]model.CourseListing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.course_id, c.name, c.scheduled_at, c.max_capacity, c.coach_id,
		       COALESCE(co.name, ''), COALESCE(co.specialty, ''),
		       COUNT(r.registration_id)
		FROM courses c
		LEFT JOIN coaches co ON co.coach_id = c.coach_id
		LEFT JOIN registrations r ON r.course_id = c.course_id
		GROUP BY c.course_id, c.name, c.scheduled_at, c.max_capacity, c.coach_id, co.name, co.specialty
		ORDER BY c.scheduled_at, c.course_id`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var courses []model.CourseListing
	for rows.Next() {
		var c model.Course
		var at int64
		var coach sql.NullInt64
		var coachName string
		var specialty model.Specialty
		var count int
		if err := rows.Scan(&c.ID, &c.Name, &at, &c.MaxCapacity, &coach, &coachName, &specialty, &count); err != nil {
			return nil, fmt.Errorf("scan course listing: %w", err)
		}
		c.ScheduledAt = fromUnix(at)
		c.CoachID = nullableID(coach)
		courses = append(courses, model.NewCourseListing(c, coachName, specialty, count))
	}
	return courses, rows.Err()
}

// CountRegistrations counts the ledger rows for a course.
func (s *Store) CountRegistrations(ctx context.Context, courseID int64) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE course_id = ?`, courseID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return n, nil
}
