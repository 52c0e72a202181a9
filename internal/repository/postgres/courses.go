package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Shivanand-hulikatti/steelfist/internal/model"
	"github.com/Shivanand-hulikatti/steelfist/internal/repository"
)

// CreateCourse inserts a course. The coach foreign key maps to
// repository.ErrCoachNotFound.
func (s *Store) CreateCourse(ctx context.Context, c model.Course) (*model.Course, error) {
	course := c
	course.ScheduledAt = c.ScheduledAt.UTC()
	err := s.db.QueryRow(ctx,
		`INSERT INTO courses (name, scheduled_at, max_capacity, coach_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING course_id`,
		c.Name, course.ScheduledAt, c.MaxCapacity, c.CoachID,
	).Scan(&course.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, repository.ErrCoachNotFound
		}
		return nil, fmt.Errorf("insert course: %w", err)
	}
	return &course, nil
}

// GetCourse returns a single course or repository.ErrCourseNotFound.
func (s *Store) GetCourse(ctx context.Context, id int64) (*model.Course, error) {
	var c model.Course
	err := s.db.QueryRow(ctx,
		`SELECT course_id, name, scheduled_at, max_capacity, coach_id FROM courses WHERE course_id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.ScheduledAt, &c.MaxCapacity, &c.CoachID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	c.ScheduledAt = c.ScheduledAt.UTC()
	return &c, nil
}

// DeleteCourse removes the course; its registrations cascade.
func (s *Store) DeleteCourse(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM courses WHERE course_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return affected(tag, repository.ErrCourseNotFound)
}

// ListCourses joins every course with its coach and a grouped registration
// count, ordered by schedule.
func (s *Store) ListCourses(ctx context.Context) ([]model.CourseListing, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.course_id, c.name, c.scheduled_at, c.max_capacity, c.coach_id,
		       COALESCE(co.name, ''), COALESCE(co.specialty, ''),
		       COUNT(r.registration_id)
		FROM courses c
		LEFT JOIN coaches co ON co.coach_id = c.coach_id
		LEFT JOIN registrations r ON r.course_id = c.course_id
		GROUP BY c.course_id, co.coach_id
		ORDER BY c.scheduled_at, c.course_id`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []model.CourseListing
	for rows.Next() {
		var c model.Course
		var coachName, specialty string
		var count int
		if err := rows.Scan(&c.ID, &c.Name, &c.ScheduledAt, &c.MaxCapacity, &c.CoachID,
			&coachName, &specialty, &count); err != nil {
			return nil, fmt.Errorf("scan course listing: %w", err)
		}
		c.ScheduledAt = c.ScheduledAt.UTC()
		courses = append(courses, model.NewCourseListing(c, coachName, model.Specialty(specialty), count))
	}
	return courses, rows.Err()
}

// CountRegistrations counts the ledger rows for a course.
func (s *Store) CountRegistrations(ctx context.Context, courseID int64) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations WHERE course_id = $1`, courseID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return n, nil
}
