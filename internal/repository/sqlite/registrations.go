package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Shivanand-hulikatti/steelfist/internal/model"
	"github.com/Shivanand-hulikatti/steelfist/internal/repository"
)

// Book runs the admission checks and the insert in one IMMEDIATE transaction,
// so the write lock is held from the capacity read until commit and two
// bookings for the same course cannot both observe a free place.
func (s *Store) Book(ctx context.Context, memberID, courseID int64) (*model.Registration, error) {
	var reg *model.Registration
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM members WHERE member_id = ?`, memberID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check member: %w", err)
		}
		if exists == 0 {
			return repository.ErrMemberNotFound
		}

		var scheduledAt int64
		var capacity int
		err := tx.QueryRowContext(ctx,
			`SELECT scheduled_at, max_capacity FROM courses WHERE course_id = ?`, courseID,
		).Scan(&scheduledAt, &capacity)
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrCourseNotFound
		}
		if err != nil {
			return fmt.Errorf("load course: %w", err)
		}

		var booked int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM registrations WHERE course_id = ?`, courseID,
		).Scan(&booked); err != nil {
			return fmt.Errorf("count registrations: %w", err)
		}
		if booked >= capacity {
			return repository.ErrCourseFull
		}

		var dup int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM registrations WHERE member_id = ? AND course_id = ?`, memberID, courseID,
		).Scan(&dup); err != nil {
			return fmt.Errorf("check duplicate: %w", err)
		}
		if dup > 0 {
			return repository.ErrAlreadyRegistered
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO registrations (registration_date, member_id, course_id) VALUES (?, ?, ?)`,
			scheduledAt, memberID, courseID)
		if err != nil {
			if isUniqueViolation(err) {
				return repository.ErrAlreadyRegistered
			}
			return fmt.Errorf("insert registration: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("registration id: %w", err)
		}

		reg = &model.Registration{
			ID:               id,
			RegistrationDate: fromUnix(scheduledAt),
			MemberID:         memberID,
			CourseID:         courseID,
		}
		return nil
	})
	if err != nil {
		if !repository.IsDomainError(err) {
			slog.Error("book registration failed", "error", err, "member_id", memberID, "course_id", courseID)
		}
		return nil, err
	}
	return reg, nil
}

// ListByMember returns a member's registrations in storage order.
func (s *Store) ListByMember(ctx context.Context, memberID int64) ([]model.Registration, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT registration_id, registration_date, member_id, course_id
		FROM registrations
		WHERE member_id = ?
		ORDER BY registration_id`, memberID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var regs []model.Registration
	for rows.Next() {
		var r model.Registration
		var at int64
		if err := rows.Scan(&r.ID, &at, &r.MemberID, &r.CourseID); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		r.RegistrationDate = fromUnix(at)
		regs = append(regs, r)
	}
	return regs, rows.Err()
}

// ListDetails joins every registration with its member and course.
func (s *Store) ListDetails(ctx context.Context) ([]model.RegistrationDetail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.registration_id, r.registration_date,
		       m.member_id, m.name, m.email,
		       c.course_id, c.name, c.scheduled_at
		FROM registrations r
		JOIN members m ON m.member_id = r.member_id
		JOIN courses c ON c.course_id = r.course_id
		ORDER BY r.registration_id`)
	if err != nil {
		return nil, fmt.Errorf("list registration details: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var details []model.RegistrationDetail
	for rows.Next() {
		var d model.RegistrationDetail
		var regAt, courseAt int64
		if err := rows.Scan(&d.RegistrationID, &regAt, &d.MemberID, &d.MemberName, &d.Email,
			&d.CourseID, &d.CourseName, &courseAt); err != nil {
			return nil, fmt.Errorf("scan registration detail: %w", err)
		}
		d.RegistrationDate = fromUnix(regAt)
		d.ScheduledAt = fromUnix(courseAt)
		details = append(details, d)
	}
	return details, rows.Err()
}

// Statistics aggregates the ledger in two queries.
func (s *Store) Statistics(ctx context.Context) (*model.Statistics, error) {
	st := &model.Statistics{CoachesBySpecialty: make(map[model.Specialty]int)}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM members),
			(SELECT COUNT(DISTINCT member_id) FROM registrations),
			(SELECT COUNT(*) FROM coaches),
			(SELECT COUNT(*) FROM courses),
			(SELECT COUNT(*) FROM courses c
			  WHERE (SELECT COUNT(*) FROM registrations r WHERE r.course_id = c.course_id) >= c.max_capacity),
			(SELECT COUNT(*) FROM registrations)`,
	).Scan(&st.TotalMembers, &st.ActiveMembers, &st.TotalCoaches, &st.TotalCourses,
		&st.FullCourses, &st.TotalRegistrations)
	if err != nil {
		return nil, fmt.Errorf("aggregate statistics: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT specialty, COUNT(*) FROM coaches GROUP BY specialty`)
	if err != nil {
		return nil, fmt.Errorf("coach specialties: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var sp model.Specialty
		var n int
		if err := rows.Scan(&sp, &n); err != nil {
			return nil, fmt.Errorf("scan specialty count: %w", err)
		}
		st.CoachesBySpecialty[sp] = n
	}
	return st, rows.Err()
}
