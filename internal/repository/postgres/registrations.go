package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Shivanand-hulikatti/steelfist/internal/model"
	"github.com/Shivanand-hulikatti/steelfist/internal/repository"
)

// Book admits a member to a course inside a single transaction.
//
// ─────────────────────────────────────────────────────────────────────────────
// CAPACITY UNDER CONCURRENCY
// ─────────────────────────────────────────────────────────────────────────────
//
// Counting registrations and then inserting is a read-then-write: two
// transactions can both count max_capacity-1 and both insert.
//
// The course row is therefore locked with SELECT … FOR UPDATE before the count.
// Every booking for the same course queues on that lock, so the count a
// transaction sees stays valid until it commits. UNIQUE(member_id, course_id)
// backs up the duplicate check for the same member racing themselves.
//
// ─────────────────────────────────────────────────────────────────────────────
func (s *Store) Book(ctx context.Context, memberID, courseID int64) (*model.Registration, error) {
	var reg *model.Registration
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		// ── Step 1: the member must exist. ──────────────────────────────────
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM members WHERE member_id = $1)`, memberID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check member: %w", err)
		}
		if !exists {
			return repository.ErrMemberNotFound
		}

		// ── Step 2: lock the course row. ────────────────────────────────────
		var scheduledAt time.Time
		var capacity int
		err := tx.QueryRow(ctx,
			`SELECT scheduled_at, max_capacity
			 FROM courses
			 WHERE course_id = $1
			 FOR UPDATE`,
			courseID,
		).Scan(&scheduledAt, &capacity)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return repository.ErrCourseNotFound
			}
			return fmt.Errorf("lock course row: %w", err)
		}

		// ── Step 3: guard against overbooking. ──────────────────────────────
		var booked int
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM registrations WHERE course_id = $1`, courseID,
		).Scan(&booked); err != nil {
			return fmt.Errorf("count registrations: %w", err)
		}
		if booked >= capacity {
			return repository.ErrCourseFull
		}

		// ── Step 4: reject duplicates. ──────────────────────────────────────
		var dup bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM registrations WHERE member_id = $1 AND course_id = $2)`,
			memberID, courseID,
		).Scan(&dup); err != nil {
			return fmt.Errorf("check duplicate: %w", err)
		}
		if dup {
			return repository.ErrAlreadyRegistered
		}

		// ── Step 5: write the ledger row. ───────────────────────────────────
		reg = &model.Registration{
			RegistrationDate: scheduledAt.UTC(),
			MemberID:         memberID,
			CourseID:         courseID,
		}
		if err := tx.QueryRow(ctx,
			`INSERT INTO registrations (registration_date, member_id, course_id)
			 VALUES ($1, $2, $3)
			 RETURNING registration_id`,
			reg.RegistrationDate, memberID, courseID,
		).Scan(&reg.ID); err != nil {
			if isUniqueViolation(err) {
				return repository.ErrAlreadyRegistered
			}
			return fmt.Errorf("insert registration: %w", err)
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
	rows, err := s.db.Query(ctx, `
		SELECT registration_id, registration_date, member_id, course_id
		FROM registrations
		WHERE member_id = $1
		ORDER BY registration_id`, memberID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		var r model.Registration
		if err := rows.Scan(&r.ID, &r.RegistrationDate, &r.MemberID, &r.CourseID); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		r.RegistrationDate = r.RegistrationDate.UTC()
		regs = append(regs, r)
	}
	return regs, rows.Err()
}

// ListDetails joins every registration with its member and course.
func (s *Store) ListDetails(ctx context.Context) ([]model.RegistrationDetail, error) {
	rows, err := s.db.Query(ctx, `
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
	defer rows.Close()

	var details []model.RegistrationDetail
	for rows.Next() {
		var d model.RegistrationDetail
		if err := rows.Scan(&d.RegistrationID, &d.RegistrationDate, &d.MemberID, &d.MemberName, &d.Email,
			&d.CourseID, &d.CourseName, &d.ScheduledAt); err != nil {
			return nil, fmt.Errorf("scan registration detail: %w", err)
		}
		d.RegistrationDate = d.RegistrationDate.UTC()
		d.ScheduledAt = d.ScheduledAt.UTC()
		details = append(details, d)
	}
	return details, rows.Err()
}

// Statistics aggregates the ledger in two queries.
func (s *Store) Statistics(ctx context.Context) (*model.Statistics, error) {
	st := &model.Statistics{CoachesBySpecialty: make(map[model.Specialty]int)}
	err := s.db.QueryRow(ctx, `
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

	rows, err := s.db.Query(ctx, `SELECT specialty, COUNT(*) FROM coaches GROUP BY specialty`)
	if err != nil {
		return nil, fmt.Errorf("coach specialties: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sp string
		var n int
		if err := rows.Scan(&sp, &n); err != nil {
			return nil, fmt.Errorf("scan specialty count: %w", err)
		}
		st.CoachesBySpecialty[model.Specialty(sp)] = n
	}
	return st, rows.Err()
}
