package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/steelfist/internal/model"
	"github.com/Shivanand-hulikatti/steelfist/internal/repository"
)

// CreateCoach inserts a coach.
func (s *Store) CreateCoach(ctx context.Context, name string, specialty model.Specialty) (*model.Coach, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO coaches (name, specialty) VALUES (?, ?)`, name, string(specialty))
	if err != nil {
		return nil, fmt.Errorf("insert coach: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("coach id: %w", err)
	}
	return &model.Coach{ID: id, Name: name, Specialty: specialty}, nil
}

// GetCoach returns a single coach or repository.ErrCoachNotFound.
func (s *Store) GetCoach(ctx context.Context, id int64) (*model.Coach, error) {
	var c model.Coach
	err := s.db.QueryRowContext(ctx,
		`SELECT coach_id, name, specialty FROM coaches WHERE coach_id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Specialty)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrCoachNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get coach: %w", err)
	}
	return &c, nil
}

// UpdateCoach changes only the supplied fields.
func (s *Store) UpdateCoach(ctx context.Context, id int64, name *string, specialty *model.Specialty) error {
	var sets []string
	var args []any
	if name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *name)
	}
	if specialty != nil {
		sets = append(sets, "specialty = ?")
		args = append(args, string(*specialty))
	}
	if len(sets) == 0 {
		_, err := s.GetCoach(ctx, id)
		return err
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		`UPDATE coaches SET `+strings.Join(sets, ", ")+` WHERE coach_id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update coach: %w", err)
	}
	return rowsAffected(res, repository.ErrCoachNotFound)
}

// DeleteCoach removes the coach; courses and their registrations cascade.
func (s *Store) DeleteCoach(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM coaches WHERE coach_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete coach: %w", err)
	}
	return rowsAffected(res, repository.ErrCoachNotFound)
}

// ListCoaches returns every coach with the number of courses they run.
func (s *Store) ListCoaches(ctx context.Context) ([]model.CoachListing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT co.coach_id, co.name, co.specialty, COUNT(c.course_id)
		FROM coaches co
		LEFT JOIN courses c ON c.coach_id = co.coach_id
		GROUP BY co.coach_id, co.name, co.specialty
		ORDER BY co.coach_id`)
	if err != nil {
		return nil, fmt.Errorf("list coaches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var coaches []model.CoachListing
	for rows.Next() {
		var l model.CoachListing
		if err := rows.Scan(&l.CoachID, &l.Name, &l.Specialty, &l.CourseCount); err != nil {
			return nil, fmt.Errorf("scan coach listing: %w", err)
		}
		coaches = append(coaches, l)
	}
	return coaches, rows.Err()
}
