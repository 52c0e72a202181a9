package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Shivanand-hulikatti/steelfist/internal/model"
	"github.com/Shivanand-hulikatti/steelfist/internal/repository"
)

// CreateCoach inserts a coach.
func (s *Store) CreateCoach(ctx context.Context, name string, specialty model.Specialty) (*model.Coach, error) {
	c := &model.Coach{Name: name, Specialty: specialty}
	if err := s.db.QueryRow(ctx,
		`INSERT INTO coaches (name, specialty) VALUES ($1, $2) RETURNING coach_id`,
		name, string(specialty),
	).Scan(&c.ID); err != nil {
		return nil, fmt.Errorf("insert coach: %w", err)
	}
	return c, nil
}

// GetCoach returns a single coach or repository.ErrCoachNotFound.
func (s *Store) GetCoach(ctx context.Context, id int64) (*model.Coach, error) {
	var c model.Coach
	var specialty string
	err := s.db.QueryRow(ctx,
		`SELECT coach_id, name, specialty FROM coaches WHERE coach_id = $1`, id,
	).Scan(&c.ID, &c.Name, &specialty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrCoachNotFound
		}
		return nil, fmt.Errorf("get coach: %w", err)
	}
	c.Specialty = model.Specialty(specialty)
	return &c, nil
}

// UpdateCoach changes only the supplied fields.
func (s *Store) UpdateCoach(ctx context.Context, id int64, name *string, specialty *model.Specialty) error {
	var sets []string
	var args []any
	if name != nil {
		args = append(args, *name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if specialty != nil {
		args = append(args, string(*specialty))
		sets = append(sets, fmt.Sprintf("specialty = $%d", len(args)))
	}
	if len(sets) == 0 {
		_, err := s.GetCoach(ctx, id)
		return err
	}
	args = append(args, id)

	tag, err := s.db.Exec(ctx,
		fmt.Sprintf(`UPDATE coaches SET %s WHERE coach_id = $%d`, strings.Join(sets, ", "), len(args)),
		args...)
	if err != nil {
		return fmt.Errorf("update coach: %w", err)
	}
	return affected(tag, repository.ErrCoachNotFound)
}

// DeleteCoach removes the coach; courses and their registrations cascade.
func (s *Store) DeleteCoach(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM coaches WHERE coach_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete coach: %w", err)
	}
	return affected(tag, repository.ErrCoachNotFound)
}

// ListCoaches returns every coach with the number of courses they run.
func (s *Store) ListCoaches(ctx context.Context) ([]model.CoachListing, error) {
	rows, err := s.db.Query(ctx, `
		SELECT co.coach_id, co.name, co.specialty, COUNT(c.course_id)
		FROM coaches co
		LEFT JOIN courses c ON c.coach_id = co.coach_id
		GROUP BY co.coach_id, co.name, co.specialty
		ORDER BY co.coach_id`)
	if err != nil {
		return nil, fmt.Errorf("list coaches: %w", err)
	}
	defer rows.Close()

	var coaches []model.CoachListing
	for rows.Next() {
		var l model.CoachListing
		var specialty string
		if err := rows.Scan(&l.CoachID, &l.Name, &specialty, &l.CourseCount); err != nil {
			return nil, fmt.Errorf("scan coach listing: %w", err)
		}
		l.Specialty = model.Specialty(specialty)
		coaches = append(coaches, l)
	}
	return coaches, rows.Err()
}
