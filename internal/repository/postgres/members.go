package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Shivanand-hulikatti/steelfist/internal/model"
	"github.com/Shivanand-hulikatti/steelfist/internal/repository"
)

// CreateMember mints the access card and inserts the member in one transaction.
func (s *Store) CreateMember(ctx context.Context, name, email string, cardNumber int64) (*model.Member, error) {
	member := &model.Member{Name: name, Email: email}

	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var cardID int64
		err := tx.QueryRow(ctx,
			`INSERT INTO access_cards (unique_number) VALUES ($1) RETURNING card_id`,
			cardNumber,
		).Scan(&cardID)
		if err != nil {
			if isUniqueViolation(err) {
				return repository.ErrAccessCardInUse
			}
			return fmt.Errorf("insert access card: %w", err)
		}

		if err := tx.QueryRow(ctx,
			`INSERT INTO members (name, email, access_card_id) VALUES ($1, $2, $3) RETURNING member_id`,
			name, email, cardID,
		).Scan(&member.ID); err != nil {
			return fmt.Errorf("insert member: %w", err)
		}
		member.AccessCardID = &cardID
		return nil
	})
	if err != nil {
		if !errors.Is(err, repository.ErrAccessCardInUse) {
			slog.Error("create member failed", "error", err, "name", name)
		}
		return nil, err
	}
	return member, nil
}

// GetMember returns a single member or repository.ErrMemberNotFound.
func (s *Store) GetMember(ctx context.Context, id int64) (*model.Member, error) {
	var m model.Member
	err := s.db.QueryRow(ctx,
		`SELECT member_id, name, email, access_card_id FROM members WHERE member_id = $1`, id,
	).Scan(&m.ID, &m.Name, &m.Email, &m.AccessCardID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrMemberNotFound
		}
		return nil, fmt.Errorf("get member: %w", err)
	}
	return &m, nil
}

// FindMembersByName returns all members named name, ordered by id.
func (s *Store) FindMembersByName(ctx context.Context, name string) ([]model.Member, error) {
	rows, err := s.db.Query(ctx,
		`SELECT member_id, name, email, access_card_id FROM members WHERE name = $1 ORDER BY member_id`, name)
	if err != nil {
		return nil, fmt.Errorf("find members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.AccessCardID); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// UpdateMember changes only the supplied fields.
func (s *Store) UpdateMember(ctx context.Context, id int64, name, email *string) error {
	var sets []string
	var args []any
	if name != nil {
		args = append(args, *name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if email != nil {
		args = append(args, *email)
		sets = append(sets, fmt.Sprintf("email = $%d", len(args)))
	}
	if len(sets) == 0 {
		_, err := s.GetMember(ctx, id)
		return err
	}
	args = append(args, id)

	tag, err := s.db.Exec(ctx,
		fmt.Sprintf(`UPDATE members SET %s WHERE member_id = $%d`, strings.Join(sets, ", "), len(args)),
		args...)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return affected(tag, repository.ErrMemberNotFound)
}

// DeleteMember removes the member; registrations cascade and the card is
// deleted alongside.
func (s *Store) DeleteMember(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		var card *int64
		err := tx.QueryRow(ctx,
			`DELETE FROM members WHERE member_id = $1 RETURNING access_card_id`, id,
		).Scan(&card)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return repository.ErrMemberNotFound
			}
			return fmt.Errorf("delete member: %w", err)
		}
		if card != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM access_cards WHERE card_id = $1`, *card); err != nil {
				return fmt.Errorf("delete access card: %w", err)
			}
		}
		return nil
	})
}

// ListMembers returns every member with a grouped registration count.
func (s *Store) ListMembers(ctx context.Context) ([]model.MemberListing, error) {
	rows, err := s.db.Query(ctx, `
		SELECT m.member_id, m.name, m.email, m.access_card_id, a.unique_number,
		       COUNT(r.registration_id)
		FROM members m
		LEFT JOIN access_cards a ON a.card_id = m.access_card_id
		LEFT JOIN registrations r ON r.member_id = m.member_id
		GROUP BY m.member_id, m.name, m.email, m.access_card_id, a.unique_number
		ORDER BY m.member_id`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []model.MemberListing
	for rows.Next() {
		var l model.MemberListing
		if err := rows.Scan(&l.MemberID, &l.Name, &l.Email, &l.AccessCardID, &l.CardNumber, &l.TotalRegistrations); err != nil {
			return nil, fmt.Errorf("scan member listing: %w", err)
		}
		l.Status = model.StatusOf(l.TotalRegistrations)
		members = append(members, l)
	}
	return members, rows.Err()
}
