package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Shivanand-hulikatti/steelfist/internal/model"
	"github.com/Shivanand-hulikatti/steelfist/internal/repository"
)

// CreateMember mints the access card and inserts the member in one transaction.
func (s *Store) CreateMember(ctx context.Context, name, email string, cardNumber int64) (*model.Member, error) {
	member := &model.Member{Name: name, Email: email}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var taken int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM access_cards WHERE unique_number = ?`, cardNumber,
		).Scan(&taken); err != nil {
			return fmt.Errorf("check access card: %w", err)
		}
		if taken > 0 {
			return repository.ErrAccessCardInUse
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO access_cards (unique_number) VALUES (?)`, cardNumber)
		if err != nil {
			if isUniqueViolation(err) {
				return repository.ErrAccessCardInUse
			}
			return fmt.Errorf("insert access card: %w", err)
		}
		cardID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("access card id: %w", err)
		}

		res, err = tx.ExecContext(ctx,
			`INSERT INTO members (name, email, access_card_id) VALUES (?, ?, ?)`,
			name, email, cardID)
		if err != nil {
			return fmt.Errorf("insert member: %w", err)
		}
		if member.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("member id: %w", err)
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
	var card sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT member_id, name, email, access_card_id FROM members WHERE member_id = ?`, id,
	).Scan(&m.ID, &m.Name, &m.Email, &card)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	m.AccessCardID = nullableID(card)
	return &m, nil
}

// FindMembersByName returns all members named name, ordered by id.
func (s *Store) FindMembersByName(ctx context.Context, name string) ([]model.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT member_id, name, email, access_card_id FROM members WHERE name = ? ORDER BY member_id`, name)
	if err != nil {
		return nil, fmt.Errorf("find members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var members []model.Member
	for rows.Next() {
		var m model.Member
		var card sql.NullInt64
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &card); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		m.AccessCardID = nullableID(card)
		members = append(members, m)
	}
	return members, rows.Err()
}

// UpdateMember changes only the supplied fields.
func (s *Store) UpdateMember(ctx context.Context, id int64, name, email *string) error {
	var sets []string
	var args []any
	if name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *name)
	}
	if email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *email)
	}
	if len(sets) == 0 {
		_, err := s.GetMember(ctx, id)
		return err
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		`UPDATE members SET `+strings.Join(sets, ", ")+` WHERE member_id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return rowsAffected(res, repository.ErrMemberNotFound)
}

// DeleteMember removes the member; registrations cascade and the card is
// deleted alongside.
func (s *Store) DeleteMember(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var card sql.NullInt64
		err := tx.QueryRowContext(ctx,
			`SELECT access_card_id FROM members WHERE member_id = ?`, id).Scan(&card)
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrMemberNotFound
		}
		if err != nil {
			return fmt.Errorf("load member: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM members WHERE member_id = ?`, id); err != nil {
			return fmt.Errorf("delete member: %w", err)
		}
		if card.Valid {
			if _, err := tx.ExecContext(ctx, `DELETE FROM access_cards WHERE card_id = ?`, card.Int64); err != nil {
				return fmt.Errorf("delete access card: %w", err)
			}
		}
		return nil
	})
}

// ListMembers returns every member with a grouped registration count.
func (s *Store) ListMembers(ctx context.Context) ([]model.MemberListing, error) {
	rows, err := s.db.QueryContext(ctx, `
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
	defer func() { _ = rows.Close() }()

	var members []model.MemberListing
	for rows.Next() {
		var l model.MemberListing
		var card, number sql.NullInt64
		if err := rows.Scan(&l.MemberID, &l.Name, &l.Email, &card, &number, &l.TotalRegistrations); err != nil {
			return nil, fmt.Errorf("scan member listing: %w", err)
		}
		l.AccessCardID = nullableID(card)
		l.CardNumber = nullableID(number)
		l.Status = model.StatusOf(l.TotalRegistrations)
		members = append(members, l)
	}
	return members, rows.Err()
}
