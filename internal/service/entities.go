package service

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Shivanand-hulikatti/steelfist/internal/model"
	"github.com/Shivanand-hulikatti/steelfist/internal/repository"
	"github.com/Shivanand-hulikatti/steelfist/internal/tracing"
)

// cardAttempts bounds the retries when a generated card code collides.
const cardAttempts = 5

// AddMember validates the request and creates the member with an access card.
// Without a card number a random 6-digit code is minted.
func (s *GymService) AddMember(ctx context.Context, req model.NewMemberRequest) (_ *model.Member, err error) {
	ctx, span := s.start(ctx, "AddMember")
	defer func() { tracing.End(span, err) }()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("member name is required")
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		return nil, invalid("email is required")
	}
	if !isValidEmail(email) {
		return nil, invalid("email %q is not a valid email address", req.Email)
	}

	if req.CardNumber != nil {
		if *req.CardNumber <= 0 {
			return nil, invalid("access_card_number must be a positive integer")
		}
		m, err := s.store.CreateMember(ctx, name, email, *req.CardNumber)
		if err != nil {
			return nil, storeError(err, "add member")
		}
		return m, nil
	}

	for range cardAttempts {
		m, err := s.store.CreateMember(ctx, name, email, s.cardCode())
		if errors.Is(err, repository.ErrAccessCardInUse) {
			continue
		}
		if err != nil {
			return nil, storeError(err, "add member")
		}
		return m, nil
	}
	return nil, storeError(repository.ErrAccessCardInUse, "add member")
}

// AddCoach creates a coach. The specialty must belong to the closed set.
func (s *GymService) AddCoach(ctx context.Context, req model.NewCoachRequest) (_ *model.Coach, err error) {
	ctx, span := s.start(ctx, "AddCoach", attribute.String("coach.specialty", req.Specialty))
	defer func() { tracing.End(span, err) }()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("coach name is required")
	}
	specialty, ok := model.ParseSpecialty(req.Specialty)
	if !ok {
		return nil, invalid("unknown specialty %q", req.Specialty)
	}

	c, err := s.store.CreateCoach(ctx, name, specialty)
	if err != nil {
		return nil, storeError(err, "add coach")
	}
	return c, nil
}

// AddCourse creates a course. The coach, when given, must exist.
func (s *GymService) AddCourse(ctx context.Context, req model.NewCourseRequest) (_ *model.Course, err error) {
	ctx, span := s.start(ctx, "AddCourse", attribute.Int("course.max_capacity", req.MaxCapacity))
	defer func() { tracing.End(span, err) }()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("course name is required")
	}
	at, err := ParseSchedule(req.ScheduledAt)
	if err != nil {
		return nil, err
	}
	if req.MaxCapacity <= 0 {
		return nil, invalid("max_capacity must be a positive integer")
	}
	if req.CoachID != nil {
		if err := positiveID(*req.CoachID, "coach_id"); err != nil {
			return nil, err
		}
	}

	c, err := s.store.CreateCourse(ctx, model.Course{
		Name:        name,
		ScheduledAt: at,
		MaxCapacity: req.MaxCapacity,
		CoachID:     req.CoachID,
	})
	if err != nil {
		return nil, storeError(err, "add course")
	}
	return c, nil
}

// DeleteMember removes the member with this name, their registrations and
// their access card.
func (s *GymService) DeleteMember(ctx context.Context, name string) (err error) {
	ctx, span := s.start(ctx, "DeleteMember", attribute.String("member.name", name))
	defer func() { tracing.End(span, err) }()

	member, err := s.resolveMember(ctx, name)
	if err != nil {
		return err
	}
	if member == nil {
		return storeError(repository.ErrMemberNotFound, "delete member")
	}
	if err := s.store.DeleteMember(ctx, member.ID); err != nil {
		return storeError(err, "delete member")
	}
	return nil
}

// DeleteCoach removes a coach together with their courses and the
// registrations for them.
func (s *GymService) DeleteCoach(ctx context.Context, id int64) (err error) {
	ctx, span := s.start(ctx, "DeleteCoach", attribute.Int64("coach.id", id))
	defer func() { tracing.End(span, err) }()

	if err := positiveID(id, "coach_id"); err != nil {
		return err
	}
	if err := s.store.DeleteCoach(ctx, id); err != nil {
		return storeError(err, "delete coach")
	}
	return nil
}

// DeleteCourse removes a course and its registrations.
func (s *GymService) DeleteCourse(ctx context.Context, id int64) (err error) {
	ctx, span := s.start(ctx, "DeleteCourse", attribute.Int64("course.id", id))
	defer func() { tracing.End(span, err) }()

	if err := positiveID(id, "course_id"); err != nil {
		return err
	}
	if err := s.store.DeleteCourse(ctx, id); err != nil {
		return storeError(err, "delete course")
	}
	return nil
}

// UpdateMember applies a partial update. Blank fields are ignored; an update
// with nothing left fails with KindNoFieldsToUpdate before the member is
// looked up.
func (s *GymService) UpdateMember(ctx context.Context, id int64, upd model.MemberUpdate) (err error) {
	ctx, span := s.start(ctx, "UpdateMember", attribute.Int64("member.id", id))
	defer func() { tracing.End(span, err) }()

	if err := positiveID(id, "member_id"); err != nil {
		return err
	}
	name, email := optional(upd.Name), optional(upd.Email)
	if name == nil && email == nil {
		return noFields()
	}
	if email != nil {
		lower := strings.ToLower(*email)
		if !isValidEmail(lower) {
			return invalid("email %q is not a valid email address", *email)
		}
		email = &lower
	}

	if err := s.store.UpdateMember(ctx, id, name, email); err != nil {
		return storeError(err, "update member")
	}
	return nil
}

// UpdateCoach applies a partial update with the same rules as UpdateMember.
func (s *GymService) UpdateCoach(ctx context.Context, id int64, upd model.CoachUpdate) (err error) {
	ctx, span := s.start(ctx, "UpdateCoach", attribute.Int64("coach.id", id))
	defer func() { tracing.End(span, err) }()

	if err := positiveID(id, "coach_id"); err != nil {
		return err
	}
	name, raw := optional(upd.Name), optional(upd.Specialty)
	if name == nil && raw == nil {
		return noFields()
	}
	var specialty *model.Specialty
	if raw != nil {
		sp, ok := model.ParseSpecialty(*raw)
		if !ok {
			return invalid("unknown specialty %q", *raw)
		}
		specialty = &sp
	}

	if err := s.store.UpdateCoach(ctx, id, name, specialty); err != nil {
		return storeError(err, "update coach")
	}
	return nil
}

func noFields() error {
	return &Error{Kind: KindNoFieldsToUpdate, Message: ErrNoFieldsToUpdate.Error(), Err: ErrNoFieldsToUpdate}
}
