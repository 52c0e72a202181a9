package service

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Shivanand-hulikatti/steelfist/internal/model"
	"github.com/Shivanand-hulikatti/steelfist/internal/tracing"
)

// Register admits a member to a course. Checks run in order and the first
// failure wins: member exists, course exists, capacity, duplicate. The new
// registration is dated to the course's scheduled time.
func (s *GymService) Register(ctx context.Context, memberID, courseID int64) (_ *model.Registration, err error) {
	ctx, span := s.start(ctx, "Register",
		attribute.Int64("member.id", memberID),
		attribute.Int64("course.id", courseID))
	defer func() { tracing.End(span, err) }()

	if err := positiveID(memberID, "member_id"); err != nil {
		return nil, err
	}
	if err := positiveID(courseID, "course_id"); err != nil {
		return nil, err
	}

	reg, err := s.store.Book(ctx, memberID, courseID)
	if err != nil {
		return nil, storeError(err, "register")
	}
	span.SetAttributes(attribute.Int64("registration.id", reg.ID))
	return reg, nil
}

// RegisteredMessage is the confirmation shown after a successful Register.
func RegisteredMessage(memberID, courseID int64) string {
	return fmt.Sprintf("Member %d successfully registered for course %d", memberID, courseID)
}

// RegistrationCount returns the number of registrations held by a course.
func (s *GymService) RegistrationCount(ctx context.Context, courseID int64) (_ int, err error) {
	ctx, span := s.start(ctx, "RegistrationCount", attribute.Int64("course.id", courseID))
	defer func() { tracing.End(span, err) }()

	if err := positiveID(courseID, "course_id"); err != nil {
		return 0, err
	}
	if _, err := s.store.GetCourse(ctx, courseID); err != nil {
		return 0, storeError(err, "registration count")
	}
	n, err := s.store.CountRegistrations(ctx, courseID)
	if err != nil {
		return 0, storeError(err, "registration count")
	}
	return n, nil
}

// AvailableCapacity returns the free places of a course, never below zero.
func (s *GymService) AvailableCapacity(ctx context.Context, courseID int64) (_ int, err error) {
	ctx, span := s.start(ctx, "AvailableCapacity", attribute.Int64("course.id", courseID))
	defer func() { tracing.End(span, err) }()

	if err := positiveID(courseID, "course_id"); err != nil {
		return 0, err
	}
	course, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return 0, storeError(err, "available capacity")
	}
	n, err := s.store.CountRegistrations(ctx, courseID)
	if err != nil {
		return 0, storeError(err, "available capacity")
	}
	return model.Remaining(course.MaxCapacity, n), nil
}

// RegistrationHistory lists the registrations of the member with this name.
// An unknown name yields an empty list; a name shared by several members is
// rejected with KindAmbiguousMember.
func (s *GymService) RegistrationHistory(ctx context.Context, memberName string) (_ []model.Registration, err error) {
	ctx, span := s.start(ctx, "RegistrationHistory", attribute.String("member.name", memberName))
	defer func() { tracing.End(span, err) }()

	member, err := s.resolveMember(ctx, memberName)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return []model.Registration{}, nil
	}
	regs, err := s.store.ListByMember(ctx, member.ID)
	if err != nil {
		return nil, storeError(err, "registration history")
	}
	if regs == nil {
		regs = []model.Registration{}
	}
	return regs, nil
}

// MemberRegistrationCount counts the registrations of the member with this
// name, resolving the name like RegistrationHistory. An unknown name counts 0.
func (s *GymService) MemberRegistrationCount(ctx context.Context, memberName string) (int, error) {
	regs, err := s.RegistrationHistory(ctx, memberName)
	if err != nil {
		return 0, err
	}
	return len(regs), nil
}

// resolveMember returns the single member named name, nil when there is none.
func (s *GymService) resolveMember(ctx context.Context, name string) (*model.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("member name is required")
	}
	members, err := s.store.FindMembersByName(ctx, name)
	if err != nil {
		return nil, storeError(err, "find member")
	}
	switch len(members) {
	case 0:
		return nil, nil
	case 1:
		return &members[0], nil
	default:
		return nil, &Error{
			Kind:    KindAmbiguousMember,
			Message: fmt.Sprintf("%d members are named %q", len(members), name),
			Err:     ErrAmbiguousMember,
		}
	}
}
