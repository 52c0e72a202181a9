package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Shivanand-hulikatti/steelfist/internal/model"
	"github.com/Shivanand-hulikatti/steelfist/internal/tracing"
)

// ListCourses returns every course matching f with its live registration
// count and availability.
func (s *GymService) ListCourses(ctx context.Context, f model.CourseFilter) (_ []model.CourseListing, err error) {
	ctx, span := s.start(ctx, "ListCourses",
		attribute.String("filter.specialty", string(f.Specialty)),
		attribute.String("filter.availability", string(f.Availability)),
		attribute.String("filter.sort", string(f.SortBy)))
	defer func() { tracing.End(span, err) }()

	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, storeError(err, "list courses")
	}
	return f.Apply(courses), nil
}

// ListMembers returns every member with their registration total and status.
func (s *GymService) ListMembers(ctx context.Context) (_ []model.MemberListing, err error) {
	ctx, span := s.start(ctx, "ListMembers")
	defer func() { tracing.End(span, err) }()

	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, storeError(err, "list members")
	}
	if members == nil {
		members = []model.MemberListing{}
	}
	return members, nil
}

// ListCoaches returns every coach with their course count.
func (s *GymService) ListCoaches(ctx context.Context) (_ []model.CoachListing, err error) {
	ctx, span := s.start(ctx, "ListCoaches")
	defer func() { tracing.End(span, err) }()

	coaches, err := s.store.ListCoaches(ctx)
	if err != nil {
		return nil, storeError(err, "list coaches")
	}
	if coaches == nil {
		coaches = []model.CoachListing{}
	}
	return coaches, nil
}

// ListRegistrations returns the registration overview.
func (s *GymService) ListRegistrations(ctx context.Context) (_ []model.RegistrationDetail, err error) {
	ctx, span := s.start(ctx, "ListRegistrations")
	defer func() { tracing.End(span, err) }()

	details, err := s.store.ListDetails(ctx)
	if err != nil {
		return nil, storeError(err, "list registrations")
	}
	if details == nil {
		details = []model.RegistrationDetail{}
	}
	return details, nil
}

// Statistics summarises members, coaches, courses and the ledger.
func (s *GymService) Statistics(ctx context.Context) (_ *model.Statistics, err error) {
	ctx, span := s.start(ctx, "Statistics")
	defer func() { tracing.End(span, err) }()

	st, err := s.store.Statistics(ctx)
	if err != nil {
		return nil, storeError(err, "statistics")
	}
	return st, nil
}

// GetMember returns a member by id.
func (s *GymService) GetMember(ctx context.Context, id int64) (*model.Member, error) {
	if err := positiveID(id, "member_id"); err != nil {
		return nil, err
	}
	m, err := s.store.GetMember(ctx, id)
	if err != nil {
		return nil, storeError(err, "get member")
	}
	return m, nil
}

// GetCoach returns a coach by id.
func (s *GymService) GetCoach(ctx context.Context, id int64) (*model.Coach, error) {
	if err := positiveID(id, "coach_id"); err != nil {
		return nil, err
	}
	c, err := s.store.GetCoach(ctx, id)
	if err != nil {
		return nil, storeError(err, "get coach")
	}
	return c, nil
}

// GetCourse returns a course by id.
func (s *GymService) GetCourse(ctx context.Context, id int64) (*model.Course, error) {
	if err := positiveID(id, "course_id"); err != nil {
		return nil, err
	}
	c, err := s.store.GetCourse(ctx, id)
	if err != nil {
		return nil, storeError(err, "get course")
	}
	return c, nil
}
