// Package repository defines the persistence contract of the gym registration
// system. The postgres and sqlite subpackages implement it; the registration
// ledger (the registrations table) is the single source for every derived count.
package repository

import (
	"context"
	"errors"

	"github.com/Shivanand-hulikatti/steelfist/internal/model"
)

// ErrMemberNotFound is returned when a member id does not exist.
var ErrMemberNotFound = errors.New("member not found")

// ErrCoachNotFound is returned when a coach id does not exist.
var ErrCoachNotFound = errors.New("coach not found")

// ErrCourseNotFound is returned when a course id does not exist.
var ErrCourseNotFound = errors.New("course not found")

// ErrCourseFull is returned when a course has no remaining capacity.
var ErrCourseFull = errors.New("course is full")

// ErrAlreadyRegistered is returned when a member registers twice for a course.
var ErrAlreadyRegistered = errors.New("member already registered for this course")

// ErrAccessCardInUse is returned when a card number is already minted.
var ErrAccessCardInUse = errors.New("access card number already in use")

// MemberRepository persists members and their access cards.
type MemberRepository interface {
	// CreateMember mints an access card with cardNumber and links it to a new member.
	CreateMember(ctx context.Context, name, email string, cardNumber int64) (*model.Member, error)
	GetMember(ctx context.Context, id int64) (*model.Member, error)
	// FindMembersByName returns every member with exactly this name, by id.
	FindMembersByName(ctx context.Context, name string) ([]model.Member, error)
	UpdateMember(ctx context.Context, id int64, name, email *string) error
	// DeleteMember removes the member, their registrations and their card.
	DeleteMember(ctx context.Context, id int64) error
	ListMembers(ctx context.Context) ([]model.MemberListing, error)
}

// CoachRepository persists coaches.
type CoachRepository interface {
	CreateCoach(ctx context.Context, name string, specialty model.Specialty) (*model.Coach, error)
	GetCoach(ctx context.Context, id int64) (*model.Coach, error)
	UpdateCoach(ctx context.Context, id int64, name *string, specialty *model.Specialty) error
	// DeleteCoach cascades to the coach's courses and their registrations.
	DeleteCoach(ctx context.Context, id int64) error
	ListCoaches(ctx context.Context) ([]model.CoachListing, error)
}

// CourseRepository persists courses and answers ledger-derived counts.
type CourseRepository interface {
	// CreateCourse returns ErrCoachNotFound when CoachID references no coach.
	CreateCourse(ctx context.Context, c model.Course) (*model.Course, error)
	GetCourse(ctx context.Context, id int64) (*model.Course, error)
	// DeleteCourse cascades to the course's registrations.
	DeleteCourse(ctx context.Context, id int64) error
	ListCourses(ctx context.Context) ([]model.CourseListing, error)
	CountRegistrations(ctx context.Context, courseID int64) (int, error)
}

// RegistrationRepository owns the registration ledger.
type RegistrationRepository interface {
	// Book admits memberID to courseID. Checks run in order inside one
	// transaction: member exists, course exists, capacity, duplicate.
	Book(ctx context.Context, memberID, courseID int64) (*model.Registration, error)
	ListByMember(ctx context.Context, memberID int64) ([]model.Registration, error)
	ListDetails(ctx context.Context) ([]model.RegistrationDetail, error)
	Statistics(ctx context.Context) (*model.Statistics, error)
}

// Store is the full persistence surface used by the service layer.
type Store interface {
	MemberRepository
	CoachRepository
	CourseRepository
	RegistrationRepository

	Ping(ctx context.Context) error
	Close() error
}

// IsDomainError reports whether err is one of the sentinels above, as opposed
// to a driver or connection failure.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrMemberNotFound, ErrCoachNotFound, ErrCourseNotFound,
		ErrCourseFull, ErrAlreadyRegistered, ErrAccessCardInUse,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
