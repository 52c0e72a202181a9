// Package seed fills a store with realistic demo data. Every entity is created
// through the service, so seeded data obeys the same rules as user input.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/Shivanand-hulikatti/steelfist/internal/model"
	"github.com/Shivanand-hulikatti/steelfist/internal/service"
)

// Options sizes a seeding run. Zero counts fall back to the defaults.
type Options struct {
	Members       int
	Coaches       int
	Courses       int
	Registrations int

	// Force seeds entity kinds that already have rows, adding on top.
	Force bool
}

// DefaultOptions mirrors a small gym.
func DefaultOptions() Options {
	return Options{Members: 40, Coaches: 12, Courses: 40, Registrations: 120}
}

// Summary counts what a run created.
type Summary struct {
	Members       int
	Coaches       int
	Courses       int
	Registrations int
	// Rejected counts registration attempts refused as full or duplicate.
	Rejected int
}

// Seeder generates data with a deterministic faker.
type Seeder struct {
	svc   *service.GymService
	faker *gofakeit.Faker
	now   func() time.Time
}

// New returns a Seeder; equal seeds produce equal data.
func New(svc *service.GymService, seed uint64) *Seeder {
	return &Seeder{svc: svc, faker: gofakeit.New(seed), now: time.Now}
}

// Run seeds members, coaches, courses and registrations in dependency order.
// Without opts.Force a kind that already has rows is left alone.
func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	opts = withDefaults(opts)
	var sum Summary

	st, err := s.svc.Statistics(ctx)
	if err != nil {
		return sum, err
	}

	if opts.Force || st.TotalMembers == 0 {
		if sum.Members, err = s.members(ctx, opts.Members); err != nil {
			return sum, err
		}
	}
	if opts.Force || st.TotalCoaches == 0 {
		if sum.Coaches, err = s.coaches(ctx, opts.Coaches); err != nil {
			return sum, err
		}
	}
	if opts.Force || st.TotalCourses == 0 {
		if sum.Courses, err = s.courses(ctx, opts.Courses); err != nil {
			return sum, err
		}
	}
	if opts.Force || st.TotalRegistrations == 0 {
		if sum.Registrations, sum.Rejected, err = s.registrations(ctx, opts.Registrations); err != nil {
			return sum, err
		}
	}

	slog.Info("seed complete",
		"members", sum.Members,
		"coaches", sum.Coaches,
		"courses", sum.Courses,
		"registrations", sum.Registrations,
		"rejected", sum.Rejected,
	)
	return sum, nil
}

func withDefaults(o Options) Options {
	d := DefaultOptions()
	if o.Members <= 0 {
		o.Members = d.Members
	}
	if o.Coaches <= 0 {
		o.Coaches = d.Coaches
	}
	if o.Courses <= 0 {
		o.Courses = d.Courses
	}
	if o.Registrations <= 0 {
		o.Registrations = d.Registrations
	}
	return o
}

func (s *Seeder) members(ctx context.Context, n int) (int, error) {
	for i := range n {
		if err := s.member(ctx); err != nil {
			return i, fmt.Errorf("seed member %d: %w", i+1, err)
		}
	}
	return n, nil
}

// member retries card numbers that happen to be taken.
func (s *Seeder) member(ctx context.Context) error {
	var err error
	for range 3 {
		card := int64(s.faker.Number(10_000_000, 99_999_999))
		_, err = s.svc.AddMember(ctx, model.NewMemberRequest{
			Name:       s.faker.Name(),
			Email:      s.faker.Email(),
			CardNumber: &card,
		})
		if service.KindOf(err) != service.KindInvalidInput {
			return err
		}
	}
	return err
}

func (s *Seeder) coaches(ctx context.Context, n int) (int, error) {
	for i := range n {
		sp := model.Specialties[s.faker.IntN(len(model.Specialties))]
		if _, err := s.svc.AddCoach(ctx, model.NewCoachRequest{
			Name:      s.faker.Name(),
			Specialty: string(sp),
		}); err != nil {
			return i, fmt.Errorf("seed coach %d: %w", i+1, err)
		}
	}
	return n, nil
}

// slot identifies one coach on one day; courses for the same coach are spread
// over distinct days where possible.
type slot struct {
	day   string
	coach int64
}

func (s *Seeder) courses(ctx context.Context, n int) (int, error) {
	coaches, err := s.svc.ListCoaches(ctx)
	if err != nil {
		return 0, err
	}
	if len(coaches) == 0 {
		return 0, nil
	}

	used := make(map[slot]bool)
	for i := range n {
		coach := coaches[s.faker.IntN(len(coaches))]
		var at time.Time
		for range 12 {
			at = s.futureTime()
			key := slot{day: at.Format(time.DateOnly), coach: coach.CoachID}
			if !used[key] {
				used[key] = true
				break
			}
		}

		if _, err := s.svc.AddCourse(ctx, model.NewCourseRequest{
			Name:        string(model.Specialties[s.faker.IntN(len(model.Specialties))]),
			ScheduledAt: at.Format(time.RFC3339),
			MaxCapacity: s.faker.IntRange(10, 30),
			CoachID:     &coach.CoachID,
		}); err != nil {
			return i, fmt.Errorf("seed course %d: %w", i+1, err)
		}
	}
	return n, nil
}

// futureTime is 1 to 120 days ahead, between 06:00 and 20:00 past the hour.
func (s *Seeder) futureTime() time.Time {
	days := s.faker.IntRange(1, 120)
	hours := s.faker.IntRange(6, 20)
	return s.now().UTC().Add(time.Duration(days)*24*time.Hour + time.Duration(hours)*time.Hour).Truncate(time.Second)
}

// registrations books random pairs through the engine. Full courses and
// repeats are expected rejections, not failures.
func (s *Seeder) registrations(ctx context.Context, n int) (created, rejected int, err error) {
	members, err := s.svc.ListMembers(ctx)
	if err != nil {
		return 0, 0, err
	}
	courses, err := s.svc.ListCourses(ctx, model.CourseFilter{})
	if err != nil {
		return 0, 0, err
	}
	if len(members) == 0 || len(courses) == 0 {
		return 0, 0, nil
	}

	for range n {
		m := members[s.faker.IntN(len(members))]
		c := courses[s.faker.IntN(len(courses))]
		_, err := s.svc.Register(ctx, m.MemberID, c.CourseID)
		switch service.KindOf(err) {
		case "":
			created++
		case service.KindCapacityExceeded, service.KindDuplicateRegistration:
			rejected++
		default:
			return created, rejected, fmt.Errorf("seed registration: %w", err)
		}
	}
	return created, rejected, nil
}
