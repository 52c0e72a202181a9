package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseSpecialty(t *testing.T) {
	sp, ok := ParseSpecialty("  Athletes Trainings ")
	require.True(t, ok)
	require.Equal(t, SpecialtyAthletes, sp)

	_, ok = ParseSpecialty("boxing")
	require.False(t, ok)
}

func TestRemaining_NeverNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		capacity := rapid.IntRange(1, 100).Draw(rt, "capacity")
		regs := rapid.IntRange(0, 200).Draw(rt, "registrations")

		left := Remaining(capacity, regs)
		if left < 0 {
			rt.Fatalf("Remaining(%d, %d) = %d", capacity, regs, left)
		}
		if (AvailabilityOf(capacity, regs) == Full) != (left == 0) {
			rt.Fatalf("availability disagrees with remaining places for %d/%d", regs, capacity)
		}
	})
}

func TestStatusOf(t *testing.T) {
	require.Equal(t, Inactive, StatusOf(0))
	require.Equal(t, Active, StatusOf(3))
}

func TestCourseFilter_Apply(t *testing.T) {
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	listings := []CourseListing{
		NewCourseListing(Course{ID: 1, Name: "Zen", ScheduledAt: base.Add(2 * time.Hour), MaxCapacity: 2}, "Maya", SpecialtyYoga, 2),
		NewCourseListing(Course{ID: 2, Name: "Box", ScheduledAt: base, MaxCapacity: 5}, "Tom", SpecialtyCrossfit, 1),
		NewCourseListing(Course{ID: 3, Name: "Asana", ScheduledAt: base.Add(time.Hour), MaxCapacity: 4}, "Maya", SpecialtyYoga, 3),
	}

	ids := func(ls []CourseListing) []int64 {
		out := make([]int64, len(ls))
		for i, l := range ls {
			out[i] = l.CourseID
		}
		return out
	}

	require.Equal(t, []int64{2, 3, 1}, ids(CourseFilter{}.Apply(listings)))
	require.Equal(t, []int64{3, 2, 1}, ids(CourseFilter{SortBy: SortByName}.Apply(listings)))
	require.Equal(t, []int64{3, 1, 2}, ids(CourseFilter{SortBy: SortByRegistrations}.Apply(listings)))
	require.Equal(t, []int64{3, 1}, ids(CourseFilter{Specialty: SpecialtyYoga}.Apply(listings)))
	require.Equal(t, []int64{1}, ids(CourseFilter{Availability: Full}.Apply(listings)))
	require.Empty(t, CourseFilter{Specialty: SpecialtyZumba}.Apply(listings))

	// The input order is untouched.
	require.Equal(t, []int64{1, 2, 3}, ids(listings))
}

func TestNewCourseListing(t *testing.T) {
	l := NewCourseListing(Course{ID: 9, MaxCapacity: 3}, "", "", 5)
	require.Equal(t, 0, l.AvailableSpots)
	require.Equal(t, Full, l.Availability)
	require.Equal(t, 5, l.CurrentRegistrations)
}
