package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/steelfist/internal/model"
	"github.com/Shivanand-hulikatti/steelfist/internal/seed"
	"github.com/Shivanand-hulikatti/steelfist/internal/service"
	"github.com/Shivanand-hulikatti/steelfist/internal/testutil"
)

var small = seed.Options{Members: 8, Coaches: 3, Courses: 5, Registrations: 30}

func TestRun_PopulatesEmptyStore(t *testing.T) {
	svc := service.NewGymService(testutil.NewStore(t))
	ctx := context.Background()

	sum, err := seed.New(svc, 42).Run(ctx, small)
	require.NoError(t, err)
	require.Equal(t, 8, sum.Members)
	require.Equal(t, 3, sum.Coaches)
	require.Equal(t, 5, sum.Courses)
	require.Equal(t, 30, sum.Registrations+sum.Rejected)

	st, err := svc.Statistics(ctx)
	require.NoError(t, err)
	require.Equal(t, 8, st.TotalMembers)
	require.Equal(t, 3, st.TotalCoaches)
	require.Equal(t, 5, st.TotalCourses)
	require.Equal(t, sum.Registrations, st.TotalRegistrations)

	courses, err := svc.ListCourses(ctx, model.CourseFilter{})
	require.NoError(t, err)
	for _, c := range courses {
		require.GreaterOrEqual(t, c.MaxCapacity, 10)
		require.LessOrEqual(t, c.MaxCapacity, 30)
		require.LessOrEqual(t, c.CurrentRegistrations, c.MaxCapacity)
		require.NotNil(t, c.CoachID)
	}
}

func TestRun_SkipsPopulatedKindsUnlessForced(t *testing.T) {
	svc := service.NewGymService(testutil.NewStore(t))
	ctx := context.Background()
	s := seed.New(svc, 7)

	_, err := s.Run(ctx, small)
	require.NoError(t, err)

	again, err := s.Run(ctx, small)
	require.NoError(t, err)
	require.Equal(t, seed.Summary{}, again)

	forced := small
	forced.Force = true
	sum, err := s.Run(ctx, forced)
	require.NoError(t, err)
	require.Equal(t, 8, sum.Members)

	st, err := svc.Statistics(ctx)
	require.NoError(t, err)
	require.Equal(t, 16, st.TotalMembers)
	require.Equal(t, 10, st.TotalCourses)
}
