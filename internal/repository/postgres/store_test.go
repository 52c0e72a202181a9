package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/steelfist/internal/model"
	"github.com/Shivanand-hulikatti/steelfist/internal/repository"
	"github.com/Shivanand-hulikatti/steelfist/internal/repository/postgres"
)

// setupStore connects to the database named by STEELFIST_TEST_DSN, migrates
// it and empties every table. The test is skipped when the variable is unset.
func setupStore(t *testing.T) *postgres.Store {
	t.Helper()
	dsn := os.Getenv("STEELFIST_TEST_DSN")
	if dsn == "" {
		t.Skip("STEELFIST_TEST_DSN not set; skipping postgres integration test")
	}
	ctx := context.Background()

	require.NoError(t, postgres.Migrate(dsn))
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	_, err = pool.Exec(ctx,
		`TRUNCATE registrations, courses, coaches, members, access_cards RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	store := postgres.New(pool)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_RegistrationLifecycle(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	coach, err := store.CreateCoach(ctx, "Maya", model.SpecialtyYoga)
	require.NoError(t, err)
	at := time.Date(2026, 11, 2, 7, 0, 0, 0, time.UTC)
	course, err := store.CreateCourse(ctx, model.Course{Name: "Sunrise", ScheduledAt: at, MaxCapacity: 1, CoachID: &coach.ID})
	require.NoError(t, err)
	alex, err := store.CreateMember(ctx, "Alex", "alex@example.com", 1001)
	require.NoError(t, err)
	sam, err := store.CreateMember(ctx, "Sam", "sam@example.com", 1002)
	require.NoError(t, err)

	_, err = store.CreateMember(ctx, "Dup", "dup@example.com", 1001)
	require.ErrorIs(t, err, repository.ErrAccessCardInUse)

	reg, err := store.Book(ctx, alex.ID, course.ID)
	require.NoError(t, err)
	require.True(t, reg.RegistrationDate.Equal(at))

	_, err = store.Book(ctx, sam.ID, course.ID)
	require.ErrorIs(t, err, repository.ErrCourseFull)
	_, err = store.Book(ctx, 999, course.ID)
	require.ErrorIs(t, err, repository.ErrMemberNotFound)
	_, err = store.Book(ctx, alex.ID, 999)
	require.ErrorIs(t, err, repository.ErrCourseNotFound)

	listings, err := store.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	require.Equal(t, model.Full, listings[0].Availability)
	require.Equal(t, "Maya", listings[0].CoachName)

	members, err := store.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 2)
	require.Equal(t, model.Active, members[0].Status)
	require.Equal(t, int64(1001), *members[0].CardNumber)

	st, err := store.Statistics(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, st.FullCourses)
	require.Equal(t, 1, st.CoachesBySpecialty[model.SpecialtyYoga])

	require.NoError(t, store.UpdateMember(ctx, sam.ID, nil, ptr("samuel@example.com")))
	got, err := store.GetMember(ctx, sam.ID)
	require.NoError(t, err)
	require.Equal(t, "samuel@example.com", got.Email)

	require.NoError(t, store.DeleteMember(ctx, alex.ID))
	require.ErrorIs(t, store.DeleteMember(ctx, alex.ID), repository.ErrMemberNotFound)

	require.NoError(t, store.DeleteCoach(ctx, coach.ID))
	_, err = store.GetCourse(ctx, course.ID)
	require.ErrorIs(t, err, repository.ErrCourseNotFound)

	missing := int64(404)
	_, err = store.CreateCourse(ctx, model.Course{Name: "Ghost", ScheduledAt: at, MaxCapacity: 2, CoachID: &missing})
	require.ErrorIs(t, err, repository.ErrCoachNotFound)
}

func TestStore_ConcurrentBookingsRespectCapacity(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	const capacity, contenders = 5, 30
	course, err := store.CreateCourse(ctx, model.Course{Name: "Popular", ScheduledAt: time.Now(), MaxCapacity: capacity})
	require.NoError(t, err)
	ids := make([]int64, contenders)
	for i := range ids {
		m, err := store.CreateMember(ctx, "Racer", "racer@example.com", int64(2000+i))
		require.NoError(t, err)
		ids[i] = m.ID
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var booked, full int
	for _, id := range ids {
		wg.Add(1)
		go func(memberID int64) {
			defer wg.Done()
			_, err := store.Book(ctx, memberID, course.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				booked++
			case errors.Is(err, repository.ErrCourseFull):
				full++
			default:
				t.Errorf("unexpected booking error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	require.Equal(t, capacity, booked)
	require.Equal(t, contenders-capacity, full)
}

func ptr[T any](v T) *T { return &v }
