package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/steelfist/internal/database"
	"github.com/Shivanand-hulikatti/steelfist/internal/model"
	"github.com/Shivanand-hulikatti/steelfist/internal/repository"
	"github.com/Shivanand-hulikatti/steelfist/internal/repository/sqlite"
	"github.com/Shivanand-hulikatti/steelfist/internal/testutil"
)

func TestOpen_AppliesMigrations(t *testing.T) {
	store := testutil.NewStore(t)

	var tables int
	err := store.DB().QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table' AND name IN ('access_cards', 'members', 'coaches', 'courses', 'registrations')`,
	).Scan(&tables)
	require.NoError(t, err)
	require.Equal(t, 5, tables)

	m, err := database.NewSQLiteMigrator(store.DB())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	v, dirty, ok, err := m.Version()
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, dirty)
	require.Equal(t, uint(1), v)

	// Closing the migrator leaves the store usable.
	require.NoError(t, m.Close())
	require.NoError(t, store.Ping(context.Background()))
}

func TestOpen_ReopensFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "gym.db")
	ctx := context.Background()

	store, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	_, err = store.CreateCoach(ctx, "Maya", model.SpecialtyYoga)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = sqlite.Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	coaches, err := store.ListCoaches(ctx)
	require.NoError(t, err)
	require.Len(t, coaches, 1)
}

func TestMemoryStoresAreIsolated(t *testing.T) {
	a := testutil.NewStore(t)
	b := testutil.NewStore(t)
	ctx := context.Background()

	_, err := a.CreateCoach(ctx, "Maya", model.SpecialtyYoga)
	require.NoError(t, err)
	coaches, err := b.ListCoaches(ctx)
	require.NoError(t, err)
	require.Empty(t, coaches)
}

func TestCreateMember_CardNumberUnique(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()

	m, err := store.CreateMember(ctx, "Alex", "alex@example.com", 777)
	require.NoError(t, err)
	require.NotNil(t, m.AccessCardID)

	_, err = store.CreateMember(ctx, "Sam", "sam@example.com", 777)
	require.ErrorIs(t, err, repository.ErrAccessCardInUse)

	members, err := store.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 1)
}

func TestDeleteMember_RemovesCardAndRegistrations(t *testing.T) {
	store := testutil.NewStore(t)
	fx := testutil.NewFixtures(t, store)
	ctx := context.Background()

	m := fx.Member("Alex")
	c := fx.Course("Spin", 3, nil)
	_, err := store.Book(ctx, m.ID, c.ID)
	require.NoError(t, err)

	require.NoError(t, store.DeleteMember(ctx, m.ID))
	require.ErrorIs(t, store.DeleteMember(ctx, m.ID), repository.ErrMemberNotFound)

	var cards, regs int
	require.NoError(t, store.DB().QueryRow(`SELECT COUNT(*) FROM access_cards`).Scan(&cards))
	require.NoError(t, store.DB().QueryRow(`SELECT COUNT(*) FROM registrations`).Scan(&regs))
	require.Zero(t, cards)
	require.Zero(t, regs)
}

func TestForeignKeysCascade(t *testing.T) {
	store := testutil.NewStore(t)
	fx := testutil.NewFixtures(t, store)
	ctx := context.Background()

	coach := fx.Coach("Maya", model.SpecialtyYoga)
	c := fx.Course("Flow", 2, coach)
	m := fx.Member("Alex")
	_, err := store.Book(ctx, m.ID, c.ID)
	require.NoError(t, err)

	// Delete through raw SQL so the schema, not the store, does the cascading.
	_, err = store.DB().Exec(`DELETE FROM coaches WHERE coach_id = ?`, coach.ID)
	require.NoError(t, err)

	_, err = store.GetCourse(ctx, c.ID)
	require.ErrorIs(t, err, repository.ErrCourseNotFound)
	regs, err := store.ListByMember(ctx, m.ID)
	require.NoError(t, err)
	require.Empty(t, regs)
}

func TestCreateCourse_UnknownCoach(t *testing.T) {
	store := testutil.NewStore(t)
	missing := int64(12)

	_, err := store.CreateCourse(context.Background(), model.Course{
		Name: "Ghost", ScheduledAt: time.Now(), MaxCapacity: 3, CoachID: &missing,
	})
	require.ErrorIs(t, err, repository.ErrCoachNotFound)
}

func TestBook_TimesRoundTripAsUTC(t *testing.T) {
	store := testutil.NewStore(t)
	fx := testutil.NewFixtures(t, store)
	ctx := context.Background()

	at := time.Date(2026, 11, 2, 18, 30, 0, 0, time.FixedZone("CET", 3600))
	c, err := store.CreateCourse(ctx, model.Course{Name: "Core", ScheduledAt: at, MaxCapacity: 2})
	require.NoError(t, err)
	m := fx.Member("Alex")

	reg, err := store.Book(ctx, m.ID, c.ID)
	require.NoError(t, err)
	require.True(t, reg.RegistrationDate.Equal(at))
	require.Equal(t, time.UTC, reg.RegistrationDate.Location())

	got, err := store.GetCourse(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "2026-11-02T17:30:00Z", got.ScheduledAt.Format(time.RFC3339))
}

// TestBook_ConcurrentBookingsRespectCapacity races many bookings for one
// course over a pooled file database.
func TestBook_ConcurrentBookingsRespectCapacity(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "race.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	fx := testutil.NewFixtures(t, store)

	const capacity, contenders = 5, 24
	course := fx.Course("Popular", capacity, nil)
	members := make([]*model.Member, contenders)
	for i := range members {
		members[i] = fx.Member("Racer")
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		booked  int
		full    int
		unknown []error
	)
	start := make(chan struct{})
	for _, m := range members {
		wg.Add(1)
		go func(memberID int64) {
			defer wg.Done()
			<-start
			_, err := store.Book(ctx, memberID, course.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				booked++
			case errors.Is(err, repository.ErrCourseFull):
				full++
			default:
				unknown = append(unknown, err)
			}
		}(m.ID)
	}
	close(start)
	wg.Wait()

	require.Empty(t, unknown)
	require.Equal(t, capacity, booked)
	require.Equal(t, contenders-capacity, full)

	n, err := store.CountRegistrations(ctx, course.ID)
	require.NoError(t, err)
	require.Equal(t, capacity, n)
}
