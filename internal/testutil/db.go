// Package testutil provides test fixtures shared across packages.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/steelfist/internal/database"
	"github.com/Shivanand-hulikatti/steelfist/internal/model"
	"github.com/Shivanand-hulikatti/steelfist/internal/repository/sqlite"
)

// NewStore returns a migrated in-memory SQLite store private to the test.
// The store is closed when the test completes.
func NewStore(t testing.TB) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(context.Background(), database.MemoryPath)
	require.NoError(t, err, "open in-memory store")
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// Fixtures seeds entities directly through a store.
type Fixtures struct {
	t     testing.TB
	store *sqlite.Store
	card  int64
}

// NewFixtures wraps store for seeding.
func NewFixtures(t testing.TB, store *sqlite.Store) *Fixtures {
	return &Fixtures{t: t, store: store, card: 500_000}
}

// Member creates a member with a fresh card number.
func (f *Fixtures) Member(name string) *model.Member {
	f.t.Helper()
	f.card++
	m, err := f.store.CreateMember(context.Background(), name, "member@example.com", f.card)
	require.NoError(f.t, err)
	return m
}

// Coach creates a coach.
func (f *Fixtures) Coach(name string, specialty model.Specialty) *model.Coach {
	f.t.Helper()
	c, err := f.store.CreateCoach(context.Background(), name, specialty)
	require.NoError(f.t, err)
	return c
}

// Course creates a course with the given capacity, scheduled a day ahead.
func (f *Fixtures) Course(name string, capacity int, coach *model.Coach) *model.Course {
	f.t.Helper()
	c := model.Course{
		Name:        name,
		ScheduledAt: time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second),
		MaxCapacity: capacity,
	}
	if coach != nil {
		c.CoachID = &coach.ID
	}
	created, err := f.store.CreateCourse(context.Background(), c)
	require.NoError(f.t, err)
	return created
}
