package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Shivanand-hulikatti/steelfist/internal/model"
	"github.com/Shivanand-hulikatti/steelfist/internal/service"
	"github.com/Shivanand-hulikatti/steelfist/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func TestAddMember(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	m, err := svc.AddMember(ctx, model.NewMemberRequest{Name: " Jane Doe ", Email: "Jane@Example.com", CardNumber: ptr(int64(4242))})
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", m.Name)
	require.Equal(t, "jane@example.com", m.Email)
	require.NotNil(t, m.AccessCardID)

	members, err := svc.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, int64(4242), *members[0].CardNumber)
	require.Equal(t, model.Inactive, members[0].Status)

	_, err = svc.AddMember(ctx, model.NewMemberRequest{Name: "Other", Email: "o@example.com", CardNumber: ptr(int64(4242))})
	requireKind(t, err, service.KindInvalidInput)

	for _, req := range []model.NewMemberRequest{
		{Name: "", Email: "a@example.com"},
		{Name: "A", Email: ""},
		{Name: "A", Email: "not-an-email"},
		{Name: "A", Email: "a@example.com", CardNumber: ptr(int64(0))},
	} {
		_, err := svc.AddMember(ctx, req)
		requireKind(t, err, service.KindInvalidInput)
	}
}

func TestAddMember_GeneratedCardRetriesCollisions(t *testing.T) {
	store := testutil.NewStore(t)
	codes := []int64{111111, 111111, 222222}
	next := func() int64 {
		c := codes[0]
		codes = codes[1:]
		return c
	}
	svc := service.NewGymService(store, service.WithCardCodes(next))
	ctx := context.Background()

	_, err := svc.AddMember(ctx, model.NewMemberRequest{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	_, err = svc.AddMember(ctx, model.NewMemberRequest{Name: "B", Email: "b@example.com"})
	require.NoError(t, err)

	members, err := svc.ListMembers(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(111111), *members[0].CardNumber)
	require.Equal(t, int64(222222), *members[1].CardNumber)
}

func TestAddMember_RandomCardIsSixDigits(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.AddMember(ctx, model.NewMemberRequest{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)

	members, err := svc.ListMembers(ctx)
	require.NoError(t, err)
	require.NotNil(t, members[0].CardNumber)
	require.GreaterOrEqual(t, *members[0].CardNumber, int64(100000))
	require.LessOrEqual(t, *members[0].CardNumber, int64(999999))
}

func TestAddCoach(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	c, err := svc.AddCoach(ctx, model.NewCoachRequest{Name: "Maya", Specialty: "Body Training"})
	require.NoError(t, err)
	require.Equal(t, model.SpecialtyBody, c.Specialty)

	_, err = svc.AddCoach(ctx, model.NewCoachRequest{Name: "Maya", Specialty: "boxing"})
	requireKind(t, err, service.KindInvalidInput)
	_, err = svc.AddCoach(ctx, model.NewCoachRequest{Name: " ", Specialty: "yoga"})
	requireKind(t, err, service.KindInvalidInput)
}

func TestAddCourse(t *testing.T) {
	svc, fx := setupService(t)
	ctx := context.Background()
	coach := fx.Coach("Maya", model.SpecialtyPilates)

	c, err := svc.AddCourse(ctx, model.NewCourseRequest{
		Name:        "Core",
		ScheduledAt: "2026-11-02T18:30:00+01:00",
		MaxCapacity: 15,
		CoachID:     &coach.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "2026-11-02T17:30:00Z", c.ScheduledAt.Format("2006-01-02T15:04:05Z07:00"))

	got, err := svc.GetCourse(ctx, c.ID)
	require.NoError(t, err)
	require.True(t, got.ScheduledAt.Equal(c.ScheduledAt))
	require.Equal(t, 15, got.MaxCapacity)

	_, err = svc.AddCourse(ctx, model.NewCourseRequest{Name: "Core", ScheduledAt: "2026-11-02", MaxCapacity: 10, CoachID: ptr(int64(999))})
	requireKind(t, err, service.KindNotFound)

	for _, req := range []model.NewCourseRequest{
		{Name: "", ScheduledAt: "2026-11-02", MaxCapacity: 10},
		{Name: "Core", ScheduledAt: "next tuesday", MaxCapacity: 10},
		{Name: "Core", ScheduledAt: "2026-11-02", MaxCapacity: 0},
		{Name: "Core", ScheduledAt: "2026-11-02", MaxCapacity: 10, CoachID: ptr(int64(-1))},
	} {
		_, err := svc.AddCourse(ctx, req)
		requireKind(t, err, service.KindInvalidInput)
	}
}

func TestDeleteCoach_Cascades(t *testing.T) {
	svc, fx := setupService(t)
	ctx := context.Background()

	coach := fx.Coach("Maya", model.SpecialtyYoga)
	other := fx.Coach("Tom", model.SpecialtyZumba)
	owned := fx.Course("Owned", 1, coach)
	kept := fx.Course("Kept", 4, other)
	member := fx.Member("Alex")

	_, err := svc.Register(ctx, member.ID, owned.ID)
	require.NoError(t, err)
	_, err = svc.Register(ctx, member.ID, kept.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCoach(ctx, coach.ID))

	courses, err := svc.ListCourses(ctx, model.CourseFilter{})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, kept.ID, courses[0].CourseID)

	_, err = svc.GetCourse(ctx, owned.ID)
	requireKind(t, err, service.KindNotFound)

	regs, err := svc.ListRegistrations(ctx)
	require.NoError(t, err)
	require.Len(t, regs, 1)
	require.Equal(t, kept.ID, regs[0].CourseID)

	err = svc.DeleteCoach(ctx, coach.ID)
	requireKind(t, err, service.KindNotFound)
}

func TestDeleteCourse(t *testing.T) {
	svc, fx := setupService(t)
	ctx := context.Background()

	course := fx.Course("Spin", 3, nil)
	member := fx.Member("Alex")
	_, err := svc.Register(ctx, member.ID, course.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCourse(ctx, course.ID))
	n, err := svc.MemberRegistrationCount(ctx, "Alex")
	require.NoError(t, err)
	require.Zero(t, n)

	requireKind(t, svc.DeleteCourse(ctx, course.ID), service.KindNotFound)
	requireKind(t, svc.DeleteCourse(ctx, 0), service.KindInvalidInput)
}

func TestDeleteMember(t *testing.T) {
	svc, fx := setupService(t)
	ctx := context.Background()

	alex := fx.Member("Alex")
	course := fx.Course("Spin", 3, nil)
	_, err := svc.Register(ctx, alex.ID, course.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMember(ctx, "Alex"))
	_, err = svc.GetMember(ctx, alex.ID)
	requireKind(t, err, service.KindNotFound)

	count, err := svc.RegistrationCount(ctx, course.ID)
	require.NoError(t, err)
	require.Zero(t, count)

	requireKind(t, svc.DeleteMember(ctx, "Alex"), service.KindNotFound)

	fx.Member("Chris")
	fx.Member("Chris")
	requireKind(t, svc.DeleteMember(ctx, "Chris"), service.KindAmbiguousMember)
	members, err := svc.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 2)
}

func TestUpdateMember(t *testing.T) {
	svc, fx := setupService(t)
	ctx := context.Background()
	m := fx.Member("Alex")

	require.NoError(t, svc.UpdateMember(ctx, m.ID, model.MemberUpdate{Email: ptr("New@Example.com")}))
	got, err := svc.GetMember(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, "Alex", got.Name)
	require.Equal(t, "new@example.com", got.Email)

	require.NoError(t, svc.UpdateMember(ctx, m.ID, model.MemberUpdate{Name: ptr("Alexandra"), Email: ptr("  ")}))
	got, err = svc.GetMember(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, "Alexandra", got.Name)
	require.Equal(t, "new@example.com", got.Email)

	err = svc.UpdateMember(ctx, m.ID, model.MemberUpdate{Name: ptr(""), Email: nil})
	requireKind(t, err, service.KindNoFieldsToUpdate)
	require.ErrorIs(t, err, service.ErrNoFieldsToUpdate)

	// No fields is reported before the member is looked up.
	requireKind(t, svc.UpdateMember(ctx, 999, model.MemberUpdate{}), service.KindNoFieldsToUpdate)
	requireKind(t, svc.UpdateMember(ctx, 999, model.MemberUpdate{Name: ptr("X")}), service.KindNotFound)
	requireKind(t, svc.UpdateMember(ctx, m.ID, model.MemberUpdate{Email: ptr("broken")}), service.KindInvalidInput)
}

func TestUpdateCoach(t *testing.T) {
	svc, fx := setupService(t)
	ctx := context.Background()
	c := fx.Coach("Maya", model.SpecialtyYoga)

	require.NoError(t, svc.UpdateCoach(ctx, c.ID, model.CoachUpdate{Specialty: ptr("CrossFit")}))
	got, err := svc.GetCoach(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "Maya", got.Name)
	require.Equal(t, model.SpecialtyCrossfit, got.Specialty)

	requireKind(t, svc.UpdateCoach(ctx, c.ID, model.CoachUpdate{}), service.KindNoFieldsToUpdate)
	requireKind(t, svc.UpdateCoach(ctx, c.ID, model.CoachUpdate{Specialty: ptr("boxing")}), service.KindInvalidInput)
	requireKind(t, svc.UpdateCoach(ctx, 999, model.CoachUpdate{Name: ptr("X")}), service.KindNotFound)
}

func TestOutcome(t *testing.T) {
	res := service.Outcome(nil, "Coach successfully added")
	require.Equal(t, service.Result{Success: true, Message: "Coach successfully added"}, res)

	svc, _ := setupService(t)
	err := svc.DeleteCoach(context.Background(), 12)
	res = service.Outcome(err, "unused")
	require.False(t, res.Success)
	require.Equal(t, service.KindNotFound, res.Kind)
	require.Equal(t, "coach not found", res.Message)
}

func TestStorageErrorPreservesCause(t *testing.T) {
	store := testutil.NewStore(t)
	svc := service.NewGymService(store)
	require.NoError(t, store.Close())

	_, err := svc.ListCourses(context.Background(), model.CourseFilter{})
	requireKind(t, err, service.KindStorage)
	require.Contains(t, err.Error(), "list courses failed: ")
}

func TestOperationsRecordSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	svc := service.NewGymService(testutil.NewStore(t), service.WithTracer(provider.Tracer("test")))

	_, err := svc.Register(context.Background(), 1, 1)
	requireKind(t, err, service.KindNotFound)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "service.Register", spans[0].Name())
	require.Equal(t, codes.Error, spans[0].Status().Code)
}
