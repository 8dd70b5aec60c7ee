package planner_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/planner"
	"github.com/trezcool/shule/core/resource"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/tests"
)

// wednesday 2024-05-15, 10:00 UTC
var pinnedNow = time.Date(2024, time.May, 15, 10, 0, 0, 0, time.UTC)

func pinClock(t *testing.T) {
	core.NowFunc = func() time.Time { return pinnedNow }
	t.Cleanup(func() { core.NowFunc = time.Now })
}

func setup(t *testing.T) (*testutil.Env, user.User) {
	pinClock(t)
	env := testutil.Setup(t)
	usr := testutil.CreateUser(t, env.DB, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	return env, usr
}

func createMasters(t *testing.T, env *testutil.Env, userID int, active, inactive int) {
	for i := 0; i < active+inactive; i++ {
		testutil.Create(t, env.DB, &planner.Task{UserID: userID, Title: "task", IsActive: i < active})
	}
}

func countDaily(t *testing.T, env *testutil.Env, userID int, date core.Date) int64 {
	var n int64
	require.NoError(t, env.DB.Model(&planner.DailyTask{}).
		Where("user_id = ? AND task_date = ?", userID, date.String()).
		Count(&n).Error)
	return n
}

func TestService_Materialize(t *testing.T) {
	env, usr := setup(t)
	svc := env.Services.Planner
	ctx := context.Background()
	today := svc.Today()
	createMasters(t, env, usr.ID, 3, 1)

	created, err := svc.Materialize(ctx, usr.ID, today)
	require.NoError(t, err)
	assert.EqualValues(t, 3, created)

	created, err = svc.Materialize(ctx, usr.ID, today)
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.EqualValues(t, 3, countDaily(t, env, usr.ID, today))

	// another day is materialized on its own
	created, err = svc.Materialize(ctx, usr.ID, today.AddDays(1))
	require.NoError(t, err)
	assert.EqualValues(t, 3, created)

	t.Run("user without master tasks", func(t *testing.T) {
		other := testutil.CreateUser(t, env.DB, "Other", "other", "other@test.cd", "", nil, true)
		created, err := svc.Materialize(ctx, other.ID, today)
		require.NoError(t, err)
		assert.Zero(t, created)
	})

	t.Run("a day with entries is left alone", func(t *testing.T) {
		other := testutil.CreateUser(t, env.DB, "Third", "third", "third@test.cd", "", nil, true)
		createMasters(t, env, other.ID, 2, 0)
		testutil.Create(t, env.DB, &planner.DailyTask{UserID: other.ID, TaskDate: today, Title: "ad hoc", Status: planner.StatusPending})

		created, err := svc.Materialize(ctx, other.ID, today)
		require.NoError(t, err)
		assert.Zero(t, created)
		assert.EqualValues(t, 1, countDaily(t, env, other.ID, today))
	})
}

func TestService_Materialize_concurrent(t *testing.T) {
	env, usr := setup(t)
	svc := env.Services.Planner
	today := svc.Today()
	createMasters(t, env, usr.ID, 4, 0)

	// the database, rollbar and zap goroutines outlive the calls below
	ignore := goleak.IgnoreCurrent()

	var totals [16]int64
	g, ctx := errgroup.WithContext(context.Background())
	for i := range totals {
		i := i
		g.Go(func() error {
			n, err := svc.Materialize(ctx, usr.ID, today)
			totals[i] = n
			return err
		})
	}
	require.NoError(t, g.Wait())

	var sum int64
	for _, n := range totals {
		sum += n
	}
	// callers sharing the single run all see its count
	assert.GreaterOrEqual(t, sum, int64(4))
	assert.EqualValues(t, 4, countDaily(t, env, usr.ID, today))

	goleak.VerifyNone(t, ignore)
}

func TestService_ListDaily(t *testing.T) {
	env, usr := setup(t)
	svc := env.Services.Planner
	ctx := context.Background()
	createMasters(t, env, usr.ID, 2, 0)
	caller := usr.Identity()

	got, err := svc.ListDaily(ctx, caller, core.Date{}, resource.ListParams{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-05-15", got[0].TaskDate.String())
	first := got[0]

	got, err = svc.ListDaily(ctx, caller, core.NewDate(2024, time.May, 14), resource.ListParams{})
	require.NoError(t, err)
	assert.Empty(t, got, "past days are never filled")

	status := planner.StatusCompleted
	_, err = env.Services.DailyTasks.Update(ctx, caller, first.ID, planner.UpdateDailyTask{Status: &status})
	require.NoError(t, err)

	got, err = svc.ListDaily(ctx, caller, core.Date{}, resource.ListParams{
		Filters: map[string]string{"status": planner.StatusCompleted, "task_date": "2000-01-01"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1, "the listed day wins over a task_date filter")
	assert.Equal(t, planner.StatusCompleted, got[0].Status)

	got, err = svc.ListDaily(ctx, caller, core.Date{}, resource.ListParams{
		Ordering: []core.DBOrdering{{Field: "id", Ascending: false}},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Greater(t, got[0].ID, got[1].ID)

	_, err = svc.ListDaily(ctx, caller, core.Date{}, resource.ListParams{
		Ordering: []core.DBOrdering{{Field: "title"}},
	})
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr), "got %v", err)
	assert.Equal(t, "ordering", vErr.Fields[0].Field)
}

func TestService_AddDistraction(t *testing.T) {
	env, usr := setup(t)
	svc := env.Services.Planner
	ctx := context.Background()
	log := planner.FocusLog{UserID: usr.ID, StartTime: pinnedNow}
	testutil.Create(t, env.DB, &log)

	for i := 1; i <= 3; i++ {
		got, err := svc.AddDistraction(ctx, usr.Identity(), log.ID)
		require.NoError(t, err)
		assert.Equal(t, i, got.DistractionCount)
	}

	other := testutil.CreateUser(t, env.DB, "Other", "other", "other@test.cd", "", nil, true)
	_, err := svc.AddDistraction(ctx, other.Identity(), log.ID)
	assert.Equal(t, core.ErrForbidden, err)

	_, err = svc.AddDistraction(ctx, usr.Identity(), 999)
	assert.True(t, core.IsNotFound(err), "got %v", err)
}

func TestService_Reports(t *testing.T) {
	env, usr := setup(t)
	svc := env.Services.Planner
	ctx := context.Background()

	monday := core.NewDate(2024, time.May, 13)
	today := svc.Today()
	completedAt := pinnedNow
	for _, dt := range []planner.DailyTask{
		{UserID: usr.ID, TaskDate: monday, Title: "a", Status: planner.StatusCompleted, CompletedAt: &completedAt},
		{UserID: usr.ID, TaskDate: monday, Title: "b", Status: planner.StatusSkipped},
		{UserID: usr.ID, TaskDate: today, Title: "c", Status: planner.StatusCompleted, CompletedAt: &completedAt},
		{UserID: usr.ID, TaskDate: today, Title: "d", Status: planner.StatusPending},
		// last week
		{UserID: usr.ID, TaskDate: monday.AddDays(-1), Title: "e", Status: planner.StatusCompleted, CompletedAt: &completedAt},
	} {
		dt := dt
		testutil.Create(t, env.DB, &dt)
	}

	focus := func(start time.Time, minutes *int) {
		log := planner.FocusLog{UserID: usr.ID, StartTime: start, DurationMinutes: minutes}
		if minutes != nil {
			end := start.Add(time.Duration(*minutes) * time.Minute)
			log.EndTime = &end
		}
		testutil.Create(t, env.DB, &log)
	}
	mondayStart, _ := monday.Bounds(time.UTC)
	todayStart, _ := today.Bounds(time.UTC)
	focus(mondayStart.Add(9*time.Hour), core.IntPtr(30))
	focus(todayStart.Add(8*time.Hour), core.IntPtr(45))
	focus(todayStart.Add(9*time.Hour), nil) // still open
	// started on tuesday just before midnight, counts for tuesday
	focus(todayStart.Add(-10*time.Minute), core.IntPtr(20))

	t.Run("daily", func(t *testing.T) {
		rep, err := svc.DailyReport(ctx, usr.Identity(), core.Date{})
		require.NoError(t, err)
		assert.Equal(t, planner.DailyReport{
			Date:          today,
			Completed:     1,
			Total:         2,
			FocusMinutes:  45,
			FocusSessions: 2,
		}, rep)
	})

	t.Run("weekly", func(t *testing.T) {
		rep, err := svc.WeeklyReport(ctx, usr.Identity())
		require.NoError(t, err)
		assert.Equal(t, "2024-05-13", rep.WeekStart.String())
		assert.Equal(t, "2024-05-15", rep.WeekEnd.String())
		require.Len(t, rep.Days, 3)
		assert.EqualValues(t, 2, rep.Completed)
		assert.EqualValues(t, 4, rep.Total)
		assert.EqualValues(t, 95, rep.FocusMinutes)
		assert.EqualValues(t, 4, rep.FocusSessions)
		assert.EqualValues(t, 20, rep.Days[1].FocusMinutes)
	})

	t.Run("other users see nothing", func(t *testing.T) {
		other := testutil.CreateUser(t, env.DB, "Other", "other", "other@test.cd", "", nil, true)
		rep, err := svc.WeeklyReport(ctx, other.Identity())
		require.NoError(t, err)
		assert.Zero(t, rep.Total)
		assert.Zero(t, rep.FocusSessions)
	})
}
