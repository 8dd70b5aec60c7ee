package echoapi_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/planner"
	"github.com/trezcool/shule/tests"
)

func createTask(t *testing.T, a *app, userID int, title string, active bool) planner.Task {
	start, end := "08:00", "09:00"
	task := planner.Task{UserID: userID, Title: title, StartTime: &start, EndTime: &end, IsActive: active}
	testutil.Create(t, a.DB, &task)
	return task
}

func today() core.Date {
	return core.DateOf(time.Now(), time.UTC)
}

func TestPlannerAPI_Tasks(t *testing.T) {
	a := setup(t)
	mine := createTask(t, a, a.teacher.ID, "Prepare lesson", true)
	path := fmt.Sprintf("/v1/dp-tasks/%d", mine.ID)

	t.Run("create sets the owner", func(t *testing.T) {
		body := []byte(fmt.Sprintf(`{"title": "Grade tests", "start_time": "10:00", "end_time": "11:30", "user_id": %d}`, a.student.ID))
		rec := a.do(newAuthRequest(http.MethodPost, "/v1/dp-tasks", a.teacherToken, body))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var got planner.Task
		decode(t, rec, &got)
		assert.Equal(t, a.teacher.ID, got.UserID)
		assert.True(t, got.IsActive)
		require.NotNil(t, got.EndTime)
		assert.Equal(t, "11:30", *got.EndTime)
	})

	t.Run("listing is scoped to the caller", func(t *testing.T) {
		rec := a.do(newAuthRequest(http.MethodGet, "/v1/dp-tasks", a.studentToken))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got []planner.Task
		decode(t, rec, &got)
		assert.Empty(t, got)

		rec = a.do(newAuthRequest(http.MethodGet, "/v1/dp-tasks?is_active=true", a.teacherToken))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		decode(t, rec, &got)
		assert.Len(t, got, 2)
	})

	a.run(t, []httpTest{
		{
			name:     "other user cannot read",
			method:   http.MethodGet,
			path:     path,
			token:    a.studentToken,
			wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name:     "other user cannot update",
			method:   http.MethodPut,
			path:     path,
			body:     []byte(`{"title": "Mine now"}`),
			token:    a.studentToken,
			wantCode: http.StatusForbidden,
		},
		{
			name:     "admin is not the owner either",
			method:   http.MethodDelete,
			path:     path,
			token:    a.adminToken,
			wantCode: http.StatusForbidden,
		},
		{
			name:     "malformed time",
			method:   http.MethodPost,
			path:     "/v1/dp-tasks",
			body:     []byte(`{"title": "Run", "start_time": "25:00"}`),
			token:    a.teacherToken,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "end before start",
			method:   http.MethodPost,
			path:     "/v1/dp-tasks",
			body:     []byte(`{"title": "Run", "start_time": "10:00", "end_time": "09:00"}`),
			token:    a.teacherToken,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "owner deletes",
			method:   http.MethodDelete,
			path:     path,
			token:    a.teacherToken,
			wantCode: http.StatusNoContent,
		},
	})
}

func TestPlannerAPI_DailyTasks(t *testing.T) {
	a := setup(t)
	createTask(t, a, a.teacher.ID, "Prepare lesson", true)
	createTask(t, a, a.teacher.ID, "Read", true)
	createTask(t, a, a.teacher.ID, "Gym", false)
	createTask(t, a, a.student.ID, "Homework", true)

	list := func(t *testing.T, path string) []planner.DailyTask {
		rec := a.do(newAuthRequest(http.MethodGet, path, a.teacherToken))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got []planner.DailyTask
		decode(t, rec, &got)
		return got
	}

	t.Run("first listing copies the active tasks", func(t *testing.T) {
		got := list(t, "/v1/dp-daily-tasks")
		require.Len(t, got, 2)
		for _, task := range got {
			assert.Equal(t, a.teacher.ID, task.UserID)
			assert.Equal(t, planner.StatusPending, task.Status)
			assert.True(t, task.TaskDate.Equal(today()))
			assert.NotNil(t, task.DpTaskID)
		}
	})

	t.Run("later listings do not copy again", func(t *testing.T) {
		assert.Len(t, list(t, "/v1/dp-daily-tasks"), 2)
		assert.Len(t, list(t, "/v1/dp-daily-tasks?date="+today().String()), 2)

		var count int64
		require.NoError(t, a.DB.Model(&planner.DailyTask{}).Where("user_id = ?", a.teacher.ID).Count(&count).Error)
		assert.EqualValues(t, 2, count)
	})

	t.Run("past days are not filled", func(t *testing.T) {
		assert.Empty(t, list(t, "/v1/dp-daily-tasks?date=2000-01-03"))
	})

	t.Run("future days are filled", func(t *testing.T) {
		assert.Len(t, list(t, "/v1/dp-daily-tasks?task_date="+today().AddDays(1).String()), 2)
	})

	t.Run("complete then reopen", func(t *testing.T) {
		task := list(t, "/v1/dp-daily-tasks")[0]
		path := fmt.Sprintf("/v1/dp-daily-tasks/%d", task.ID)

		rec := a.do(newAuthRequest(http.MethodPatch, path, a.teacherToken, []byte(`{"status": "completed"}`)))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got planner.DailyTask
		decode(t, rec, &got)
		assert.Equal(t, planner.StatusCompleted, got.Status)
		assert.NotNil(t, got.CompletedAt)
		assert.Equal(t, task.Title, got.Title)

		rec = a.do(newAuthRequest(http.MethodPatch, path, a.teacherToken, []byte(`{"status": "pending"}`)))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got = planner.DailyTask{}
		decode(t, rec, &got)
		assert.Equal(t, planner.StatusPending, got.Status)
		assert.Nil(t, got.CompletedAt)
	})

	t.Run("status filter and ordering", func(t *testing.T) {
		tasks := list(t, "/v1/dp-daily-tasks?ordering=id")
		require.Len(t, tasks, 2)
		path := fmt.Sprintf("/v1/dp-daily-tasks/%d", tasks[1].ID)
		rec := a.do(newAuthRequest(http.MethodPatch, path, a.teacherToken, []byte(`{"status": "skipped"}`)))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		skipped := list(t, "/v1/dp-daily-tasks?status=skipped")
		require.Len(t, skipped, 1)
		assert.Equal(t, tasks[1].ID, skipped[0].ID)

		desc := list(t, "/v1/dp-daily-tasks?ordering=-id")
		require.Len(t, desc, 2)
		assert.Equal(t, tasks[1].ID, desc[0].ID)
	})

	t.Run("partial update keeps end after the stored start", func(t *testing.T) {
		body := []byte(fmt.Sprintf(`{"title": "Office hours", "task_date": %q, "start_time": "09:00", "end_time": "10:00"}`, today()))
		rec := a.do(newAuthRequest(http.MethodPost, "/v1/dp-daily-tasks", a.teacherToken, body))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var task planner.DailyTask
		decode(t, rec, &task)
		path := fmt.Sprintf("/v1/dp-daily-tasks/%d", task.ID)

		rec = a.do(newAuthRequest(http.MethodPatch, path, a.teacherToken, []byte(`{"end_time": "08:00"}`)))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
		assert.Equal(t, []string{"end_time"}, fields(t, rec))

		rec = a.do(newAuthRequest(http.MethodPatch, path, a.teacherToken, []byte(`{"start_time": "10:30"}`)))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

		rec = a.do(newAuthRequest(http.MethodPatch, path, a.teacherToken, []byte(`{"end_time": "11:00"}`)))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("unknown ordering", func(t *testing.T) {
		rec := a.do(newAuthRequest(http.MethodGet, "/v1/dp-daily-tasks?ordering=title", a.teacherToken))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	})

	a.run(t, []httpTest{
		{
			name:     "invalid date",
			method:   http.MethodGet,
			path:     "/v1/dp-daily-tasks?date=tomorrow",
			token:    a.teacherToken,
			wantCode: http.StatusUnprocessableEntity,
			wantData: marshallObj(t, map[string]string{"date": "date must be a date formatted as YYYY-MM-DD"}),
		},
		{
			name:     "task date required",
			method:   http.MethodPost,
			path:     "/v1/dp-daily-tasks",
			body:     []byte(`{"title": "Extra"}`),
			token:    a.teacherToken,
			wantCode: http.StatusUnprocessableEntity,
			wantData: marshallObj(t, map[string]string{"task_date": "this field is required"}),
		},
		{
			name:     "ad hoc task",
			method:   http.MethodPost,
			path:     "/v1/dp-daily-tasks",
			body:     []byte(fmt.Sprintf(`{"title": "Call parents", "task_date": %q}`, today())),
			token:    a.teacherToken,
			wantCode: http.StatusCreated,
		},
	})
}

func TestPlannerAPI_FocusLogs(t *testing.T) {
	a := setup(t)
	dayStart, _ := today().Bounds(time.UTC)
	start := dayStart.Add(8 * time.Hour)

	open := func(t *testing.T, token string, body string) planner.FocusLog {
		rec := a.do(newAuthRequest(http.MethodPost, "/v1/dp-focus-logs", token, []byte(body)))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var got planner.FocusLog
		decode(t, rec, &got)
		return got
	}

	t.Run("open then close", func(t *testing.T) {
		log := open(t, a.teacherToken, fmt.Sprintf(`{"start_time": %q, "notes": "algebra"}`, start.Format(time.RFC3339)))
		assert.Equal(t, a.teacher.ID, log.UserID)
		assert.True(t, log.IsOpen())
		assert.Nil(t, log.DurationMinutes)

		body := []byte(fmt.Sprintf(`{"end_time": %q, "duration_minutes": 25}`, start.Add(25*time.Minute+40*time.Second).Format(time.RFC3339)))
		rec := a.do(newAuthRequest(http.MethodPatch, fmt.Sprintf("/v1/dp-focus-logs/%d", log.ID), a.teacherToken, body))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got planner.FocusLog
		decode(t, rec, &got)
		require.NotNil(t, got.DurationMinutes)
		assert.Equal(t, 25, *got.DurationMinutes)
		assert.Equal(t, "algebra", got.Notes)
	})

	t.Run("close with an explicit duration", func(t *testing.T) {
		log := open(t, a.teacherToken, fmt.Sprintf(`{"start_time": %q}`, start.Add(time.Hour).Format(time.RFC3339)))
		body := []byte(fmt.Sprintf(`{"end_time": %q, "duration_minutes": 50}`, start.Add(3*time.Hour).Format(time.RFC3339)))
		rec := a.do(newAuthRequest(http.MethodPatch, fmt.Sprintf("/v1/dp-focus-logs/%d", log.ID), a.teacherToken, body))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got planner.FocusLog
		decode(t, rec, &got)
		require.NotNil(t, got.DurationMinutes)
		assert.Equal(t, 50, *got.DurationMinutes)
	})

	t.Run("distractions", func(t *testing.T) {
		log := open(t, a.teacherToken, fmt.Sprintf(`{"start_time": %q}`, start.Add(5*time.Hour).Format(time.RFC3339)))
		path := fmt.Sprintf("/v1/dp-focus-logs/%d/distraction", log.ID)

		var got planner.FocusLog
		for i := 0; i < 2; i++ {
			rec := a.do(newAuthRequest(http.MethodPost, path, a.teacherToken))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			decode(t, rec, &got)
		}
		assert.Equal(t, 2, got.DistractionCount)

		rec := a.do(newAuthRequest(http.MethodPost, path, a.studentToken))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		rec = a.do(newAuthRequest(http.MethodPost, "/v1/dp-focus-logs/999/distraction", a.teacherToken))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	log := open(t, a.teacherToken, fmt.Sprintf(`{"start_time": %q}`, start.Add(6*time.Hour).Format(time.RFC3339)))

	t.Run("filter by start day", func(t *testing.T) {
		for date, want := range map[core.Date]int{today(): 4, today().AddDays(-1): 0} {
			rec := a.do(newAuthRequest(http.MethodGet, "/v1/dp-focus-logs?start_time="+date.String(), a.teacherToken))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var got []planner.FocusLog
			decode(t, rec, &got)
			assert.Len(t, got, want, date.String())
		}
	})
	studentTask := planner.DailyTask{UserID: a.student.ID, TaskDate: today(), Title: "Homework", Status: planner.StatusPending}
	testutil.Create(t, a.DB, &studentTask)

	a.run(t, []httpTest{
		{
			name:     "end before start",
			method:   http.MethodPatch,
			path:     fmt.Sprintf("/v1/dp-focus-logs/%d", log.ID),
			body:     []byte(fmt.Sprintf(`{"end_time": %q, "duration_minutes": 0}`, start.Format(time.RFC3339))),
			token:    a.teacherToken,
			wantCode: http.StatusUnprocessableEntity,
			wantData: marshallObj(t, map[string]string{"end_time": "end_time must be after start_time"}),
		},
		{
			name:     "duration required",
			method:   http.MethodPatch,
			path:     fmt.Sprintf("/v1/dp-focus-logs/%d", log.ID),
			body:     []byte(fmt.Sprintf(`{"end_time": %q}`, start.Add(7*time.Hour).Format(time.RFC3339))),
			token:    a.teacherToken,
			wantCode: http.StatusUnprocessableEntity,
			wantData: marshallObj(t, map[string]string{"duration_minutes": "this field is required"}),
		},
		{
			name:     "duration over a day",
			method:   http.MethodPatch,
			path:     fmt.Sprintf("/v1/dp-focus-logs/%d", log.ID),
			body:     []byte(fmt.Sprintf(`{"end_time": %q, "duration_minutes": 1441}`, start.Add(7*time.Hour).Format(time.RFC3339))),
			token:    a.teacherToken,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "start time required",
			method:   http.MethodPost,
			path:     "/v1/dp-focus-logs",
			body:     []byte(`{"notes": "nothing"}`),
			token:    a.teacherToken,
			wantCode: http.StatusUnprocessableEntity,
			wantData: marshallObj(t, map[string]string{"start_time": "this field is required"}),
		},
		{
			name:     "daily task of another user",
			method:   http.MethodPost,
			path:     "/v1/dp-focus-logs",
			body:     []byte(fmt.Sprintf(`{"start_time": %q, "dp_daily_task_id": %d}`, start.Format(time.RFC3339), studentTask.ID)),
			token:    a.teacherToken,
			wantCode: http.StatusUnprocessableEntity,
			wantData: marshallObj(t, map[string]string{"dp_daily_task_id": "the selected dp_daily_task_id is invalid"}),
		},
		{
			name:     "other user cannot close",
			method:   http.MethodPatch,
			path:     fmt.Sprintf("/v1/dp-focus-logs/%d", log.ID),
			body:     []byte(fmt.Sprintf(`{"end_time": %q}`, start.Add(7*time.Hour).Format(time.RFC3339))),
			token:    a.studentToken,
			wantCode: http.StatusForbidden,
		},
	})
}

func TestPlannerAPI_Reports(t *testing.T) {
	a := setup(t)
	createTask(t, a, a.teacher.ID, "Prepare lesson", true)
	createTask(t, a, a.teacher.ID, "Read", true)

	// materialize today, then add one more task and complete two of the three
	rec := a.do(newAuthRequest(http.MethodGet, "/v1/dp-daily-tasks", a.teacherToken))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var daily []planner.DailyTask
	decode(t, rec, &daily)
	require.Len(t, daily, 2)

	rec = a.do(newAuthRequest(http.MethodPost, "/v1/dp-daily-tasks", a.teacherToken,
		[]byte(fmt.Sprintf(`{"title": "Call parents", "task_date": %q}`, today()))))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	for _, task := range daily {
		rec = a.do(newAuthRequest(http.MethodPatch, fmt.Sprintf("/v1/dp-daily-tasks/%d", task.ID), a.teacherToken, []byte(`{"status": "completed"}`)))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	dayStart, _ := today().Bounds(time.UTC)
	for _, minutes := range []int{50, 25} {
		duration := minutes
		end := dayStart.Add(time.Hour + time.Duration(minutes)*time.Minute)
		testutil.Create(t, a.DB, &planner.FocusLog{
			UserID:          a.teacher.ID,
			StartTime:       dayStart.Add(time.Hour),
			EndTime:         &end,
			DurationMinutes: &duration,
		})
	}
	// sessions of other users are left out
	testutil.Create(t, a.DB, &planner.FocusLog{UserID: a.student.ID, StartTime: dayStart.Add(2 * time.Hour)})

	t.Run("daily", func(t *testing.T) {
		rec := a.do(newAuthRequest(http.MethodGet, "/v1/dp-reports/daily", a.teacherToken))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var rep planner.DailyReport
		decode(t, rec, &rep)
		assert.True(t, rep.Date.Equal(today()))
		assert.EqualValues(t, 2, rep.Completed)
		assert.EqualValues(t, 3, rep.Total)
		assert.EqualValues(t, 75, rep.FocusMinutes)
		assert.EqualValues(t, 2, rep.FocusSessions)
	})

	t.Run("daily of an empty day", func(t *testing.T) {
		rec := a.do(newAuthRequest(http.MethodGet, "/v1/dp-reports/daily?date=2000-01-03", a.teacherToken))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var rep planner.DailyReport
		decode(t, rec, &rep)
		assert.Zero(t, rep.Total)
		assert.Zero(t, rep.FocusMinutes)
	})

	t.Run("weekly", func(t *testing.T) {
		rec := a.do(newAuthRequest(http.MethodGet, "/v1/dp-reports/weekly", a.teacherToken))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var rep planner.WeeklyReport
		decode(t, rec, &rep)

		weekStart := today().WeekStart(time.Monday)
		assert.True(t, rep.WeekStart.Equal(weekStart))
		assert.True(t, rep.WeekEnd.Equal(today()))
		assert.Len(t, rep.Days, int(today().Sub(weekStart.Time).Hours()/24)+1)
		assert.EqualValues(t, 2, rep.Completed)
		assert.EqualValues(t, 3, rep.Total)
		assert.EqualValues(t, 75, rep.FocusMinutes)
	})

	t.Run("page model", func(t *testing.T) {
		req := newAuthRequest(http.MethodGet, "/v1/dp-reports/daily", a.teacherToken)
		req.Header.Set("X-Inertia", "true")
		rec := a.do(req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var pg struct {
			Component string `json:"component"`
			Props     struct {
				Data planner.DailyReport `json:"data"`
			} `json:"props"`
		}
		decode(t, rec, &pg)
		assert.Equal(t, "Planner/Reports/Daily", pg.Component)
		assert.EqualValues(t, 3, pg.Props.Data.Total)
	})

	a.run(t, []httpTest{
		{
			name:     "invalid date",
			method:   http.MethodGet,
			path:     "/v1/dp-reports/daily?date=03-01-2000",
			token:    a.teacherToken,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "no token",
			method:   http.MethodGet,
			path:     "/v1/dp-reports/weekly",
			wantCode: http.StatusUnauthorized,
		},
	})
}
