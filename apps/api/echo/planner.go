package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core/planner"
)

type plannerApi struct {
	svc *planner.Service
}

func registerPlannerAPI(g *echo.Group, api plannerApi) {
	g.POST("/dp-focus-logs/:id/distraction", api.addDistraction)

	rg := g.Group("/dp-reports")
	rg.GET("/daily", api.dailyReport)
	rg.GET("/weekly", api.weeklyReport)
}

// Handlers

// listDaily lists the daily tasks of the caller for ?date (or ?task_date), today by default.
// The other list parameters (status, ordering) apply as on any resource.
func (api plannerApi) listDaily(ctx echo.Context) error {
	param := "date"
	if ctx.QueryParam(param) == "" && ctx.QueryParam("task_date") != "" {
		param = "task_date"
	}
	date, err := dateParam(ctx, param)
	if err != nil {
		return err
	}

	params, err := bindListParams(ctx)
	if err != nil {
		return err
	}

	tasks, err := api.svc.ListDaily(ctx.Request().Context(), identity(ctx), date, params)
	if err != nil {
		return err
	}
	if tasks == nil {
		tasks = []planner.DailyTask{}
	}
	return renderIndex(ctx, planner.DailyTaskResource.Component, tasks)
}

func (api plannerApi) addDistraction(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	log, err := api.svc.AddDistraction(ctx.Request().Context(), identity(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, log)
}

func (api plannerApi) dailyReport(ctx echo.Context) error {
	date, err := dateParam(ctx, "date")
	if err != nil {
		return err
	}
	rep, err := api.svc.DailyReport(ctx.Request().Context(), identity(ctx), date)
	if err != nil {
		return err
	}
	return render(ctx, "Planner/Reports/Daily", rep)
}

func (api plannerApi) weeklyReport(ctx echo.Context) error {
	rep, err := api.svc.WeeklyReport(ctx.Request().Context(), identity(ctx))
	if err != nil {
		return err
	}
	return render(ctx, "Planner/Reports/Weekly", rep)
}
