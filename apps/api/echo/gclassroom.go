package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core/classroom"
)

type classroomApi struct {
	svc *classroom.Service
}

func registerClassroomAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *classroom.Service) {
	api := classroomApi{svc: svc}

	cg := g.Group("/google-classroom")

	// google redirects the browser here, the caller is in the signed state
	cg.GET("/callback", api.callback)

	ag := cg.Group("", jwt)
	ag.GET("/connect", api.connect)
	ag.GET("/status", api.status)
	ag.GET("/courses", api.courses)
	ag.POST("/disconnect", api.disconnect)
}

func (api classroomApi) connect(ctx echo.Context) error {
	url, err := api.svc.ConnectURL(identity(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"url": url})
}

func (api classroomApi) callback(ctx echo.Context) error {
	if _, err := api.svc.Callback(ctx.Request().Context(), ctx.QueryParam("code"), ctx.QueryParam("state")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"connected": true})
}

func (api classroomApi) status(ctx echo.Context) error {
	connected, err := api.svc.Connected(ctx.Request().Context(), identity(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"connected": connected})
}

func (api classroomApi) courses(ctx echo.Context) error {
	courses, err := api.svc.Courses(ctx.Request().Context(), identity(ctx))
	if err != nil {
		return err
	}
	return render(ctx, "GoogleClassroom/Courses", courses)
}

func (api classroomApi) disconnect(ctx echo.Context) error {
	if err := api.svc.Disconnect(ctx.Request().Context(), identity(ctx)); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
