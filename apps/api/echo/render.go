package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core"
)

const headerInertia = "X-Inertia"

// page is the page model rendered for server-driven UI requests.
type page struct {
	Component string      `json:"component"`
	Props     interface{} `json:"props"`
	URL       string      `json:"url"`
	Version   string      `json:"version"`
}

func isInertia(ctx echo.Context) bool {
	return ctx.Request().Header.Get(headerInertia) == "true"
}

// render writes data as JSON, or as the page model of component when the client asks for one.
func render(ctx echo.Context, component string, data interface{}) error {
	ctx.Response().Header().Add(echo.HeaderVary, headerInertia)
	if !isInertia(ctx) {
		return ctx.JSON(http.StatusOK, data)
	}

	props := data
	if _, ok := data.(core.Page); !ok {
		props = echo.Map{"data": data}
	}
	ctx.Response().Header().Set(headerInertia, "true")
	return ctx.JSON(http.StatusOK, page{
		Component: component,
		Props:     props,
		URL:       ctx.Request().URL.RequestURI(),
		Version:   version(ctx),
	})
}

func renderIndex(ctx echo.Context, component string, data interface{}) error {
	return render(ctx, component+"/Index", data)
}

func renderShow(ctx echo.Context, component string, data interface{}) error {
	return render(ctx, component+"/Show", data)
}

const contextVersionKey = "assetsVersion"

func version(ctx echo.Context) string {
	v, _ := ctx.Get(contextVersionKey).(string)
	return v
}

// versionMiddleware exposes the build as the page model version.
func versionMiddleware(build string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctx.Set(contextVersionKey, build)
			return next(ctx)
		}
	}
}
