package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/resource"
)

const pageParam = "page"

type (
	resourceRoutes struct {
		list echo.HandlerFunc
	}

	resourceOption func(*resourceRoutes)

	resourceApi[T any, C resource.Payload[T], U resource.Payload[T]] struct {
		svc  *resource.Service[T, C, U]
		conf resource.Config[T]
	}
)

// withList replaces the default list handler.
func withList(h echo.HandlerFunc) resourceOption {
	return func(r *resourceRoutes) { r.list = h }
}

// registerResource mounts the CRUD endpoints of svc under /<name>.
// Writes require an admin role when the resource says so.
func registerResource[T any, C resource.Payload[T], U resource.Payload[T]](
	g *echo.Group,
	svc *resource.Service[T, C, U],
	opts ...resourceOption,
) {
	api := resourceApi[T, C, U]{svc: svc, conf: svc.Config()}
	routes := resourceRoutes{list: api.list}
	for _, opt := range opts {
		opt(&routes)
	}

	var writeMw []echo.MiddlewareFunc
	if api.conf.AdminWrites {
		writeMw = append(writeMw, adminMiddleware())
	}

	rg := g.Group("/" + api.conf.Name)
	rg.GET("", routes.list)
	rg.POST("", api.create, writeMw...)
	rg.GET("/:id", api.retrieve)
	rg.PUT("/:id", api.update, writeMw...)
	rg.PATCH("/:id", api.update, writeMw...)
	rg.DELETE("/:id", api.destroy, writeMw...)
}

// Handlers

func (api resourceApi[T, C, U]) list(ctx echo.Context) error {
	params, err := bindListParams(ctx)
	if err != nil {
		return err
	}
	listing, err := api.svc.List(ctx.Request().Context(), identity(ctx), params)
	if err != nil {
		return err
	}
	return renderIndex(ctx, api.conf.Component, listing.Result())
}

func (api resourceApi[T, C, U]) create(ctx echo.Context) error {
	var data C
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrapf(err, "binding %s", api.conf.Label)
	}
	rec, err := api.svc.Create(ctx.Request().Context(), identity(ctx), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api resourceApi[T, C, U]) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.Get(ctx.Request().Context(), identity(ctx), id)
	if err != nil {
		return err
	}
	return renderShow(ctx, api.conf.Component, rec)
}

func (api resourceApi[T, C, U]) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data U
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrapf(err, "binding %s", api.conf.Label)
	}
	rec, err := api.svc.Update(ctx.Request().Context(), identity(ctx), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api resourceApi[T, C, U]) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), identity(ctx), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// pathID parses the :id path param. Ids that cannot exist are not found.
func pathID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id < 1 {
		return 0, core.ErrNotFound
	}
	return id, nil
}

// bindListParams reads the filters, the ordering and the page of a list request.
func bindListParams(ctx echo.Context) (resource.ListParams, error) {
	params := resource.ListParams{Filters: make(map[string]string)}
	for name, vals := range ctx.QueryParams() {
		if name == pageParam || name == orderingParam || len(vals) == 0 {
			continue
		}
		params.Filters[name] = vals[0]
	}

	ordering := new(Ordering)
	ordering.Bind(ctx)
	params.Ordering = ordering.Orderings

	if p := ctx.QueryParam(pageParam); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil || page < 1 {
			return params, core.NewValidationError(
				errors.New("invalid page"),
				core.FieldError{Field: pageParam, Error: "page must be a positive integer"},
			)
		}
		params.Page = page
	}
	return params, nil
}
