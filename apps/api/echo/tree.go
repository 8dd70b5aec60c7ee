package echoapi

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/tree"
)

type treeApi struct {
	svc *tree.Service
}

func registerTreeAPI(g *echo.Group, svc *tree.Service) {
	api := treeApi{svc: svc}
	g.GET("/tree-structure", api.retrieve)
	g.POST("/tree-structure", api.save, adminMiddleware())
}

type SaveTreeRequest struct {
	Data json.RawMessage `json:"data"`
}

func (api treeApi) retrieve(ctx echo.Context) error {
	doc, err := api.svc.Get(ctx.Request().Context())
	if err != nil {
		return err
	}
	return render(ctx, "TreeStructure/Show", doc)
}

func (api treeApi) save(ctx echo.Context) error {
	var data SaveTreeRequest
	if err := json.NewDecoder(ctx.Request().Body).Decode(&data); err != nil {
		return core.NewValidationError(
			errors.Wrap(err, "decoding tree structure"),
			core.FieldError{Field: "data", Error: "data must be a JSON array or object"},
		)
	}
	doc, err := api.svc.Save(ctx.Request().Context(), data.Data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, doc)
}
