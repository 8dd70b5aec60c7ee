package echoapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/timetable"
)

type timetableApi struct {
	importer *timetable.Importer
}

func registerTimetableAPI(g *echo.Group, importer *timetable.Importer) {
	api := timetableApi{importer: importer}
	g.POST("/"+timetable.Resource.Name+"/import", api.importRows, adminMiddleware())
}

// importRows takes a JSON array of rows or a multipart CSV "file".
func (api timetableApi) importRows(ctx echo.Context) error {
	var rows []timetable.Row
	ctype := ctx.Request().Header.Get(echo.HeaderContentType)

	if strings.HasPrefix(ctype, echo.MIMEMultipartForm) {
		fh, err := ctx.FormFile("file")
		if err != nil {
			return core.NewValidationError(
				errors.Wrap(err, "reading file"),
				core.FieldError{Field: "file", Error: "this field is required"},
			)
		}
		f, err := fh.Open()
		if err != nil {
			return errors.Wrap(err, "opening file")
		}
		defer func() { _ = f.Close() }()
		if rows, err = timetable.ParseCSV(f); err != nil {
			return err
		}
	} else if err := json.NewDecoder(ctx.Request().Body).Decode(&rows); err != nil {
		return core.NewValidationError(
			errors.Wrap(err, "decoding rows"),
			core.FieldError{Field: "rows", Error: "rows must be a JSON array of {classroom, subject, teacher, weekly_classes}"},
		)
	}

	res, err := api.importer.Import(ctx.Request().Context(), rows, ctx.QueryParam("mode"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}
