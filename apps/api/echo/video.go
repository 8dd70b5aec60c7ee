package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/media"
)

type videoApi struct {
	svc *media.VideoService
}

// multipartOverhead is the room left for the multipart framing around the video part.
const multipartOverhead = 64 << 10

// registerVideoAPI mounts the upload endpoint. Bodies larger than maxBytes (plus framing)
// are refused before they are read.
func registerVideoAPI(g *echo.Group, svc *media.VideoService, maxBytes int64) {
	api := videoApi{svc: svc}
	var mws []echo.MiddlewareFunc
	if maxBytes > 0 {
		mws = append(mws, middleware.BodyLimit(strconv.FormatInt(maxBytes+multipartOverhead, 10)))
	}
	g.POST("/videos", api.upload, mws...)
}

func (api videoApi) upload(ctx echo.Context) error {
	fh, err := ctx.FormFile("video")
	if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
		return err
	}
	if err != nil {
		return core.NewValidationError(
			errors.Wrap(err, "reading video"),
			core.FieldError{Field: "video", Error: "this field is required"},
		)
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening video")
	}
	defer func() { _ = f.Close() }()

	stored, err := api.svc.Store(ctx.Request().Context(), media.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Content:     f,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, stored)
}
