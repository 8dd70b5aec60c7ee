package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core/vocab"
)

type vocabApi struct {
	svc *vocab.Service
}

func registerVocabAPI(g *echo.Group, svc *vocab.Service) {
	api := vocabApi{svc: svc}
	g.GET("/"+vocab.Resource.Name+"/flashcards", api.flashcards)
	registerResource(g, svc.Service)
}

// flashcards draws ?count random words, optionally of one ?level.
func (api vocabApi) flashcards(ctx echo.Context) error {
	count, err := intParam(ctx, "count")
	if err != nil {
		return err
	}
	cards, err := api.svc.Flashcards(ctx.Request().Context(), ctx.QueryParam("level"), count)
	if err != nil {
		return err
	}
	if cards == nil {
		cards = []vocab.Vocabulary{}
	}
	return ctx.JSON(http.StatusOK, cards)
}
