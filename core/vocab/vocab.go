// Package vocab holds the vocabulary flashcards.
package vocab

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/resource"
)

// Levels
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

const (
	DefaultFlashcards = 10
	MaxFlashcards     = 50
)

type Vocabulary struct {
	core.Model
	Word    string `json:"word" gorm:"size:100;not null;uniqueIndex"`
	Meaning string `json:"meaning" gorm:"not null"`
	Example string `json:"example"`
	Level   string `json:"level" gorm:"size:20;not null;default:beginner;index"`
}

func (Vocabulary) TableName() string { return "vocabularies" }

type Payload struct {
	Word    string `json:"word" validate:"required,max=100"`
	Meaning string `json:"meaning" validate:"required,max=1000"`
	Example string `json:"example" validate:"max=2000"`
	Level   string `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
}

func (p *Payload) Clean() {
	p.Word = core.CleanString(p.Word)
	p.Level = core.CleanString(p.Level, true /* lower */)
}

func (p Payload) Apply(v *Vocabulary) {
	v.Word = p.Word
	v.Meaning = p.Meaning
	v.Example = p.Example
	v.Level = p.Level
	if v.Level == "" {
		v.Level = LevelBeginner
	}
}

var Resource = resource.Config[Vocabulary]{
	Name:      "vocabularies",
	Label:     "word",
	Component: "Vocabularies",
	PageSize:  40,
	Filters:   []resource.Filter{{Param: "level", Column: "level"}},
	Orderable: map[string]string{"id": "id", "word": "word", "level": "level", "created_at": "created_at"},
	Unique: []resource.Guard[Vocabulary]{{
		Fields:  []string{"word"},
		Columns: []string{"word"},
		Key:     func(v *Vocabulary) []interface{} { return []interface{}{v.Word} },
	}},
}

type (
	Repository interface {
		Random(ctx context.Context, level string, count int) ([]Vocabulary, error)
	}

	// Service serves the CRUD contract and the flashcard draws.
	Service struct {
		*resource.Service[Vocabulary, Payload, Payload]
		repo Repository
	}
)

func NewService(crud *resource.Service[Vocabulary, Payload, Payload], repo Repository) *Service {
	return &Service{Service: crud, repo: repo}
}

// Flashcards draws count random words, optionally of one level.
func (svc *Service) Flashcards(ctx context.Context, level string, count int) ([]Vocabulary, error) {
	if count == 0 {
		count = DefaultFlashcards
	}
	if count < 1 || count > MaxFlashcards {
		return nil, core.NewValidationError(
			errors.New("invalid count"),
			core.FieldError{Field: "count", Error: "count must be between 1 and 50"},
		)
	}
	cards, err := svc.repo.Random(ctx, core.CleanString(level, true /* lower */), count)
	if err != nil {
		return nil, errors.Wrap(err, "drawing flashcards")
	}
	return cards, nil
}
