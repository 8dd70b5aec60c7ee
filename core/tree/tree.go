// Package tree stores the tree structure document edited by the organization chart page.
package tree

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"gorm.io/datatypes"

	"github.com/trezcool/shule/core"
)

// DefaultName is the name of the singleton document.
const DefaultName = "default"

type Document struct {
	core.Model
	Name string         `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Data datatypes.JSON `json:"data"`
}

func (Document) TableName() string { return "tree_structures" }

type (
	Repository interface {
		GetDocument(ctx context.Context, name string) (Document, error)
		// SaveDocument creates the document or replaces its data.
		SaveDocument(ctx context.Context, doc Document) (Document, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the document, with empty data when it was never saved.
func (svc *Service) Get(ctx context.Context) (Document, error) {
	doc, err := svc.repo.GetDocument(ctx, DefaultName)
	if core.IsNotFound(err) {
		return Document{Name: DefaultName, Data: datatypes.JSON("[]")}, nil
	}
	if err != nil {
		return Document{}, errors.Wrap(err, "getting tree structure")
	}
	return doc, nil
}

// Save replaces the document. data must be a JSON array or object.
func (svc *Service) Save(ctx context.Context, data json.RawMessage) (Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || !(trimmed[0] == '[' || trimmed[0] == '{') || !json.Valid(trimmed) {
		return Document{}, core.NewValidationError(
			errors.New("invalid tree structure"),
			core.FieldError{Field: "data", Error: "data must be a JSON array or object"},
		)
	}
	doc, err := svc.repo.SaveDocument(ctx, Document{Name: DefaultName, Data: datatypes.JSON(trimmed)})
	if err != nil {
		return Document{}, errors.Wrap(err, "saving tree structure")
	}
	return doc, nil
}
