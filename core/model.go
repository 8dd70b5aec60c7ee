package core

import "time"

// Model holds the columns every stored record has.
type Model struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

func (m Model) GetID() int { return m.ID }
