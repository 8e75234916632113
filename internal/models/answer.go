package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Answer replies to a Question. Owner and question are fixed at creation.
type Answer struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Content    string    `gorm:"not null" json:"content"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate assigns a random id when none was set.
func (a *Answer) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
