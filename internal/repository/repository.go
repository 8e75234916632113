// Package repository implements the data access layer for the application.
package repository

import (
	"context"

	"askly/internal/models"

	"github.com/google/uuid"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// QuestionRepository defines persistence operations for questions.
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error)
	List(ctx context.Context, limit, offset int) ([]*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	// Delete removes the question and every answer attached to it.
	Delete(ctx context.Context, id uuid.UUID) error
	// IsOwner reports whether a question with id exists and belongs to userID.
	// A missing question and a question owned by someone else both yield false.
	IsOwner(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

// AnswerRepository defines persistence operations for answers.
type AnswerRepository interface {
	Create(ctx context.Context, answer *models.Answer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Answer, error)
	ListByQuestion(ctx context.Context, questionID uuid.UUID, limit, offset int) ([]*models.Answer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// IsOwner reports whether an answer with id exists and belongs to userID.
	IsOwner(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

// Store groups the repositories of one storage backend.
type Store interface {
	Users() UserRepository
	Questions() QuestionRepository
	Answers() AnswerRepository
	Ping(ctx context.Context) error
	Close() error
}
