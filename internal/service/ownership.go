package service

import (
	"context"

	"askly/internal/models"
	"askly/internal/repository"

	"github.com/google/uuid"
)

// OwnershipGuard answers whether a subject owns a question or an answer.
//
// A resource that does not exist and a resource owned by someone else both
// report false, so callers cannot probe for existence through this check.
// Storage failures come back as errors and never as false.
type OwnershipGuard struct {
	questions repository.QuestionRepository
	answers   repository.AnswerRepository
}

func NewOwnershipGuard(questions repository.QuestionRepository, answers repository.AnswerRepository) *OwnershipGuard {
	return &OwnershipGuard{questions: questions, answers: answers}
}

func (g *OwnershipGuard) IsQuestionOwner(ctx context.Context, questionID, subject uuid.UUID) (bool, error) {
	return g.questions.IsOwner(ctx, questionID, subject)
}

func (g *OwnershipGuard) IsAnswerOwner(ctx context.Context, answerID, subject uuid.UUID) (bool, error) {
	return g.answers.IsOwner(ctx, answerID, subject)
}

// RequireQuestionOwner returns a NOT_OWNER error unless subject owns the question.
func (g *OwnershipGuard) RequireQuestionOwner(ctx context.Context, questionID, subject uuid.UUID) error {
	ok, err := g.IsQuestionOwner(ctx, questionID, subject)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotOwnerError("question")
	}
	return nil
}

// RequireAnswerOwner returns a NOT_OWNER error unless subject owns the answer.
func (g *OwnershipGuard) RequireAnswerOwner(ctx context.Context, answerID, subject uuid.UUID) error {
	ok, err := g.IsAnswerOwner(ctx, answerID, subject)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotOwnerError("answer")
	}
	return nil
}
