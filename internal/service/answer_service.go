package service

import (
	"context"

	"askly/internal/models"
	"askly/internal/repository"
	"askly/internal/validation"

	"github.com/google/uuid"
)

type AnswerService struct {
	answers   repository.AnswerRepository
	questions repository.QuestionRepository
	guard     *OwnershipGuard
}

type CreateAnswerInput struct {
	UserID     uuid.UUID
	QuestionID uuid.UUID
	Content    string
}

type DeleteAnswerInput struct {
	UserID   uuid.UUID
	AnswerID uuid.UUID
}

func NewAnswerService(
	answers repository.AnswerRepository,
	questions repository.QuestionRepository,
	guard *OwnershipGuard,
) *AnswerService {
	return &AnswerService{
		answers:   answers,
		questions: questions,
		guard:     guard,
	}
}

// ListAnswers returns the answers of an existing question, oldest first.
func (s *AnswerService) ListAnswers(ctx context.Context, questionID uuid.UUID, limit, offset int) ([]*models.Answer, error) {
	if _, err := s.questions.GetByID(ctx, questionID); err != nil {
		return nil, err
	}
	return s.answers.ListByQuestion(ctx, questionID, limit, offset)
}

// CreateAnswer attaches an answer owned by in.UserID to an existing question.
func (s *AnswerService) CreateAnswer(ctx context.Context, in CreateAnswerInput) (*models.Answer, error) {
	if err := validation.ValidateContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if _, err := s.questions.GetByID(ctx, in.QuestionID); err != nil {
		return nil, err
	}

	answer := &models.Answer{
		Content:    in.Content,
		QuestionID: in.QuestionID,
		UserID:     in.UserID,
	}
	if err := s.answers.Create(ctx, answer); err != nil {
		return nil, err
	}
	return answer, nil
}

// DeleteAnswer removes an answer. Only its owner may delete it.
func (s *AnswerService) DeleteAnswer(ctx context.Context, in DeleteAnswerInput) error {
	if err := s.guard.RequireAnswerOwner(ctx, in.AnswerID, in.UserID); err != nil {
		return err
	}
	return s.answers.Delete(ctx, in.AnswerID)
}
