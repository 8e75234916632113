package service

import (
	"context"
	"strings"

	"askly/internal/models"
	"askly/internal/repository"
	"askly/internal/validation"

	"github.com/google/uuid"
)

type QuestionService struct {
	questions repository.QuestionRepository
	guard     *OwnershipGuard
}

type CreateQuestionInput struct {
	UserID  uuid.UUID
	Title   string
	Content string
	Tags    []string
}

type UpdateQuestionInput struct {
	UserID     uuid.UUID
	QuestionID uuid.UUID
	Title      string
	Content    string
	Tags       []string
}

type DeleteQuestionInput struct {
	UserID     uuid.UUID
	QuestionID uuid.UUID
}

func NewQuestionService(questions repository.QuestionRepository, guard *OwnershipGuard) *QuestionService {
	return &QuestionService{questions: questions, guard: guard}
}

func validateQuestion(title, content string, tags []string) ([]string, error) {
	if err := validation.ValidateTitle(title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateContent(content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	normalized, err := validation.NormalizeTags(tags)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	return normalized, nil
}

func (s *QuestionService) ListQuestions(ctx context.Context, limit, offset int) ([]*models.Question, error) {
	return s.questions.List(ctx, limit, offset)
}

func (s *QuestionService) GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	return s.questions.GetByID(ctx, id)
}

// CreateQuestion stores a question owned by in.UserID.
func (s *QuestionService) CreateQuestion(ctx context.Context, in CreateQuestionInput) (*models.Question, error) {
	tags, err := validateQuestion(in.Title, in.Content, in.Tags)
	if err != nil {
		return nil, err
	}

	question := &models.Question{
		Title:   strings.TrimSpace(in.Title),
		Content: in.Content,
		Tags:    tags,
		UserID:  in.UserID,
	}
	if err := s.questions.Create(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// UpdateQuestion replaces title, content and tags. Only the owner may update.
func (s *QuestionService) UpdateQuestion(ctx context.Context, in UpdateQuestionInput) (*models.Question, error) {
	if err := s.guard.RequireQuestionOwner(ctx, in.QuestionID, in.UserID); err != nil {
		return nil, err
	}

	tags, err := validateQuestion(in.Title, in.Content, in.Tags)
	if err != nil {
		return nil, err
	}

	if err := s.questions.Update(ctx, &models.Question{
		ID:      in.QuestionID,
		Title:   strings.TrimSpace(in.Title),
		Content: in.Content,
		Tags:    tags,
	}); err != nil {
		return nil, err
	}
	return s.questions.GetByID(ctx, in.QuestionID)
}

// DeleteQuestion removes the question and its answers. Only the owner may delete.
func (s *QuestionService) DeleteQuestion(ctx context.Context, in DeleteQuestionInput) error {
	if err := s.guard.RequireQuestionOwner(ctx, in.QuestionID, in.UserID); err != nil {
		return err
	}
	return s.questions.Delete(ctx, in.QuestionID)
}
