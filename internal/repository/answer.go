package repository

import (
	"context"

	"askly/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type answerRepository struct {
	db *gorm.DB
}

// NewAnswerRepository returns a gorm-backed AnswerRepository.
func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Create(ctx context.Context, answer *models.Answer) error {
	if err := r.db.WithContext(ctx).Create(answer).Error; err != nil {
		if isForeignKeyViolation(err) {
			return models.NewNotFoundError("Question", answer.QuestionID)
		}
		return models.NewStorageUnavailableError(err)
	}
	return nil
}

func (r *answerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Answer, error) {
	var answer models.Answer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&answer).Error; err != nil {
		return nil, translateError(err, "Answer", id)
	}
	return &answer, nil
}

func (r *answerRepository) ListByQuestion(ctx context.Context, questionID uuid.UUID, limit, offset int) ([]*models.Answer, error) {
	var answers []*models.Answer
	err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("created_at asc").
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&answers).Error
	if err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}
	return answers, nil
}

func (r *answerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Answer{})
	if result.Error != nil {
		return models.NewStorageUnavailableError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Answer", id)
	}
	return nil
}

func (r *answerRepository) IsOwner(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Answer{}).
		Where("id = ? AND user_id = ?", id, userID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, models.NewStorageUnavailableError(err)
	}
	return count > 0, nil
}
