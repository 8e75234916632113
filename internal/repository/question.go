package repository

import (
	"context"

	"askly/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository returns a gorm-backed QuestionRepository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, question *models.Question) error {
	if err := r.db.WithContext(ctx).Create(question).Error; err != nil {
		return models.NewStorageUnavailableError(err)
	}
	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&question).Error; err != nil {
		return nil, translateError(err, "Question", id)
	}
	return &question, nil
}

func (r *questionRepository) List(ctx context.Context, limit, offset int) ([]*models.Question, error) {
	var questions []*models.Question
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&questions).Error
	if err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}
	return questions, nil
}

// Update writes title, content and tags. Ownership is never changed here.
func (r *questionRepository) Update(ctx context.Context, question *models.Question) error {
	result := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ?", question.ID).
		Select("title", "content", "tags", "updated_at").
		Updates(&models.Question{
			Title:   question.Title,
			Content: question.Content,
			Tags:    question.Tags,
		})
	if result.Error != nil {
		return models.NewStorageUnavailableError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Question", question.ID)
	}
	return nil
}

func (r *questionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
			return models.NewStorageUnavailableError(err)
		}
		result := tx.Where("id = ?", id).Delete(&models.Question{})
		if result.Error != nil {
			return models.NewStorageUnavailableError(result.Error)
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("Question", id)
		}
		return nil
	})
}

func (r *questionRepository) IsOwner(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ? AND user_id = ?", id, userID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, models.NewStorageUnavailableError(err)
	}
	return count > 0, nil
}
