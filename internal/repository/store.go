package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// GormStore is the relational Store backed by a gorm connection.
type GormStore struct {
	db        *gorm.DB
	users     UserRepository
	questions QuestionRepository
	answers   AnswerRepository
}

// NewGormStore wraps db with gorm-backed repositories.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:        db,
		users:     NewUserRepository(db),
		questions: NewQuestionRepository(db),
		answers:   NewAnswerRepository(db),
	}
}

func (s *GormStore) Users() UserRepository         { return s.users }
func (s *GormStore) Questions() QuestionRepository { return s.questions }
func (s *GormStore) Answers() AnswerRepository     { return s.answers }

// DB exposes the underlying connection for migrations and seeding.
func (s *GormStore) DB() *gorm.DB { return s.db }

// Ping checks that the database answers.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.Close()
}

var _ Store = (*GormStore)(nil)
