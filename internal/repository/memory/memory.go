// Package memory provides an in-process Store used for development and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"askly/internal/models"
	"askly/internal/repository"

	"github.com/google/uuid"
)

// Store keeps every record in maps guarded by a single RWMutex.
type Store struct {
	mu        sync.RWMutex
	now       func() time.Time
	users     map[uuid.UUID]models.User
	emails    map[string]uuid.UUID
	questions map[uuid.UUID]models.Question
	answers   map[uuid.UUID]models.Answer
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		now:       time.Now,
		users:     make(map[uuid.UUID]models.User),
		emails:    make(map[string]uuid.UUID),
		questions: make(map[uuid.UUID]models.Question),
		answers:   make(map[uuid.UUID]models.Answer),
	}
}

func (s *Store) Users() repository.UserRepository         { return userRepo{s} }
func (s *Store) Questions() repository.QuestionRepository { return questionRepo{s} }
func (s *Store) Answers() repository.AnswerRepository     { return answerRepo{s} }

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() error { return nil }

func (s *Store) stamp(t *time.Time) {
	if t.IsZero() {
		*t = s.now().UTC()
	}
}

func emailKey(email string) string {
	return strings.ToLower(email)
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	return append([]string(nil), tags...)
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := emailKey(user.Email)
	if _, taken := r.s.emails[key]; taken {
		return models.NewConflictError("Email is already registered")
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.s.stamp(&user.CreatedAt)
	user.UpdatedAt = user.CreatedAt

	r.s.users[user.ID] = *user
	r.s.emails[key] = user.ID
	return nil
}

func (r userRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, models.NewNotFoundError("User", id)
	}
	return &user, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.emails[emailKey(email)]
	if !ok {
		return nil, models.NewNotFoundError("User", email)
	}
	user := r.s.users[id]
	return &user, nil
}

type questionRepo struct{ s *Store }

func (r questionRepo) Create(_ context.Context, question *models.Question) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if question.ID == uuid.Nil {
		question.ID = uuid.New()
	}
	r.s.stamp(&question.CreatedAt)
	question.UpdatedAt = question.CreatedAt

	stored := *question
	stored.Tags = cloneTags(question.Tags)
	stored.Answers = nil
	r.s.questions[question.ID] = stored
	return nil
}

func (r questionRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	question, ok := r.s.questions[id]
	if !ok {
		return nil, models.NewNotFoundError("Question", id)
	}
	question.Tags = cloneTags(question.Tags)
	return &question, nil
}

func (r questionRepo) List(_ context.Context, limit, offset int) ([]*models.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]*models.Question, 0, len(r.s.questions))
	for _, q := range r.s.questions {
		q.Tags = cloneTags(q.Tags)
		all = append(all, &q)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.String() < all[j].ID.String()
	})
	return page(all, limit, offset), nil
}

func (r questionRepo) Update(_ context.Context, question *models.Question) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.questions[question.ID]
	if !ok {
		return models.NewNotFoundError("Question", question.ID)
	}
	stored.Title = question.Title
	stored.Content = question.Content
	stored.Tags = cloneTags(question.Tags)
	stored.UpdatedAt = r.s.now().UTC()
	r.s.questions[question.ID] = stored
	return nil
}

func (r questionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.questions[id]; !ok {
		return models.NewNotFoundError("Question", id)
	}
	delete(r.s.questions, id)
	for answerID, a := range r.s.answers {
		if a.QuestionID == id {
			delete(r.s.answers, answerID)
		}
	}
	return nil
}

func (r questionRepo) IsOwner(_ context.Context, id, userID uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q, ok := r.s.questions[id]
	return ok && q.UserID == userID, nil
}

type answerRepo struct{ s *Store }

func (r answerRepo) Create(_ context.Context, answer *models.Answer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.questions[answer.QuestionID]; !ok {
		return models.NewNotFoundError("Question", answer.QuestionID)
	}
	if answer.ID == uuid.Nil {
		answer.ID = uuid.New()
	}
	r.s.stamp(&answer.CreatedAt)
	r.s.answers[answer.ID] = *answer
	return nil
}

func (r answerRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Answer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	answer, ok := r.s.answers[id]
	if !ok {
		return nil, models.NewNotFoundError("Answer", id)
	}
	return &answer, nil
}

func (r answerRepo) ListByQuestion(_ context.Context, questionID uuid.UUID, limit, offset int) ([]*models.Answer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []*models.Answer
	for _, a := range r.s.answers {
		if a.QuestionID == questionID {
			matched = append(matched, &a)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})
	return page(matched, limit, offset), nil
}

func (r answerRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.answers[id]; !ok {
		return models.NewNotFoundError("Answer", id)
	}
	delete(r.s.answers, id)
	return nil
}

func (r answerRepo) IsOwner(_ context.Context, id, userID uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.answers[id]
	return ok && a.UserID == userID, nil
}

var _ repository.Store = (*Store)(nil)
