package service

import (
	"context"
	"testing"

	"askly/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn     func(context.Context, *models.User) error
	getByIDFn    func(context.Context, uuid.UUID) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, u *models.User) error {
			u.ID = uuid.New()
			return nil
		},
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		},
		getByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			return nil, models.NewNotFoundError("User", email)
		},
	}
}

// questionRepoStub is a stub for repository.QuestionRepository.
type questionRepoStub struct {
	createFn  func(context.Context, *models.Question) error
	getByIDFn func(context.Context, uuid.UUID) (*models.Question, error)
	listFn    func(context.Context, int, int) ([]*models.Question, error)
	updateFn  func(context.Context, *models.Question) error
	deleteFn  func(context.Context, uuid.UUID) error
	isOwnerFn func(context.Context, uuid.UUID, uuid.UUID) (bool, error)
}

func (s *questionRepoStub) Create(ctx context.Context, q *models.Question) error {
	return s.createFn(ctx, q)
}
func (s *questionRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	return s.getByIDFn(ctx, id)
}
func (s *questionRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Question, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *questionRepoStub) Update(ctx context.Context, q *models.Question) error {
	return s.updateFn(ctx, q)
}
func (s *questionRepoStub) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}
func (s *questionRepoStub) IsOwner(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	return s.isOwnerFn(ctx, id, userID)
}

func noopQuestionRepo() *questionRepoStub {
	return &questionRepoStub{
		createFn: func(_ context.Context, q *models.Question) error {
			q.ID = uuid.New()
			return nil
		},
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.Question, error) {
			return &models.Question{ID: id}, nil
		},
		listFn:    func(_ context.Context, _, _ int) ([]*models.Question, error) { return nil, nil },
		updateFn:  func(_ context.Context, _ *models.Question) error { return nil },
		deleteFn:  func(_ context.Context, _ uuid.UUID) error { return nil },
		isOwnerFn: func(_ context.Context, _, _ uuid.UUID) (bool, error) { return true, nil },
	}
}

// answerRepoStub is a stub for repository.AnswerRepository.
type answerRepoStub struct {
	createFn         func(context.Context, *models.Answer) error
	getByIDFn        func(context.Context, uuid.UUID) (*models.Answer, error)
	listByQuestionFn func(context.Context, uuid.UUID, int, int) ([]*models.Answer, error)
	deleteFn         func(context.Context, uuid.UUID) error
	isOwnerFn        func(context.Context, uuid.UUID, uuid.UUID) (bool, error)
}

func (s *answerRepoStub) Create(ctx context.Context, a *models.Answer) error {
	return s.createFn(ctx, a)
}
func (s *answerRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Answer, error) {
	return s.getByIDFn(ctx, id)
}
func (s *answerRepoStub) ListByQuestion(ctx context.Context, questionID uuid.UUID, limit, offset int) ([]*models.Answer, error) {
	return s.listByQuestionFn(ctx, questionID, limit, offset)
}
func (s *answerRepoStub) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}
func (s *answerRepoStub) IsOwner(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	return s.isOwnerFn(ctx, id, userID)
}

func noopAnswerRepo() *answerRepoStub {
	return &answerRepoStub{
		createFn: func(_ context.Context, a *models.Answer) error {
			a.ID = uuid.New()
			return nil
		},
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.Answer, error) {
			return &models.Answer{ID: id}, nil
		},
		listByQuestionFn: func(_ context.Context, _ uuid.UUID, _, _ int) ([]*models.Answer, error) { return nil, nil },
		deleteFn:         func(_ context.Context, _ uuid.UUID) error { return nil },
		isOwnerFn:        func(_ context.Context, _, _ uuid.UUID) (bool, error) { return true, nil },
	}
}

// hasherStub is a stub for auth.Hasher.
type hasherStub struct {
	hashFn   func(string) (string, error)
	verifyFn func(string, string) (bool, error)
}

func (h *hasherStub) Hash(plaintext string) (string, error) { return h.hashFn(plaintext) }
func (h *hasherStub) Verify(encoded, plaintext string) (bool, error) {
	return h.verifyFn(encoded, plaintext)
}

// plainHasher prefixes the plaintext so tests can inspect what was stored.
func plainHasher() *hasherStub {
	return &hasherStub{
		hashFn: func(p string) (string, error) { return "hashed:" + p, nil },
		verifyFn: func(encoded, p string) (bool, error) {
			return encoded == "hashed:"+p, nil
		},
	}
}

type tokenIssuerStub struct {
	issueFn func(uuid.UUID) (string, error)
}

func (s *tokenIssuerStub) Issue(subject uuid.UUID) (string, error) { return s.issueFn(subject) }

func staticTokens() *tokenIssuerStub {
	return &tokenIssuerStub{issueFn: func(id uuid.UUID) (string, error) { return "token-for-" + id.String(), nil }}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, models.IsCode(err, code), "expected %s, got %v", code, err)
}
