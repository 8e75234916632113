// Package service holds the application's business rules on top of the repositories.
package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"askly/internal/auth"
	"askly/internal/models"
	"askly/internal/repository"
	"askly/internal/validation"

	"github.com/google/uuid"
)

// TokenIssuer signs session tokens for a subject.
type TokenIssuer interface {
	Issue(subject uuid.UUID) (string, error)
}

type AuthService struct {
	users  repository.UserRepository
	hasher auth.Hasher
	tokens TokenIssuer

	dummyOnce sync.Once
	dummyHash string
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

type SigninInput struct {
	Email    string
	Password string
}

func NewAuthService(users repository.UserRepository, hasher auth.Hasher, tokens TokenIssuer) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a new user and returns it without the password hash.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)

	if err := validation.ValidateName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, models.NewConflictError("Email is already registered")
	case err != nil && !models.IsCode(err, models.CodeNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Signin checks the credentials and issues a session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Signin(ctx context.Context, in SigninInput) (string, *models.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return "", nil, models.NewInvalidCredentialError()
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			s.burnVerify(in.Password)
			return "", nil, models.NewInvalidCredentialError()
		}
		return "", nil, err
	}

	ok, err := s.hasher.Verify(user.Password, in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrHashFormat) {
			return "", nil, models.NewHashFormatError(err)
		}
		return "", nil, models.NewInternalError(err)
	}
	if !ok {
		return "", nil, models.NewInvalidCredentialError()
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}
	return token, user, nil
}

// burnVerify spends the same hashing work as a real check for unknown emails.
func (s *AuthService) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(uuid.NewString())
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(s.dummyHash, password)
	}
}
