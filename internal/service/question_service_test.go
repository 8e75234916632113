package service

import (
	"context"
	"errors"
	"testing"

	"askly/internal/models"
	"askly/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnershipGuard(t *testing.T) {
	t.Parallel()
	owner, stranger := uuid.New(), uuid.New()
	questionID := uuid.New()
	storageErr := models.NewStorageUnavailableError(errors.New("down"))

	questions := noopQuestionRepo()
	questions.isOwnerFn = func(_ context.Context, id, userID uuid.UUID) (bool, error) {
		if userID == uuid.Nil {
			return false, storageErr
		}
		return id == questionID && userID == owner, nil
	}
	guard := NewOwnershipGuard(questions, noopAnswerRepo())
	ctx := context.Background()

	ok, err := guard.IsQuestionOwner(ctx, questionID, owner)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = guard.IsQuestionOwner(ctx, questionID, stranger)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = guard.IsQuestionOwner(ctx, uuid.New(), owner)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, guard.RequireQuestionOwner(ctx, questionID, owner))
	assertCode(t, guard.RequireQuestionOwner(ctx, questionID, stranger), models.CodeNotOwner)
	assertCode(t, guard.RequireQuestionOwner(ctx, uuid.New(), owner), models.CodeNotOwner)

	_, err = guard.IsQuestionOwner(ctx, questionID, uuid.Nil)
	assertCode(t, err, models.CodeStorageUnavailable)
	assertCode(t, guard.RequireQuestionOwner(ctx, questionID, uuid.Nil), models.CodeStorageUnavailable)
}

func TestQuestionService_CreateQuestion_Validation(t *testing.T) {
	t.Parallel()
	svc := NewQuestionService(noopQuestionRepo(), NewOwnershipGuard(noopQuestionRepo(), noopAnswerRepo()))
	ctx := context.Background()

	_, err := svc.CreateQuestion(ctx, CreateQuestionInput{UserID: uuid.New(), Content: "body"})
	assertCode(t, err, models.CodeValidation)

	_, err = svc.CreateQuestion(ctx, CreateQuestionInput{UserID: uuid.New(), Title: "title"})
	assertCode(t, err, models.CodeValidation)
}

func TestQuestionService_UpdateChecksOwnershipFirst(t *testing.T) {
	t.Parallel()
	questions := noopQuestionRepo()
	questions.isOwnerFn = func(_ context.Context, _, _ uuid.UUID) (bool, error) { return false, nil }
	questions.updateFn = func(_ context.Context, _ *models.Question) error {
		t.Fatal("update must not run for a non-owner")
		return nil
	}

	svc := NewQuestionService(questions, NewOwnershipGuard(questions, noopAnswerRepo()))
	_, err := svc.UpdateQuestion(context.Background(), UpdateQuestionInput{
		UserID:     uuid.New(),
		QuestionID: uuid.New(),
	})
	assertCode(t, err, models.CodeNotOwner)
}

func TestQuestionService_DeleteChecksOwnershipFirst(t *testing.T) {
	t.Parallel()
	questions := noopQuestionRepo()
	questions.isOwnerFn = func(_ context.Context, _, _ uuid.UUID) (bool, error) { return false, nil }
	questions.deleteFn = func(_ context.Context, _ uuid.UUID) error {
		t.Fatal("delete must not run for a non-owner")
		return nil
	}

	svc := NewQuestionService(questions, NewOwnershipGuard(questions, noopAnswerRepo()))
	err := svc.DeleteQuestion(context.Background(), DeleteQuestionInput{UserID: uuid.New(), QuestionID: uuid.New()})
	assertCode(t, err, models.CodeNotOwner)
}

func TestQuestionAndAnswerServices_WithMemoryStore(t *testing.T) {
	t.Parallel()
	store := memory.New()
	guard := NewOwnershipGuard(store.Questions(), store.Answers())
	questions := NewQuestionService(store.Questions(), guard)
	answers := NewAnswerService(store.Answers(), store.Questions(), guard)
	ctx := context.Background()
	u1, u2 := uuid.New(), uuid.New()

	q, err := questions.CreateQuestion(ctx, CreateQuestionInput{
		UserID:  u1,
		Title:   "  How?  ",
		Content: "Like this",
		Tags:    []string{"Go", "go", "testing"},
	})
	require.NoError(t, err)
	assert.Equal(t, "How?", q.Title)
	assert.Equal(t, []string{"go", "testing"}, q.Tags)
	assert.Equal(t, u1, q.UserID)

	a, err := answers.CreateAnswer(ctx, CreateAnswerInput{UserID: u2, QuestionID: q.ID, Content: "Answer"})
	require.NoError(t, err)
	assert.Equal(t, u2, a.UserID)

	_, err = answers.CreateAnswer(ctx, CreateAnswerInput{UserID: u2, QuestionID: uuid.New(), Content: "Orphan"})
	assertCode(t, err, models.CodeNotFound)

	_, err = answers.ListAnswers(ctx, uuid.New(), 10, 0)
	assertCode(t, err, models.CodeNotFound)

	err = questions.DeleteQuestion(ctx, DeleteQuestionInput{UserID: u2, QuestionID: q.ID})
	assertCode(t, err, models.CodeNotOwner)

	err = answers.DeleteAnswer(ctx, DeleteAnswerInput{UserID: u1, AnswerID: a.ID})
	assertCode(t, err, models.CodeNotOwner)

	updated, err := questions.UpdateQuestion(ctx, UpdateQuestionInput{
		UserID:     u1,
		QuestionID: q.ID,
		Title:      "How exactly?",
		Content:    "Like that",
	})
	require.NoError(t, err)
	assert.Equal(t, "How exactly?", updated.Title)
	assert.Equal(t, u1, updated.UserID)

	require.NoError(t, questions.DeleteQuestion(ctx, DeleteQuestionInput{UserID: u1, QuestionID: q.ID}))

	_, err = questions.GetQuestion(ctx, q.ID)
	assertCode(t, err, models.CodeNotFound)
	_, err = store.Answers().GetByID(ctx, a.ID)
	assertCode(t, err, models.CodeNotFound)

	err = questions.DeleteQuestion(ctx, DeleteQuestionInput{UserID: u1, QuestionID: q.ID})
	assertCode(t, err, models.CodeNotOwner)
}

func TestUserService_GetProfile(t *testing.T) {
	t.Parallel()
	id := uuid.New()
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, got uuid.UUID) (*models.User, error) {
		if got == id {
			return &models.User{ID: id, Name: "Ada"}, nil
		}
		return nil, models.NewNotFoundError("User", got)
	}

	svc := NewUserService(users)
	user, err := svc.GetProfile(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)

	_, err = svc.GetProfile(context.Background(), uuid.New())
	assertCode(t, err, models.CodeNotFound)
}
