package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad"), fiber.StatusBadRequest},
		{"invalid credential", NewInvalidCredentialError(), fiber.StatusUnauthorized},
		{"invalid token", NewAuthTokenInvalidError(), fiber.StatusUnauthorized},
		{"not owner", NewNotOwnerError("question"), fiber.StatusForbidden},
		{"not found", NewNotFoundError("Question", 1), fiber.StatusNotFound},
		{"conflict", NewConflictError("taken"), fiber.StatusConflict},
		{"storage", NewStorageUnavailableError(errors.New("db down")), fiber.StatusInternalServerError},
		{"hash format", NewHashFormatError(errors.New("bad")), fiber.StatusInternalServerError},
		{"wrapped not owner", fmt.Errorf("delete: %w", NewNotOwnerError("answer")), fiber.StatusForbidden},
		{"plain error", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestAppError_IsMatchesCode(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NewNotFoundError("Question", "x"))

	assert.True(t, errors.Is(err, &AppError{Code: CodeNotFound}))
	assert.False(t, errors.Is(err, &AppError{Code: CodeNotOwner}))
	assert.True(t, IsCode(err, CodeNotFound))
	assert.False(t, IsCode(errors.New("other"), CodeNotFound))
}

func TestRespondWithError_HidesServerDetails(t *testing.T) {
	app := fiber.New()
	app.Get("/storage", func(c *fiber.Ctx) error {
		return RespondWithAppError(c, NewStorageUnavailableError(errors.New("dial tcp 10.0.0.5:5432: connection refused")))
	})
	app.Get("/owner", func(c *fiber.Ctx) error {
		return RespondWithAppError(c, NewNotOwnerError("question"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/storage", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "10.0.0.5")

	var payload ErrorResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "Internal server error", payload.Error)
	assert.Equal(t, CodeStorageUnavailable, payload.Code)

	resp, err = app.Test(httptest.NewRequest("GET", "/owner", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	payload = ErrorResponse{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, CodeNotOwner, payload.Code)
}
