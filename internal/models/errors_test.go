package models

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Status(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"not found", NewNotFoundError("Post", 7), fiber.StatusNotFound},
		{"forbidden", NewForbiddenError("nope"), fiber.StatusForbidden},
		{"validation", NewValidationError("bad"), fiber.StatusBadRequest},
		{"unauthorized", NewUnauthorizedError("who"), fiber.StatusUnauthorized},
		{"internal", NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Status())
		})
	}
}

func TestIsCode_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("delete comment: %w", NewForbiddenError("not yours"))
	assert.True(t, IsCode(err, CodeForbidden))
	assert.False(t, IsCode(err, CodeNotFound))
	assert.False(t, IsCode(errors.New("plain"), CodeForbidden))
}

func TestRespondWithError_HidesInternalDetails(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusInternalServerError, NewInternalError(errors.New("pq: secret table")))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body := make([]byte, 256)
	n, _ := resp.Body.Read(body)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, string(body[:n]), "secret table")
	assert.Contains(t, string(body[:n]), CodeInternal)
}
