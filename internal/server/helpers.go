package server

import (
	"errors"
	"log/slog"
	"strings"
	"unicode"

	"collabfeed/internal/middleware"
	"collabfeed/internal/models"
	"collabfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// PaginatedResponse is the envelope of every paged list.
type PaginatedResponse struct {
	Data any              `json:"data"`
	Meta service.PageMeta `json:"meta"`
}

// parsePageRequest reads the page and limit query parameters. Out-of-range
// values are clamped rather than rejected.
func parsePageRequest(c *fiber.Ctx) service.PageRequest {
	return service.NewPageRequest(c.QueryInt("page", 1), c.QueryInt("limit", service.DefaultPageLimit))
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseOptionalUint reads an optional positive integer query parameter.
// An absent parameter yields nil; a malformed one writes a 400.
func parseOptionalUint(c *fiber.Ctx, name string) (*uint, error) {
	if c.Query(name) == "" {
		return nil, nil
	}
	v := c.QueryInt(name, -1)
	if v <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(name)))
		return nil, errResponseWritten
	}
	u := uint(v)
	return &u, nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "collectionId" -> "collection ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		words := splitCamel(param[:len(param)-2])
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// respondError writes err with the status its AppError code maps to.
// Errors that are not AppErrors are reported as 500 without details.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		appErr = models.NewInternalError(err)
		err = appErr
	}
	if models.IsCode(err, models.CodeInternal) {
		middleware.Logger.ErrorContext(c.UserContext(), "Request failed with internal error",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}
	return models.RespondWithError(c, appErr.Status(), err)
}

func badBody(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
}
