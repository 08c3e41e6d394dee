package response

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"auraestate-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, h fiber.Handler) (int, map[string]interface{}) {
	app := fiber.New()
	app.Get("/", h)
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestError(t *testing.T) {
	code, out := call(t, func(c *fiber.Ctx) error { return Error(c, "Property not found", fiber.StatusNotFound) })
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, "Property not found", out["error"])
}

func TestValidation(t *testing.T) {
	errs := &validation.Errors{Fields: []validation.FieldError{{Field: "title", Message: "title is required"}}}
	code, out := call(t, func(c *fiber.Ctx) error { return Validation(c, errs) })
	assert.Equal(t, fiber.StatusBadRequest, code)
	list := out["errors"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "title", list[0].(map[string]interface{})["field"])
}

func TestInternal(t *testing.T) {
	code, out := call(t, Internal)
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Equal(t, "Internal server error", out["error"])
}
