package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"productapi/internal/router"
	"productapi/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorsBody struct {
	Errors []validation.Failure `json:"errors"`
}

func newTestApp(route router.Route) *fiber.App {
	app := fiber.New()
	router.New(app.Group("/api")).Handle(route)
	return app
}

func TestHandle_ValidRequestReachesHandler(t *testing.T) {
	called := false
	app := newTestApp(router.Route{
		Method: fiber.MethodGet,
		Path:   "/items/:id",
		Rules:  []validation.Rule{validation.IntegerParam("id", "invalid id")},
		Handler: func(c *fiber.Ctx, req *validation.Request) error {
			called = true
			return c.JSON(fiber.Map{"id": req.PathInt("id")})
		},
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/items/41", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, called)

	var body map[string]int64
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(41), body["id"])
}

func TestHandle_FailuresShortCircuitHandler(t *testing.T) {
	called := false
	app := newTestApp(router.Route{
		Method: fiber.MethodPut,
		Path:   "/items/:id",
		Body:   true,
		Rules: []validation.Rule{
			validation.IntegerParam("id", "invalid id"),
			validation.Required(validation.LocationBody, "name", "name empty"),
		},
		Handler: func(c *fiber.Ctx, _ *validation.Request) error {
			called = true
			return c.SendStatus(fiber.StatusOK)
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/api/items/abc", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, called, "handler must not run when validation fails")

	var body errorsBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Errors, 2)
	assert.Equal(t, "invalid id", body.Errors[0].Message)
	assert.Equal(t, "name empty", body.Errors[1].Message)
}

func TestHandle_MalformedBody(t *testing.T) {
	called := false
	app := newTestApp(router.Route{
		Method: fiber.MethodPost,
		Path:   "/items",
		Body:   true,
		Rules:  []validation.Rule{validation.Required(validation.LocationBody, "name", "name empty")},
		Handler: func(c *fiber.Ctx, _ *validation.Request) error {
			called = true
			return c.SendStatus(fiber.StatusCreated)
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, called)

	var body errorsBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, validation.CodeInvalidBody, body.Errors[0].Code)
}

func TestHandle_BodyIgnoredWithoutBodyFlag(t *testing.T) {
	calls := 0
	app := newTestApp(router.Route{
		Method: fiber.MethodPatch,
		Path:   "/items/:id",
		Rules:  []validation.Rule{validation.IntegerParam("id", "invalid id")},
		Handler: func(c *fiber.Ctx, _ *validation.Request) error {
			calls++
			return c.SendStatus(fiber.StatusOK)
		},
	})

	req := httptest.NewRequest(http.MethodPatch, "/api/items/1", strings.NewReader(`[1]`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, calls)

	req = httptest.NewRequest(http.MethodPatch, "/api/items/abc", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 1, calls)

	var body errorsBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, validation.CodeInvalidID, body.Errors[0].Code)
}

func TestPipeline_StopsAtFirstStop(t *testing.T) {
	var trace []string
	stage := func(name string, outcome router.Outcome) router.Stage {
		return func(_ *fiber.Ctx, _ *router.State) (router.Outcome, error) {
			trace = append(trace, name)
			return outcome, nil
		}
	}

	app := fiber.New()
	app.Get("/", router.Pipeline(
		stage("first", router.Continue),
		stage("second", router.Stop),
		stage("third", router.Continue),
	))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, []string{"first", "second"}, trace)
}

func TestPipeline_ErrorReachesErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusTeapot).SendString(err.Error())
		},
	})
	app.Get("/", router.Pipeline(func(_ *fiber.Ctx, _ *router.State) (router.Outcome, error) {
		return router.Continue, assert.AnError
	}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
}
