// Package router binds HTTP routes to an explicit, ordered pipeline of
// stages: bind, validate, respond-on-failure, handle.
package router

import (
	"errors"

	"productapi/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// Outcome tells the pipeline whether to run the next stage.
type Outcome int

const (
	Continue Outcome = iota
	Stop
)

// State is the per-request data shared by the stages of one pipeline run.
type State struct {
	Request  *validation.Request
	Failures []validation.Failure
}

// Stage is one step of a pipeline. Returning an error aborts the pipeline
// and hands the error to the app's fault boundary.
type Stage func(c *fiber.Ctx, st *State) (Outcome, error)

// HandlerFunc is the terminal stage of a route. It only runs when every
// rule of the route passed.
type HandlerFunc func(c *fiber.Ctx, req *validation.Request) error

// Route describes one endpoint. Body marks routes that read a JSON body;
// any payload sent to other routes is ignored.
type Route struct {
	Method  string
	Path    string
	Body    bool
	Rules   []validation.Rule
	Handler HandlerFunc
}

// Router registers routes on a fiber router.
type Router struct {
	group fiber.Router
}

// New creates a Router that mounts routes on group.
func New(group fiber.Router) *Router {
	return &Router{group: group}
}

// Handle composes the pipeline for route and registers it.
func (rt *Router) Handle(route Route) {
	rt.group.Add(route.Method, route.Path, Pipeline(
		Bind(route.Body),
		Validate(route.Rules...),
		RespondErrors,
		Handle(route.Handler),
	))
}

// Pipeline runs stages in order until one stops or fails.
func Pipeline(stages ...Stage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := &State{Failures: []validation.Failure{}}
		for _, stage := range stages {
			outcome, err := stage(c, st)
			if err != nil {
				return err
			}
			if outcome == Stop {
				return nil
			}
		}
		return nil
	}
}

// Bind builds the request view from path parameters and, when withBody is
// set, the JSON body. A body that is not a JSON object ends the request
// with 400.
func Bind(withBody bool) Stage {
	return func(c *fiber.Ctx, st *State) (Outcome, error) {
		params := make(map[string]string, len(c.Route().Params))
		for _, name := range c.Route().Params {
			params[name] = utils.CopyString(c.Params(name))
		}

		if !withBody {
			st.Request = validation.NewRequest(params, nil)
			return Continue, nil
		}

		body, err := validation.ParseBody(c.Body())
		if err != nil {
			if errors.Is(err, validation.ErrInvalidBody) {
				st.Failures = append(st.Failures, validation.Failure{
					Field:    "body",
					Code:     validation.CodeInvalidBody,
					Message:  "invalid JSON body",
					Location: validation.LocationBody,
				})
				return respondFailures(c, st.Failures)
			}
			return Stop, err
		}

		st.Request = validation.NewRequest(params, body)
		return Continue, nil
	}
}

// Validate runs rules against the bound request and records the failures.
func Validate(rules ...validation.Rule) Stage {
	return func(_ *fiber.Ctx, st *State) (Outcome, error) {
		st.Failures = append(st.Failures, validation.Run(st.Request, rules)...)
		return Continue, nil
	}
}

// RespondErrors ends the request with 400 when any rule failed. It has no
// effect otherwise.
func RespondErrors(c *fiber.Ctx, st *State) (Outcome, error) {
	if len(st.Failures) == 0 {
		return Continue, nil
	}
	return respondFailures(c, st.Failures)
}

// Handle wraps the terminal handler of a route.
func Handle(h HandlerFunc) Stage {
	return func(c *fiber.Ctx, st *State) (Outcome, error) {
		return Stop, h(c, st.Request)
	}
}

func respondFailures(c *fiber.Ctx, failures []validation.Failure) (Outcome, error) {
	return Stop, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"errors": failures,
	})
}
