package http

import (
	"fmt"
	"reflect"
	"strings"

	"chesscore/internal/core"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

// validationMiddleware parses and validates JSON bodies of mutating game
// requests, storing the result under the "validatedBody" local
func validationMiddleware(c *fiber.Ctx) error {
	method := c.Method()
	if method != fiber.MethodPost {
		return c.Next()
	}

	path := c.Path()
	var requestType any

	switch {
	case strings.HasSuffix(path, "/games"):
		requestType = &core.CreateGameRequest{}
	case strings.HasSuffix(path, "/moves"):
		requestType = &core.MoveRequest{}
	case strings.HasSuffix(path, "/play"):
		requestType = &core.PlayRequest{}
	case strings.HasSuffix(path, "/castle"):
		requestType = &core.CastleRequest{}
	default:
		return c.Next()
	}

	// An empty body is the zero request; required fields catch it below
	if len(c.Body()) > 0 {
		if err := c.BodyParser(requestType); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
				Error:   "invalid request body",
				Code:    core.ErrInvalidRequest,
				Details: err.Error(),
			})
		}
	}

	if err := validate.Struct(requestType); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: describeValidation(err),
		})
	}

	c.Locals("validatedBody", requestType)
	return c.Next()
}

func describeValidation(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	var details strings.Builder
	for _, e := range errs {
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		switch e.Tag() {
		case "required":
			details.WriteString(fmt.Sprintf("%s is required", e.Field()))
		case "oneof":
			details.WriteString(fmt.Sprintf("%s must be one of [%s]", e.Field(), e.Param()))
		case "len":
			details.WriteString(fmt.Sprintf("%s must be %s characters", e.Field(), e.Param()))
		case "min", "max":
			bound := "at least"
			if e.Tag() == "max" {
				bound = "at most"
			}
			if e.Kind() == reflect.String {
				details.WriteString(fmt.Sprintf("%s must be %s %s characters", e.Field(), bound, e.Param()))
			} else {
				details.WriteString(fmt.Sprintf("%s must be %s %s", e.Field(), bound, e.Param()))
			}
		default:
			details.WriteString(fmt.Sprintf("%s failed %s validation", e.Field(), e.Tag()))
		}
	}
	return details.String()
}

// validatedBody fetches the request stored by validationMiddleware
func validatedBody[T any](c *fiber.Ctx) (T, bool) {
	req, ok := c.Locals("validatedBody").(*T)
	if !ok || req == nil {
		var zero T
		return zero, false
	}
	return *req, true
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
