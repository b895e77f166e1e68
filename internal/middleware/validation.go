package middleware

import (
	"wikiquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateQuizID validates the id path parameter and stores the parsed
// value in the request context for handlers to use.
func (vm *ValidationMiddleware) ValidateQuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := vm.validator.ValidateQuizID(c.Params("id"))
		if err != nil {
			return err // handled by the ErrorHandler middleware
		}

		c.Locals("validated_quiz_id", id)
		return c.Next()
	}
}
