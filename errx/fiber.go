package errx

import "github.com/gofiber/fiber/v2"

// ToFiber writes the error as a JSON response on a Fiber context
func (e *Error) ToFiber(c *fiber.Ctx) error {
	return c.Status(e.status()).JSON(e)
}

