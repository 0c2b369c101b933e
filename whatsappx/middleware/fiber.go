package middleware

import (
	"net/url"

	"github.com/Abraxas-365/wacloud/whatsappx"
	"github.com/gofiber/fiber/v2"
)

// Fiber serves the webhook endpoint on a Fiber app:
//
//	app.All("/webhook", middleware.Fiber(client))
func Fiber(client *whatsappx.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet:
			params, err := url.ParseQuery(string(c.Request().URI().QueryString()))
			if err != nil {
				return c.SendStatus(fiber.StatusBadRequest)
			}
			challenge, err := client.Get(params)
			if err != nil {
				return fiberError(c, err)
			}
			return c.Status(fiber.StatusOK).SendString(challenge)

		case fiber.MethodPost:
			// fasthttp reuses the body buffer once the handler returns
			body := append([]byte(nil), c.Body()...)
			_, err := client.Post(c.UserContext(), whatsappx.Request{
				RawBody:   body,
				Signature: c.Get(whatsappx.SignatureHeader),
			})
			if err != nil {
				return fiberError(c, err)
			}
			return c.SendStatus(fiber.StatusOK)
		}

		c.Set(fiber.HeaderAllow, "GET, POST")
		return c.SendStatus(fiber.StatusMethodNotAllowed)
	}
}

func fiberError(c *fiber.Ctx, err error) error {
	xerr := asWebhookError(err)
	if xerr == nil {
		return c.SendStatus(fiber.StatusOK)
	}
	return xerr.ToFiber(c)
}
