package httpapi

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// AppName is reported by fiber and the health endpoint.
const AppName = "weather-lookup"

const msgInternal = "Internal server error. Please try again later."

// NewApp builds the fiber app with the centralized error handler and the
// global middleware. accessLog enables per-request logging.
func NewApp(log *zap.SugaredLogger, accessLog bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               AppName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          errorHandler(log),
	})

	if accessLog {
		app.Use(logger.New())
	}
	app.Use(recover.New())
	return app
}

// errorHandler renders every failure as {"error": true, "message": ...}.
// Errors that are not *fiber.Error never leak their text to the client.
func errorHandler(log *zap.SugaredLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := msgInternal

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			log.Errorw("unhandled request error",
				"method", c.Method(), "path", c.Path(), "err", err)
		}

		return c.Status(code).JSON(fiber.Map{
			"error":   true,
			"message": message,
		})
	}
}
