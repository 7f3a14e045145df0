package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/cardwise/cardwise/internal/service"
)

type subscribeRequest struct {
	Email  string `json:"email"`
	Source string `json:"source"`
}

// NewsletterSubscribeHandler validates the signup and syncs it to the
// configured provider.
func NewsletterSubscribeHandler(newsletter *service.NewsletterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		var req subscribeRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payload"})
		}

		email := strings.TrimSpace(req.Email)
		if !validEmail(email) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid email"})
		}
		source := req.Source
		if source == "" {
			source = "site"
		}

		result, err := newsletter.SyncSubscriber(ctx, service.NewsletterSyncInput{Email: email, Source: source})
		if err != nil {
			zap.L().Error("newsletter sync failed", zap.String("provider", result.Provider), zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Subscription failed"})
		}

		return c.JSON(result)
	}
}

func validEmail(email string) bool {
	if len(email) < 3 || len(email) > 254 {
		return false
	}
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}
