package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/cardwise/cardwise/internal/service"
)

// QuizHandler scores the canonical card list against a questionnaire answer
// and returns the top recommendations.
func QuizHandler(reconciler *service.Reconciler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		var input service.QuizRequest
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payload"})
		}
		if err := input.Validate(); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payload"})
		}

		cards, _, err := reconciler.Cards(ctx)
		if err != nil {
			zap.L().Error("quiz scoring unavailable", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
		}

		results := service.RankQuizResults(cards, input)
		return c.JSON(fiber.Map{"results": results})
	}
}
