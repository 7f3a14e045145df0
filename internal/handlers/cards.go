package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/cardwise/cardwise/internal/service"
)

const maxSlugLength = 200

// ListCardsHandler serves the filtered, paginated card catalog.
func ListCardsHandler(reconciler *service.Reconciler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		query, err := service.ParseCardsQuery(
			c.Query("issuer"),
			c.Query("category"),
			c.Query("maxFee"),
			c.Query("limit"),
			c.Query("offset"),
		)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid query params"})
		}

		cards, source, err := reconciler.Cards(ctx)
		if err != nil {
			zap.L().Error("card list unavailable", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
		}
		if source == service.SourceJSON {
			zap.L().Warn("serving card list from seed fallback")
		}

		filtered := service.FilterCards(cards, query)
		results := service.PaginateCards(filtered, query)

		return c.JSON(fiber.Map{
			"results": results,
			"pagination": fiber.Map{
				"total":  len(filtered),
				"limit":  query.Limit,
				"offset": query.Offset,
			},
		})
	}
}

// CardDetailHandler serves one card with its child collections.
func CardDetailHandler(reconciler *service.Reconciler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		slug := c.Params("slug")
		if slug == "" || len(slug) > maxSlugLength {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid slug"})
		}

		card, err := reconciler.CardBySlug(ctx, slug)
		if err != nil {
			zap.L().Error("card lookup failed", zap.String("slug", slug), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
		}
		if card == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Card not found"})
		}

		return c.JSON(fiber.Map{"card": card})
	}
}
