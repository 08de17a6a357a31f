package controllers

import (
	"github.com/fixitlocal/fixit-app/db"
	"github.com/fixitlocal/fixit-app/redis"
	"github.com/fixitlocal/fixit-app/services"
	"github.com/fixitlocal/fixit-app/utils"
	"github.com/gofiber/fiber/v2"
)

// CreateRating records a homeowner's rating for a fixer on a completed job
// and returns the refreshed summary.
func CreateRating(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	var input services.CreateRatingInput
	if err := c.BodyParser(&input); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}
	if input.FixerID == 0 || input.JobID == 0 {
		return utils.RespondError(c, utils.Validation("fixer_id and job_id are required"))
	}

	summary, err := services.NewRatingService(db.DB, redis.Client).Create(actor, input)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(summary)
}

// GetFixerRatingSummary returns a fixer's average score, rating count and
// most recent ratings.
func GetFixerRatingSummary(c *fiber.Ctx) error {
	fixerID, err := c.ParamsInt("fixerId")
	if err != nil || fixerID < 1 {
		return utils.RespondError(c, utils.Validation("Invalid fixer ID"))
	}

	summary, err := services.NewRatingService(db.DB, redis.Client).Summary(uint(fixerID))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(summary)
}
