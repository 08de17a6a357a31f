package controllers

import (
	"github.com/fixitlocal/fixit-app/db"
	"github.com/fixitlocal/fixit-app/services"
	"github.com/fixitlocal/fixit-app/utils"
	"github.com/gofiber/fiber/v2"
)

// GetChatHistory returns every message for a job, oldest first.
func GetChatHistory(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("jobId")
	if err != nil || jobID < 1 {
		return utils.RespondError(c, utils.Validation("Invalid job ID"))
	}

	messages, err := services.NewChatService(db.DB).History(uint(jobID))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(messages)
}

// SendChatMessage is the HTTP fallback for posting a message; the websocket
// relay is the primary path and handles the broadcast.
func SendChatMessage(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	type sendInput struct {
		JobID   uint   `json:"job_id"`
		Content string `json:"content"`
	}
	var input sendInput
	if err := c.BodyParser(&input); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}
	if input.JobID == 0 {
		return utils.RespondError(c, utils.Validation("job_id is required"))
	}

	message, err := services.NewChatService(db.DB).Send(input.JobID, actor.ID, input.Content)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}
