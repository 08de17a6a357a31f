package controllers

import (
	"github.com/fixitlocal/fixit-app/services"
	"github.com/fixitlocal/fixit-app/utils"
	"github.com/gofiber/fiber/v2"
)

// EnhanceJobDescription runs the caller's draft through the local LLM and
// returns an elaborated description plus suggested tags. Falls back to the
// original text when the model is unavailable.
func EnhanceJobDescription(c *fiber.Ctx) error {
	type enhanceInput struct {
		Description string `json:"description"`
	}
	var input enhanceInput
	if err := c.BodyParser(&input); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}
	if input.Description == "" {
		return utils.RespondError(c, utils.Validation("Description is required"))
	}

	enhancer, err := services.NewEnhancer()
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.JSON(enhancer.Enhance(c.Context(), input.Description))
}

// ChatWithAssistant relays one free-form question to the local LLM and
// returns the assistant's short answer.
func ChatWithAssistant(c *fiber.Ctx) error {
	type chatInput struct {
		Message string `json:"message"`
	}
	var input chatInput
	if err := c.BodyParser(&input); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}
	if input.Message == "" {
		return utils.RespondError(c, utils.Validation("Message is required"))
	}

	enhancer, err := services.NewEnhancer()
	if err != nil {
		return utils.RespondError(c, err)
	}

	reply, err := enhancer.Chat(c.Context(), input.Message)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(reply)
}
