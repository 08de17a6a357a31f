package controllers

import (
	"fmt"
	"time"

	"github.com/fixitlocal/fixit-app/db"
	"github.com/fixitlocal/fixit-app/models"
	"github.com/fixitlocal/fixit-app/utils"
	"github.com/gofiber/fiber/v2"
)

// UpdateProfile edits the caller's name and/or location.
func UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.RespondError(c, utils.Unauthorized(""))
	}

	type profileInput struct {
		Name string   `json:"name"`
		Lat  *float64 `json:"lat"`
		Lng  *float64 `json:"lng"`
	}
	var input profileInput
	if err := c.BodyParser(&input); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return utils.RespondError(c, utils.NotFound("User not found"))
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Lat != nil && input.Lng != nil {
		user.Lat = input.Lat
		user.Lng = input.Lng
	}

	if err := db.DB.Save(&user).Error; err != nil {
		return utils.RespondError(c, err)
	}

	user.Password = ""
	return c.JSON(user)
}

// UpdateAvatar uploads a new profile picture to Cloudinary and stores the URL.
func UpdateAvatar(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.RespondError(c, utils.Unauthorized(""))
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return utils.RespondError(c, utils.Validation("Avatar file is required"))
	}

	f, err := file.Open()
	if err != nil {
		return utils.RespondError(c, err)
	}
	defer f.Close()

	publicID := fmt.Sprintf("user_%d_%d", userID, time.Now().Unix())
	secureURL, err := utils.UploadToCloudinary(f, publicID, "avatars")
	if err != nil {
		return utils.RespondError(c, err)
	}

	if err := db.DB.Model(&models.User{}).Where("id = ?", userID).Update("avatar_url", secureURL).Error; err != nil {
		return utils.RespondError(c, err)
	}

	return c.JSON(fiber.Map{"avatar_url": secureURL})
}
