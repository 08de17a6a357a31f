package controllers

import (
	"errors"
	"os"
	"time"

	"log"

	"github.com/fixitlocal/fixit-app/db"
	"github.com/fixitlocal/fixit-app/models"
	"github.com/fixitlocal/fixit-app/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func jwtSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "solid_secret_key" // Replace with secure key in production
	}
	return secret
}

// Register handles user registration
func Register(c *fiber.Ctx) error {
	user := new(models.User)

	if err := c.BodyParser(user); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}

	if user.Email == "" || user.Password == "" || user.Name == "" {
		return utils.RespondError(c, utils.Validation("Missing required fields"))
	}
	if !models.ValidRole(user.Role) {
		return utils.RespondError(c, utils.Validation("Role must be homeowner or fixer"))
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.RespondError(c, err)
	}
	user.Password = string(hashedPassword)

	// The unique index on email is the source of truth; racing registrations
	// both reach Create and the loser gets a translated duplicate error.
	if err := db.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.RespondError(c, utils.Duplicate("User with this email already exists"))
		}
		log.Printf("Error creating user: %v", err)
		return utils.RespondError(c, err)
	}

	// Remove password from response
	user.Password = ""

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles user authentication
func Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}

	// Find user
	var user models.User
	if db.DB.Where("email = ?", input.Email).First(&user).RowsAffected == 0 {
		return utils.RespondError(c, utils.Unauthorized("Invalid credentials"))
	}

	// Compare passwords
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return utils.RespondError(c, utils.Unauthorized("Invalid credentials"))
	}

	// Create access token
	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"exp":   time.Now().Add(time.Hour * 24).Unix(), // 24 hour expiration
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(jwtSecret()))
	if err != nil {
		return utils.RespondError(c, err)
	}

	// Create refresh token with longer expiration
	refreshClaims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"exp":   time.Now().Add(time.Hour * 24 * 7).Unix(), // 7 day expiration
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshTokenString, err := refreshToken.SignedString([]byte(jwtSecret()))
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"token":        tokenString,
		"refreshToken": refreshTokenString,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// GetUserProfile returns the current user's profile
func GetUserProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.RespondError(c, utils.Unauthorized(""))
	}

	var userProfile models.User
	if err := db.DB.First(&userProfile, userID).Error; err != nil {
		return utils.RespondError(c, utils.NotFound("User not found"))
	}

	// Don't send password
	userProfile.Password = ""

	return c.JSON(userProfile)
}

// GetUserByID returns a user's public profile
func GetUserByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.RespondError(c, utils.Validation("Invalid user ID"))
	}

	var user models.User
	if db.DB.First(&user, id).RowsAffected == 0 {
		return utils.RespondError(c, utils.NotFound("User not found"))
	}

	user.Password = ""
	return c.JSON(user)
}

// Logout doesn't actually invalidate the token as JWTs are stateless
// For a more secure implementation, you'd need to use a token blacklist
func Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Successfully logged out",
	})
}

// RefreshToken generates a new access token using a refresh token
func RefreshToken(c *fiber.Ctx) error {
	type RefreshRequest struct {
		RefreshToken string `json:"refreshToken"`
	}

	refreshRequest := new(RefreshRequest)
	if err := c.BodyParser(refreshRequest); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}

	token, err := jwt.Parse(refreshRequest.RefreshToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret()), nil
	})
	if err != nil || !token.Valid {
		return utils.RespondError(c, utils.Unauthorized("Invalid refresh token"))
	}

	// Create new access token
	claims := token.Claims.(jwt.MapClaims)
	newClaims := jwt.MapClaims{
		"id":    claims["id"],
		"email": claims["email"],
		"role":  claims["role"],
		"exp":   time.Now().Add(time.Hour * 24).Unix(),
	}

	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, newClaims)
	tokenString, err := newToken.SignedString([]byte(jwtSecret()))
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"token": tokenString,
	})
}
