package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/rakshop/internal/services"
	"github.com/example/rakshop/internal/utils"
)

// AuthHandler exposes registration, login and profile endpoints.
type AuthHandler struct {
	auth      *services.AuthService
	uploadDir string
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *services.AuthService, uploadDir string) *AuthHandler {
	return &AuthHandler{auth: auth, uploadDir: uploadDir}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new user account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	result, err := h.auth.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			return fiber.NewError(fiber.StatusBadRequest, "user already exists")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"token":   result.Token,
		"name":    result.User.Name,
		"email":   result.User.Email,
		"user_id": result.User.ID,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an existing user.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid email or password")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"token":        result.Token,
		"name":         result.User.Name,
		"email":        result.User.Email,
		"profileImage": result.User.ProfileImage,
		"user_id":      result.User.ID,
	})
}

// Logout acknowledges the client dropping its token. Tokens are
// self-contained, so there is no server-side session to tear down.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "user logged out successfully"})
}

type validateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateToken verifies a session token and returns its owner's profile.
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	var req validateTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.auth.ValidateToken(c.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrTokenExpired):
			return fiber.NewError(fiber.StatusUnauthorized, "token expired")
		case errors.Is(err, utils.ErrTokenMalformed):
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		case errors.Is(err, services.ErrUserNotFound):
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"user_id":      user.ID,
		"name":         user.Name,
		"email":        user.Email,
		"profileImage": user.ProfileImage,
	})
}

// UpdateProfile handles the multipart profile update form.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	name := c.FormValue("name")
	rawUserID := c.FormValue("user_id")
	if name == "" || rawUserID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	upd := services.ProfileUpdate{
		Name:        name,
		OldPassword: c.FormValue("oldPassword"),
		NewPassword: c.FormValue("newPassword"),
	}

	if file, err := c.FormFile("profileImage"); err == nil && file != nil {
		filename, err := utils.SaveUpload(c, file, h.uploadDir)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to store profile image")
		}
		upd.NewImage = filename
	}

	user, err := h.auth.UpdateProfile(c.Context(), userID, upd)
	if err != nil {
		// A saved upload is orphaned when the update is rejected.
		if upd.NewImage != "" {
			utils.DeleteUpload(h.uploadDir, upd.NewImage)
		}
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		case errors.Is(err, services.ErrInvalidCredentials):
			return fiber.NewError(fiber.StatusBadRequest, "old password is incorrect")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"message": "profile updated successfully",
		"updated": fiber.Map{
			"name":         user.Name,
			"profileImage": user.ProfileImage,
		},
	})
}
