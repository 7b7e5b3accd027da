package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/usecase-portal/internal/api/dto"
	"github.com/spec-kit/usecase-portal/internal/domain"
	"github.com/spec-kit/usecase-portal/internal/service"
	apperrors "github.com/spec-kit/usecase-portal/pkg/util/errorutil"
)

// AuthHandler exposes the account endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Signup handles POST /signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return apperrors.NewValidationError("invalid role", map[string]any{"role": req.Role})
	}
	license, ok := domain.ParseLicense(req.License)
	if !ok {
		return apperrors.NewValidationError("invalid license", map[string]any{"license": req.License})
	}

	user, err := h.auth.Signup(c.Context(), req.Email, req.Password, role, license)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"id":      user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"license": user.License,
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	token, _, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// ForgotPassword handles POST /forgot-password.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email required", nil)
	}

	token, err := h.auth.ForgotPassword(c.Context(), req.Email)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":     "Reset token generated",
		"reset_token": token,
	})
}

// ResetPassword handles POST /reset-password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Token == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("email, token, new_password required", nil)
	}

	if err := h.auth.ResetPassword(c.Context(), req.Email, req.Token, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Password reset successful"})
}
