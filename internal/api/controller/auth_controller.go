package controller

import (
	"log/slog"
	"net/http"

	"github.com/Aariyan007/personal-expense-tracker/internal/api/response"
	"github.com/Aariyan007/personal-expense-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

type PreferencesRequest struct {
	MonthlyIncome float64 `json:"monthly_income" binding:"min=0"`
	SavingsTarget float64 `json:"savings_target" binding:"min=0"`
	Currency      string  `json:"currency"`
}

// Register creates a user with a hashed password.
// @Summary  Register
// @Tags     Auth
// @Accept   json
// @Produce  json
// @Param    request body RegisterRequest true "registration"
// @Success  200 {object} response.Response
// @Failure  400 {object} response.Response
// @Router   /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register params invalid", "err", err)
		response.Error(c, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	if err := ctrl.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
		slog.Error("register failed", "email", req.Email, "err", err)
		response.Error(c, http.StatusInternalServerError, "registration failed")
		return
	}

	slog.Info("user registered", "email", req.Email)
	response.Success(c, nil)
}

// Login verifies credentials and issues a JWT.
// @Summary  Login
// @Tags     Auth
// @Accept   json
// @Produce  json
// @Param    request body LoginRequest true "credentials"
// @Success  200 {object} response.Response{data=LoginResponse}
// @Router   /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request format")
		return
	}

	token, userID, err := ctrl.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("login failed", "email", req.Email, "err", err)
		// Vague message, don't help brute force.
		response.Error(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	slog.Info("user logged in", "userID", userID)
	response.Success(c, LoginResponse{Token: token, UserID: userID})
}

// UpdatePreferences stores the onboarding answers.
// @Summary  Update preferences
// @Tags     Auth
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    request body PreferencesRequest true "preferences"
// @Success  200 {object} response.Response
// @Router   /users/preferences [put]
func (ctrl *AuthController) UpdatePreferences(c *gin.Context) {
	userID := c.GetString("userID")

	var req PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	if err := ctrl.authService.UpdatePreferences(c.Request.Context(), userID, req.MonthlyIncome, req.SavingsTarget, req.Currency); err != nil {
		slog.Error("update preferences failed", "userID", userID, "err", err)
		response.Error(c, http.StatusInternalServerError, "could not save preferences")
		return
	}

	response.Success(c, nil)
}

// Me returns the caller's profile.
// @Summary  Profile
// @Tags     Auth
// @Security BearerAuth
// @Produce  json
// @Success  200 {object} response.Response
// @Router   /users/me [get]
func (ctrl *AuthController) Me(c *gin.Context) {
	userID := c.GetString("userID")

	user, err := ctrl.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "user not found")
		return
	}
	response.Success(c, user)
}
