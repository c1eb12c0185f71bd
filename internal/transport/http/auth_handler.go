package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/streamnest/streamnest-backend/internal/service"
	"github.com/streamnest/streamnest-backend/internal/util"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterAuth mounts the auth routes under /api/v1.
func RegisterAuth(e *echo.Echo, h *AuthHandler) {
	verifier := authVerifier{auth: h.auth}

	g := e.Group("/api/v1")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/password/forgot", h.RequestReset)
	g.POST("/password/verify-otp", h.VerifyReset)
	g.POST("/password/reset", h.ApplyReset)

	authed := g.Group("", RequireAuth(verifier))
	authed.GET("/me", h.Me)
	authed.POST("/logout", h.Logout)
}

// Register godoc
// @Summary Create a subscriber account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body registerRequest true "account details"
// @Success 201 {object} util.Envelope
// @Router /api/v1/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("Invalid request body."))
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	if req.FirstName == "" || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, util.Failure("First name and email are required."))
	}
	if err := util.ValidatePassword(req.Password); err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure(err.Error()))
	}

	user, err := h.auth.Register(c.Request().Context(), req.FirstName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return c.JSON(http.StatusConflict, util.Failure("Email is already registered."))
		}
		return c.JSON(http.StatusInternalServerError, util.Failure("Something went wrong."))
	}
	return c.JSON(http.StatusCreated, util.Success("Registration successful.", user))
}

// Login godoc
// @Summary Exchange credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "credentials"
// @Success 200 {object} util.Envelope
// @Router /api/v1/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("Invalid request body."))
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, util.Failure("Email and password are required."))
	}

	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, util.Failure("Invalid email or password."))
		}
		return c.JSON(http.StatusInternalServerError, util.Failure("Something went wrong."))
	}
	return c.JSON(http.StatusOK, util.Success("Login successful.", loginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      result.User,
	}))
}

// Me godoc
// @Summary Return the authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Envelope
// @Router /api/v1/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Failure("Authentication required."))
	}
	return c.JSON(http.StatusOK, util.Success("OK", user))
}

// Logout godoc
// @Summary Invalidate the current session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Envelope
// @Router /api/v1/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token, _ := c.Get(contextTokenKey).(string)
	if err := h.auth.Logout(c.Request().Context(), token); err != nil {
		return c.JSON(http.StatusInternalServerError, util.Failure("Something went wrong."))
	}
	return c.JSON(http.StatusOK, util.Success("Logged out.", nil))
}

// RequestReset godoc
// @Summary Send a password reset OTP by email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body passwordResetRequest true "account email"
// @Success 200 {object} util.Envelope
// @Router /api/v1/password/forgot [post]
func (h *AuthHandler) RequestReset(c echo.Context) error {
	var req passwordResetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("Invalid request body."))
	}
	if strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, util.Failure("Email is required."))
	}

	if err := h.auth.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, util.Failure("User not found."))
		}
		return c.JSON(http.StatusInternalServerError, util.Failure("Something went wrong."))
	}
	return c.JSON(http.StatusOK, util.Success("OTP sent to your email.", nil))
}

// VerifyReset godoc
// @Summary Verify a password reset OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param request body otpVerifyRequest true "email and OTP"
// @Success 200 {object} util.Envelope
// @Router /api/v1/password/verify-otp [post]
func (h *AuthHandler) VerifyReset(c echo.Context) error {
	var req otpVerifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("Invalid request body."))
	}
	if strings.TrimSpace(req.Email) == "" || !util.IsResetOTP(req.OTP) {
		return c.JSON(http.StatusBadRequest, util.Failure("A valid email and 6-digit OTP are required."))
	}

	if err := h.auth.VerifyPasswordReset(c.Request().Context(), req.Email, req.OTP); err != nil {
		if errors.Is(err, service.ErrInvalidOrExpiredOTP) {
			return c.JSON(http.StatusBadRequest, util.Failure("Invalid or expired OTP."))
		}
		return c.JSON(http.StatusInternalServerError, util.Failure("Something went wrong."))
	}
	return c.JSON(http.StatusOK, util.Success("OTP verified.", nil))
}

// ApplyReset godoc
// @Summary Set a new password after OTP verification
// @Tags auth
// @Accept json
// @Produce json
// @Param request body passwordResetApplyRequest true "email and new password"
// @Success 200 {object} util.Envelope
// @Router /api/v1/password/reset [post]
func (h *AuthHandler) ApplyReset(c echo.Context) error {
	var req passwordResetApplyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("Invalid request body."))
	}
	if strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, util.Failure("Email is required."))
	}
	if err := util.ValidatePassword(req.Password); err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure(err.Error()))
	}

	if err := h.auth.ApplyPasswordReset(c.Request().Context(), req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrResetNotVerified):
			return c.JSON(http.StatusForbidden, util.Failure("OTP verification required before resetting the password."))
		case errors.Is(err, service.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, util.Failure("User not found."))
		default:
			return c.JSON(http.StatusInternalServerError, util.Failure("Something went wrong."))
		}
	}
	return c.JSON(http.StatusOK, util.Success("Password reset successful.", nil))
}
