package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/edtech-scanner/app-auth/internal/models"
	"github.com/edtech-scanner/app-auth/internal/observability"
	"github.com/edtech-scanner/app-auth/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler exposes the authentication flows over HTTP
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler creates the authentication handler
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// SendOTP godoc
// @Summary Request a one-time passcode
// @Description Generates a 6-digit code and delivers it to the given phone number via SMS
// @Tags auth
// @Accept json
// @Produce json
// @Param data body models.SendOTPRequest true "Phone number in E.164 format"
// @Success 200 {object} models.SendOTPResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/otp/send [post]
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req models.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	ttl, err := h.auth.RequestOTP(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidPhone):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, models.ErrRateLimited):
			c.Header("Retry-After", "3600")
			c.JSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "Too many OTP requests, try again later",
			})
		default:
			observability.Logger().Error("failed to issue OTP", zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "Failed to send verification code",
			})
		}
		return
	}

	c.JSON(http.StatusOK, models.SendOTPResponse{
		Message:     "Verification code sent",
		PhoneNumber: req.PhoneNumber,
		ExpiresIn:   int64(ttl.Seconds()),
	})
}

// VerifyOTP godoc
// @Summary Verify a one-time passcode
// @Description Validates the submitted code and returns a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param data body models.VerifyOTPRequest true "Phone number and code"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/otp/verify [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	resp, err := h.auth.VerifyOTP(c.Request.Context(), req.PhoneNumber, req.OTPCode)
	if err != nil {
		var invalidCode *models.InvalidCodeError
		switch {
		case errors.Is(err, models.ErrInvalidPhone):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, models.ErrOTPNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "Verification code not found or expired",
			})
		case errors.Is(err, models.ErrLockedOut):
			c.JSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "Too many failed attempts, request a new code",
			})
		case errors.As(err, &invalidCode):
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error: fmt.Sprintf("Invalid verification code, %d attempts remaining", invalidCode.RemainingAttempts),
			})
		default:
			observability.Logger().Error("failed to verify OTP", zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "Failed to verify code",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GoogleSignIn godoc
// @Summary Sign in with a Google account
// @Description Validates an externally issued Google ID token and returns a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param data body models.GoogleSignInRequest true "Google ID token"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google-signin [post]
func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	var req models.GoogleSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	resp, err := h.auth.GoogleSignIn(c.Request.Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, models.ErrInvalidAssertion) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error: "Invalid identity assertion",
			})
			return
		}
		observability.Logger().Error("failed to sign in with Google", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to sign in",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SignOut godoc
// @Summary Sign out
// @Description Revokes a session token so it is rejected until its natural expiry
// @Tags auth
// @Accept json
// @Produce json
// @Param data body models.SignOutRequest true "Session token to revoke"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	var req models.SignOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	if err := h.auth.SignOut(c.Request.Context(), req.Token); err != nil {
		observability.Logger().Error("failed to sign out", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to sign out",
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Signed out"})
}

// RefreshToken godoc
// @Summary Refresh a session token
// @Description Not implemented; clients must sign in again when a token expires
// @Tags auth
// @Produce json
// @Failure 501 {object} ErrorResponse
// @Router /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, ErrorResponse{
		Error: "Token refresh is not supported, sign in again",
	})
}
