package auth

import (
	"errors"
	"net/http"

	"wmx/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/verify", h.VerifyEmail)
		authGroup.POST("/verify/resend", h.ResendCode)
		authGroup.POST("/magic-link", h.RequestMagicLink)
		authGroup.GET("/magic", h.ConsumeMagicLink)
		authGroup.GET("/oauth", h.OAuthStart)
		authGroup.GET("/oauth/callback", h.OAuthCallback)
		authGroup.POST("/reset/request", h.RequestPasswordReset)
		authGroup.GET("/reset/validate", h.ValidateResetToken)
		authGroup.POST("/reset", h.ResetPassword)
	}
	v1.GET("/unsubscribe", h.Unsubscribe)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	userGroup := protected.Group("/users")
	{
		userGroup.GET("/me", h.GetMe)
		userGroup.PUT("/me", h.UpdateProfile)
		userGroup.PUT("/me/preferences", h.UpdatePreferences)
	}
}

// Register creates an inactive account and emails a 6-digit code.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
			return
		}
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"name":      user.Name,
			"role":      user.Role,
			"is_active": user.IsActive,
		},
		"message": "Verification code sent",
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email or password is incorrect")
		case errors.Is(err, ErrEmailNotVerified):
			response.Error(c, http.StatusForbidden, "EMAIL_NOT_VERIFIED", "Verify your email before logging in")
		case errors.Is(err, ErrAccountLocked):
			response.Error(c, http.StatusTooManyRequests, "ACCOUNT_LOCKED", "Too many failed attempts, try again later")
		default:
			response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":  result.User,
		"token": result.AccessToken,
	})
}

func (h *Handler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	err := h.service.VerifyEmail(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Account not found")
		case errors.Is(err, ErrAlreadyVerified):
			response.Error(c, http.StatusConflict, "ALREADY_VERIFIED", "Email is already verified")
		case errors.Is(err, ErrCodeExpired):
			response.Error(c, http.StatusGone, "CODE_EXPIRED", "Verification code expired, request a new one")
		case errors.Is(err, ErrTooManyAttempts):
			response.Error(c, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "Too many attempts, request a new code")
		case errors.Is(err, ErrInvalidCode):
			response.Error(c, http.StatusBadRequest, "INVALID_CODE", "Verification code is incorrect")
		default:
			response.Error(c, http.StatusInternalServerError, "VERIFICATION_FAILED", "Failed to verify email")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Email verified, account activated"})
}

func (h *Handler) ResendCode(c *gin.Context) {
	var req ResendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	err := h.service.ResendCode(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Account not found")
		case errors.Is(err, ErrAlreadyVerified):
			response.Error(c, http.StatusConflict, "ALREADY_VERIFIED", "Email is already verified")
		default:
			response.Error(c, http.StatusInternalServerError, "RESEND_FAILED", "Failed to resend code")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Verification code sent"})
}

func (h *Handler) RequestMagicLink(c *gin.Context) {
	var req MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	if err := h.service.RequestMagicLink(c.Request.Context(), req.Email); err != nil {
		response.Error(c, http.StatusInternalServerError, "MAGIC_LINK_FAILED", "Failed to send sign-in link")
		return
	}

	// same reply whether or not the account exists
	response.Success(c, http.StatusOK, gin.H{"message": "If the address is registered, a sign-in link is on its way"})
}

func (h *Handler) ConsumeMagicLink(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing token")
		return
	}

	result, err := h.service.ConsumeMagicLink(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenExpired):
			response.Error(c, http.StatusGone, "TOKEN_EXPIRED", "Sign-in link expired")
		case errors.Is(err, ErrTokenUsed):
			response.Error(c, http.StatusConflict, "TOKEN_USED", "Sign-in link already used")
		case errors.Is(err, ErrInvalidToken):
			response.Error(c, http.StatusBadRequest, "INVALID_TOKEN", "Sign-in link is not valid")
		default:
			response.Error(c, http.StatusInternalServerError, "MAGIC_LINK_FAILED", "Failed to sign in")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":  result.User,
		"token": result.AccessToken,
	})
}

const oauthStateCookie = "oauth_state"

// OAuthStart hands the client the provider consent URL. The state travels in
// a short-lived cookie the callback checks against the query parameter.
func (h *Handler) OAuthStart(c *gin.Context) {
	url, state, err := h.service.OAuthStart()
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "OAUTH_DISABLED", "OAuth sign-in is not available")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	response.Success(c, http.StatusOK, gin.H{"url": url})
}

func (h *Handler) OAuthCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing code or state")
		return
	}

	saved, err := c.Cookie(oauthStateCookie)
	if err != nil || saved != state {
		response.Error(c, http.StatusBadRequest, "BAD_STATE", "State mismatch, restart the sign-in")
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	result, err := h.service.OAuthLogin(c.Request.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, ErrOAuthDisabled):
			response.Error(c, http.StatusServiceUnavailable, "OAUTH_DISABLED", "OAuth sign-in is not available")
		case errors.Is(err, ErrOAuthEmailMissing):
			response.Error(c, http.StatusBadRequest, "OAUTH_NO_EMAIL", "The provider did not share an email address")
		default:
			response.Error(c, http.StatusBadGateway, "OAUTH_FAILED", "Could not complete the sign-in")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":  result.User,
		"token": result.AccessToken,
	})
}

func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req ResetRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	if err := h.service.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		response.Error(c, http.StatusInternalServerError, "RESET_FAILED", "Failed to send reset link")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "If the address is registered, a reset link is on its way"})
}

func (h *Handler) ValidateResetToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing token")
		return
	}

	if err := h.service.ValidateResetToken(c.Request.Context(), token); err != nil {
		writeResetTokenError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"valid": true})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		writeResetTokenError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Password updated"})
}

func writeResetTokenError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrTokenExpired):
		response.Error(c, http.StatusGone, "TOKEN_EXPIRED", "Reset link expired")
	case errors.Is(err, ErrTokenUsed):
		response.Error(c, http.StatusConflict, "TOKEN_USED", "Reset link already used")
	case errors.Is(err, ErrTooManyAttempts):
		response.Error(c, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "Too many attempts, request a new link")
	case errors.Is(err, ErrInvalidToken):
		response.Error(c, http.StatusBadRequest, "INVALID_TOKEN", "Reset link is not valid")
	default:
		response.Error(c, http.StatusInternalServerError, "RESET_FAILED", "Failed to reset password")
	}
}

func (h *Handler) Unsubscribe(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing token")
		return
	}

	if err := h.service.Unsubscribe(c.Request.Context(), token); err != nil {
		if errors.Is(err, ErrInvalidToken) {
			response.Error(c, http.StatusNotFound, "INVALID_TOKEN", "Unknown unsubscribe token")
			return
		}
		response.Error(c, http.StatusInternalServerError, "UNSUBSCRIBE_FAILED", "Failed to unsubscribe")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Email updates disabled"})
}

func (h *Handler) GetMe(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	user, err := h.service.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Could not update profile")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) UpdatePreferences(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	if err := h.service.UpdatePreferences(c.Request.Context(), userID, req); err != nil {
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Could not update preferences")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Preferences updated"})
}
