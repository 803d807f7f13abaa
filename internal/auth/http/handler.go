package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/taskhub/internal/auth/domain"
	"github.com/allisson/taskhub/internal/auth/http/dto"
	authUseCase "github.com/allisson/taskhub/internal/auth/usecase"
	apperrors "github.com/allisson/taskhub/internal/errors"
	"github.com/allisson/taskhub/internal/httputil"
	userDto "github.com/allisson/taskhub/internal/user/http/dto"
	customValidation "github.com/allisson/taskhub/internal/validation"
)

// AuthHandler handles the account endpoints under /v1/auth.
// Every handler returns its failure and is adapted with httputil.Wrap, so all errors reach
// the same reporter.
type AuthHandler struct {
	authUseCase authUseCase.AuthUseCase
	report      httputil.ErrorReporter
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler with required dependencies.
func NewAuthHandler(
	authUseCase authUseCase.AuthUseCase,
	report httputil.ErrorReporter,
	logger *slog.Logger,
) *AuthHandler {
	if report == nil {
		report = httputil.NewErrorReporter(logger)
	}
	return &AuthHandler{
		authUseCase: authUseCase,
		report:      report,
		logger:      logger,
	}
}

// RegisterRoutes mounts the endpoints on group. authenticated guards the endpoints that need
// a session and limited throttles the credential endpoints.
func (h *AuthHandler) RegisterRoutes(group *gin.RouterGroup, authenticated, limited gin.HandlerFunc) {
	group.POST("/register", limited,
		httputil.ValidatePayload(dto.RegisterRules, h.report), h.wrap(h.Register))
	group.POST("/login", limited,
		httputil.ValidatePayload(dto.LoginRules, h.report), h.wrap(h.Login))
	group.POST("/refresh-token", limited,
		httputil.ValidatePayload(dto.RefreshTokenRules, h.report), h.wrap(h.RefreshToken))
	group.POST("/forgot-password", limited,
		httputil.ValidatePayload(dto.ForgotPasswordRules, h.report), h.wrap(h.ForgotPassword))
	group.POST("/reset-password/:token", limited,
		httputil.ValidatePayload(dto.ResetPasswordRules, h.report), h.wrap(h.ResetPassword))
	group.GET("/verify-email/:token", h.wrap(h.VerifyEmail))

	group.POST("/logout", authenticated, h.wrap(h.Logout))
	group.POST("/resend-email-verification", authenticated, h.wrap(h.ResendEmailVerification))
	group.POST("/change-password", authenticated,
		httputil.ValidatePayload(dto.ChangePasswordRules, h.report), h.wrap(h.ChangePassword))
	group.GET("/current-user", authenticated, h.wrap(h.CurrentUser))
}

func (h *AuthHandler) wrap(fn httputil.HandlerFunc) gin.HandlerFunc {
	return httputil.Wrap(fn, h.report)
}

// Register creates an account.
// POST /v1/auth/register - Returns 201 Created with the user and a token pair.
func (h *AuthHandler) Register(c *gin.Context) error {
	req, err := httputil.Payload[dto.RegisterRequest](c)
	if err != nil {
		return err
	}

	output, err := h.authUseCase.Register(c.Request.Context(), &authDomain.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		return err
	}

	setAccessTokenCookie(c, output.Tokens.AccessToken)
	httputil.Respond(c, http.StatusCreated, dto.MapAuthOutputToResponse(output), "Account created")
	return nil
}

// Login starts a session.
// POST /v1/auth/login - Returns 200 OK with the user and a token pair.
func (h *AuthHandler) Login(c *gin.Context) error {
	req, err := httputil.Payload[dto.LoginRequest](c)
	if err != nil {
		return err
	}

	output, err := h.authUseCase.Login(c.Request.Context(), &authDomain.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	setAccessTokenCookie(c, output.Tokens.AccessToken)
	httputil.Respond(c, http.StatusOK, dto.MapAuthOutputToResponse(output), "Logged in")
	return nil
}

// Logout ends the session.
// POST /v1/auth/logout - Requires authentication.
func (h *AuthHandler) Logout(c *gin.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	if err := h.authUseCase.Logout(c.Request.Context(), claims.SubjectID); err != nil {
		return err
	}

	clearAccessTokenCookie(c)
	httputil.Respond(c, http.StatusOK, nil, "Logged out")
	return nil
}

// RefreshToken rotates the token pair.
// POST /v1/auth/refresh-token - Returns 200 OK with a new token pair.
func (h *AuthHandler) RefreshToken(c *gin.Context) error {
	req, err := httputil.Payload[dto.RefreshTokenRequest](c)
	if err != nil {
		return err
	}

	output, err := h.authUseCase.RefreshTokens(c.Request.Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	setAccessTokenCookie(c, output.Tokens.AccessToken)
	httputil.Respond(c, http.StatusOK, dto.MapAuthOutputToResponse(output), "Tokens refreshed")
	return nil
}

// VerifyEmail confirms the email address of the token's owner.
// GET /v1/auth/verify-email/:token
func (h *AuthHandler) VerifyEmail(c *gin.Context) error {
	token, err := temporaryTokenParam(c)
	if err != nil {
		return err
	}

	if err := h.authUseCase.VerifyEmail(c.Request.Context(), token); err != nil {
		return err
	}

	httputil.Respond(c, http.StatusOK, nil, "Email verified")
	return nil
}

// ResendEmailVerification sends a new verification link.
// POST /v1/auth/resend-email-verification - Requires authentication.
func (h *AuthHandler) ResendEmailVerification(c *gin.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	if err := h.authUseCase.ResendEmailVerification(c.Request.Context(), claims.SubjectID); err != nil {
		return err
	}

	httputil.Respond(c, http.StatusOK, nil, "Verification email sent")
	return nil
}

// ForgotPassword sends a reset link. The response does not reveal whether the email exists.
// POST /v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) error {
	req, err := httputil.Payload[dto.ForgotPasswordRequest](c)
	if err != nil {
		return err
	}

	if err := h.authUseCase.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		return err
	}

	httputil.Respond(c, http.StatusOK, nil, "If the email is registered, a reset link has been sent")
	return nil
}

// ResetPassword sets a new password using a reset token.
// POST /v1/auth/reset-password/:token
func (h *AuthHandler) ResetPassword(c *gin.Context) error {
	token, err := temporaryTokenParam(c)
	if err != nil {
		return err
	}

	req, err := httputil.Payload[dto.ResetPasswordRequest](c)
	if err != nil {
		return err
	}

	err = h.authUseCase.ResetPassword(c.Request.Context(), &authDomain.ResetPasswordInput{
		Token:       token,
		NewPassword: req.Password,
	})
	if err != nil {
		return err
	}

	httputil.Respond(c, http.StatusOK, nil, "Password reset")
	return nil
}

// ChangePassword replaces the password of the authenticated user.
// POST /v1/auth/change-password - Requires authentication.
func (h *AuthHandler) ChangePassword(c *gin.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	req, err := httputil.Payload[dto.ChangePasswordRequest](c)
	if err != nil {
		return err
	}

	err = h.authUseCase.ChangePassword(c.Request.Context(), claims.SubjectID, &authDomain.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return err
	}

	clearAccessTokenCookie(c)
	httputil.Respond(c, http.StatusOK, nil, "Password changed")
	return nil
}

// CurrentUser returns the authenticated user.
// GET /v1/auth/current-user - Requires authentication.
func (h *AuthHandler) CurrentUser(c *gin.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	user, err := h.authUseCase.CurrentUser(c.Request.Context(), claims.SubjectID)
	if err != nil {
		return err
	}

	httputil.Respond(c, http.StatusOK, userDto.ToUserResponse(user), "")
	return nil
}

func requireClaims(c *gin.Context) (*authDomain.Claims, error) {
	claims, ok := GetClaims(c.Request.Context())
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "no authenticated user in context")
	}
	return claims, nil
}

// temporaryTokenParam reads the :token path parameter. A value that cannot be a temporary
// token is rejected like an unknown one.
func temporaryTokenParam(c *gin.Context) (string, error) {
	token := c.Param("token")
	if err := customValidation.HexToken(authDomain.TemporaryTokenBytes).Validate(token); err != nil || token == "" {
		return "", authDomain.ErrInvalidTemporaryToken
	}
	return token, nil
}

func setAccessTokenCookie(c *gin.Context, token *authDomain.IssuedToken) {
	maxAge := int(time.Until(token.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, token.Token, maxAge, "/", "", c.Request.TLS != nil, true)
}

func clearAccessTokenCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", c.Request.TLS != nil, true)
}
