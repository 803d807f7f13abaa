package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/taskhub/internal/auth/domain"
	authService "github.com/allisson/taskhub/internal/auth/service"
	apperrors "github.com/allisson/taskhub/internal/errors"
	"github.com/allisson/taskhub/internal/httputil"
)

// AccessTokenCookie is the cookie the access token is also delivered in.
const AccessTokenCookie = "accessToken"

// AuthenticationMiddleware verifies the access token and stores its claims in the request context.
//
// The token is read from "Authorization: Bearer <token>" (case-insensitive "bearer") and, when
// the header is absent, from the accessToken cookie. Missing, malformed, expired and
// wrongly signed tokens all produce the same 401 response; the cause is only logged.
//
// Usage:
//
//	router.GET("/v1/auth/current-user", AuthenticationMiddleware(tokenIssuer, report, logger), handler)
//	// in the handler
//	claims, ok := GetClaims(c.Request.Context())
func AuthenticationMiddleware(
	tokenIssuer authService.TokenIssuer,
	report httputil.ErrorReporter,
	logger *slog.Logger,
) gin.HandlerFunc {
	if report == nil {
		report = httputil.NewErrorReporter(logger)
	}

	return func(c *gin.Context) {
		token, err := extractAccessToken(c)
		if err != nil {
			report(c, err)
			c.Abort()
			return
		}

		claims, err := tokenIssuer.VerifyToken(token, authDomain.AccessToken)
		if err != nil {
			report(c, err)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithClaims(c.Request.Context(), claims))

		if logger != nil {
			logger.Debug("authentication successful", slog.String("user_id", claims.SubjectID.String()))
		}

		c.Next()
	}
}

func extractAccessToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		cookie, err := c.Cookie(AccessTokenCookie)
		if err != nil || cookie == "" {
			return "", apperrors.Wrap(apperrors.ErrUnauthorized, "missing access token")
		}
		return cookie, nil
	}

	const bearerPrefix = "bearer "
	if len(authHeader) < len(bearerPrefix) ||
		!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return "", apperrors.Wrap(apperrors.ErrUnauthorized, "malformed authorization header")
	}

	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	if token == "" {
		return "", apperrors.Wrap(apperrors.ErrUnauthorized, "empty bearer token")
	}
	return token, nil
}
