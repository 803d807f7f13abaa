package dto

import (
	"time"

	authDomain "github.com/allisson/taskhub/internal/auth/domain"
	userDto "github.com/allisson/taskhub/internal/user/http/dto"
)

// AuthResponse is returned by register, login and refresh.
// SECURITY: the tokens are bearer credentials and must not be logged.
type AuthResponse struct {
	User                  userDto.UserResponse `json:"user"`
	AccessToken           string               `json:"access_token"`            //nolint:gosec // issued credential
	AccessTokenExpiresAt  time.Time            `json:"access_token_expires_at"`
	RefreshToken          string               `json:"refresh_token"`           //nolint:gosec // issued credential
	RefreshTokenExpiresAt time.Time            `json:"refresh_token_expires_at"`
}

// MapAuthOutputToResponse converts a use case AuthOutput to an API response.
func MapAuthOutputToResponse(output *authDomain.AuthOutput) AuthResponse {
	return AuthResponse{
		User:                  userDto.ToUserResponse(output.User),
		AccessToken:           output.Tokens.AccessToken.Token,
		AccessTokenExpiresAt:  output.Tokens.AccessToken.ExpiresAt,
		RefreshToken:          output.Tokens.RefreshToken.Token,
		RefreshTokenExpiresAt: output.Tokens.RefreshToken.ExpiresAt,
	}
}
