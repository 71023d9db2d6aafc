package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, sessionReq SessionTrackingRequest) (TokenResponse, error)

	// LoginWithGoogle signs in an existing user by the verified Google email
	// and links the Google identity on first use.
	LoginWithGoogle(ctx context.Context, email string, googleID string, sessionReq SessionTrackingRequest) (TokenResponse, error)

	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}
