package auth

import "errors"

var (
	ErrInvalidCredentials       = errors.New("invalid email or password")
	ErrInvalidToken             = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked      = errors.New("refresh token has been revoked")
	ErrAccountNotProvisioned    = errors.New("no account exists for this Google email")
	ErrGoogleAccessDeniedByUser = errors.New("google access denied by user")
	ErrOAuthDisabled            = errors.New("google sign-in is not configured")
)
