package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
	testPassword   = "password123"
)

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type memUsers struct {
	byEmail map[string]user.User
	links   int
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (user.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) GetByID(ctx context.Context, id string) (user.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (m *memUsers) LinkGoogleAccount(ctx context.Context, googleID string, email string) (user.User, error) {
	u := m.byEmail[email]
	provider := "google"
	u.OAuthProvider = &provider
	u.OAuthProviderID = &googleID
	u.EmployeeID = nil
	m.byEmail[email] = u
	m.links++
	return u, nil
}

type storedToken struct {
	userID  string
	revoked bool
	session auth.SessionTrackingRequest
}

type memTokens struct {
	tokens map[string]*storedToken
}

func (m *memTokens) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error {
	m.tokens[token] = &storedToken{userID: userID, session: sessionReq}
	return nil
}

func (m *memTokens) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	st, ok := m.tokens[token]
	if !ok {
		return "", false, errors.New("refresh token not found")
	}
	return st.userID, st.revoked, nil
}

func (m *memTokens) RevokeRefreshToken(ctx context.Context, token string) error {
	m.tokens[token].revoked = true
	return nil
}

func hash(t *testing.T, password string) *string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	s := string(h)
	return &s
}

type authFixture struct {
	svc    *AuthServiceImpl
	users  *memUsers
	tokens *memTokens
	jwt    *jwt.JWTService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	employeeID := "emp-1"
	users := &memUsers{byEmail: map[string]user.User{
		"asha@example.com": {
			ID: "user-1", CompanyID: "company-1", Email: "asha@example.com", PasswordHash: hash(t, testPassword),
			Role: user.RoleEmployee, IsActive: true, EmployeeID: &employeeID,
		},
		"left@example.com": {
			ID: "user-2", CompanyID: "company-1", Email: "left@example.com", PasswordHash: hash(t, testPassword),
			Role: user.RoleEmployee, IsActive: false,
		},
		"owner@example.com": {
			ID: "user-3", CompanyID: "company-1", Email: "owner@example.com", Role: user.RoleOwner, IsActive: true,
		},
	}}
	tokens := &memTokens{tokens: map[string]*storedToken{}}
	jwtService, err := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp, false)
	require.NoError(t, err)

	svc := NewAuthService(passthroughTx{}, users, jwtService, tokens).(*AuthServiceImpl)
	return &authFixture{svc: svc, users: users, tokens: tokens, jwt: jwtService}
}

var sessionReq = auth.SessionTrackingRequest{IPAddress: "127.0.0.1", UserAgent: "Mozilla/5.0"}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(t)

	response, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: "Asha@Example.com", Password: testPassword}, sessionReq)
	require.NoError(t, err)

	assert.NotEmpty(t, response.AccessToken)
	assert.NotEmpty(t, response.RefreshToken)
	assert.Greater(t, response.AccessTokenExpiresIn, int64(0))
	assert.Greater(t, response.RefreshTokenExpiresIn, int64(0))

	stored, ok := f.tokens.tokens[response.RefreshToken]
	require.True(t, ok)
	assert.Equal(t, "user-1", stored.userID)
	assert.Equal(t, "127.0.0.1", stored.session.IPAddress)

	token, err := f.jwt.JWTAuth().Decode(response.AccessToken)
	require.NoError(t, err)
	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "emp-1", claims["employee_id"])
	assert.Equal(t, "company-1", claims["company_id"])
	assert.Equal(t, "employee", claims["role"])
}

func TestAuthService_Login_Failures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, auth.LoginRequest{Email: "asha@example.com", Password: "wrong-password"}, sessionReq)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "nobody@example.com", Password: testPassword}, sessionReq)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "owner@example.com", Password: testPassword}, sessionReq)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials, "google-only account has no password")

	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "left@example.com", Password: testPassword}, sessionReq)
	assert.ErrorIs(t, err, user.ErrUserInactive)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "not-an-email", Password: "short"}, sessionReq)
	assert.Error(t, err)
	assert.Empty(t, f.tokens.tokens)
}

func TestAuthService_LoginWithGoogle(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	response, err := f.svc.LoginWithGoogle(ctx, "asha@example.com", "google-123", sessionReq)
	require.NoError(t, err)
	assert.NotEmpty(t, response.AccessToken)
	assert.Equal(t, 1, f.users.links)

	token, err := f.jwt.JWTAuth().Decode(response.AccessToken)
	require.NoError(t, err)
	employeeID, ok := token.Get("employee_id")
	require.True(t, ok)
	assert.Equal(t, "emp-1", employeeID)

	_, err = f.svc.LoginWithGoogle(ctx, "asha@example.com", "google-123", sessionReq)
	require.NoError(t, err)
	assert.Equal(t, 1, f.users.links, "an existing link is reused")

	_, err = f.svc.LoginWithGoogle(ctx, "stranger@example.com", "google-999", sessionReq)
	assert.ErrorIs(t, err, auth.ErrAccountNotProvisioned)
}

func TestAuthService_RefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	login, err := f.svc.Login(ctx, auth.LoginRequest{Email: "asha@example.com", Password: testPassword}, sessionReq)
	require.NoError(t, err)

	refreshed, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken, "an access token cannot refresh")

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, f.svc.Logout(ctx, login.RefreshToken))
	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	login, err := f.svc.Login(ctx, auth.LoginRequest{Email: "asha@example.com", Password: testPassword}, sessionReq)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, login.RefreshToken))
	assert.True(t, f.tokens.tokens[login.RefreshToken].revoked)

	assert.NoError(t, f.svc.Logout(ctx, login.RefreshToken), "second logout is a no-op")
	assert.Error(t, f.svc.Logout(ctx, "unknown-token"))
}
