package auth

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Claims are the access token fields the services rely on.
type Claims struct {
	UserID     string
	Email      string
	EmployeeID string
	CompanyID  string
	Role       string
}

// ClaimsFromContext reads the verified access token placed on ctx by the
// jwtauth verifier. EmployeeID is empty for users without an employee profile.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, raw, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	var c Claims
	c.UserID, _ = raw["user_id"].(string)
	c.Email, _ = raw["email"].(string)
	c.EmployeeID, _ = raw["employee_id"].(string)
	c.CompanyID, _ = raw["company_id"].(string)
	c.Role, _ = raw["role"].(string)

	if c.UserID == "" {
		return Claims{}, ErrInvalidToken
	}
	if c.CompanyID == "" {
		return Claims{}, fmt.Errorf("company_id claim is missing or invalid: %w", ErrInvalidToken)
	}
	return c, nil
}

// NewContext places c on ctx the way the jwtauth verifier does. Empty fields
// are left out of the token.
func NewContext(ctx context.Context, c Claims) context.Context {
	token := jwt.New()
	for key, value := range map[string]string{
		"user_id":     c.UserID,
		"email":       c.Email,
		"employee_id": c.EmployeeID,
		"company_id":  c.CompanyID,
		"role":        c.Role,
	} {
		if value != "" {
			_ = token.Set(key, value)
		}
	}
	return jwtauth.NewContext(ctx, token, nil)
}
