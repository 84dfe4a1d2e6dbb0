package hms

import (
	"context"
	"net/http"
)

// AuthService covers credential exchange.
type AuthService struct{ c *Client }

// Login exchanges email and password for a token pair and identity.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return call[*AuthResult](ctx, s.c, http.MethodPost, "/auth/login", nil, map[string]string{
		"email":    email,
		"password": password,
	})
}

// Refresh exchanges a refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	return call[*AuthResult](ctx, s.c, http.MethodPost, "/auth/refresh", nil, map[string]string{
		"refreshToken": refreshToken,
	})
}
