package services

import (
	"context"
	"net/http"

	"github.com/justsurfingit/talent-portal/internal/dtos"
	"github.com/justsurfingit/talent-portal/internal/models"
)

type AuthService struct {
	Client *Client
}

func NewAuthService(c *Client) *AuthService {
	return &AuthService{Client: c}
}

func (s *AuthService) Register(ctx context.Context, req dtos.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := s.Client.do(ctx, "auth.register", http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *AuthService) Login(ctx context.Context, req dtos.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := s.Client.do(ctx, "auth.login", http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me fetches the profile the current access token belongs to.
func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.Client.do(ctx, "auth.me", http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
