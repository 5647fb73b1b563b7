package remote

import (
	"context"
	"net/http"

	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/dto"
)

// Login exchanges credentials for a bearer token and stores it for all
// subsequent requests.
func (c *Client) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/users/login", req, &out); err != nil {
		return nil, err
	}
	if out.Token != "" {
		c.tokens.Set(out.Token)
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/users/register", req, &out); err != nil {
		return nil, err
	}
	if out.Token != "" {
		c.tokens.Set(out.Token)
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context) (*dto.ProfileResponse, error) {
	var out dto.ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/api/users/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	var out dto.ProfileResponse
	if err := c.do(ctx, http.MethodPut, "/api/users/profile", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
