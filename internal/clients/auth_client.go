package clients

import (
	"context"
	"net/http"

	"admin-console/internal/models"
)

// AuthClient authenticates console operators against the backend
type AuthClient struct {
	api *APIClient
}

func NewAuthClient(api *APIClient) *AuthClient {
	return &AuthClient{api: api}
}

// LoginResult carries the user record and the optional backend token.
type LoginResult struct {
	User  models.User `json:"user"`
	Token string      `json:"token,omitempty"`
}

func (c *AuthClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	req := map[string]string{"email": email, "password": password}
	var result LoginResult
	if err := c.api.SendJSON(ctx, http.MethodPost, "/auth/login", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
