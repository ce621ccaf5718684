package api

import (
	"context"
	"net/http"
	"net/url"
)

// UsersService talks to /api/users.
type UsersService struct {
	client *Client
}

// User is a directory entry (candidate chat partner) or the logged-in user.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email,omitempty"`
	Role  string `json:"userType,omitempty"`
}

// LoginResult carries the authenticated user plus the session token the CLI
// persists for later runs.
type LoginResult struct {
	User  User
	Token string
}

// Login authenticates and installs the returned session token on the client.
func (s *UsersService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	req := map[string]string{"email": email, "password": password}
	var res struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		User    User   `json:"user"`
		Token   string `json:"token"`
	}
	if err := s.client.do(ctx, http.MethodPost, "/api/users/login", req, &res); err != nil {
		return nil, err
	}
	if err := checkEnvelope(res.Success, res.Message); err != nil {
		return nil, err
	}

	if res.Token != "" {
		s.client.SetSessionToken(res.Token)
	}
	return &LoginResult{User: res.User, Token: res.Token}, nil
}

// Register creates an account and logs it in, mirroring the web flow.
func (s *UsersService) Register(ctx context.Context, name, email, password, phone, role string) (*LoginResult, error) {
	req := map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
		"phone":    phone,
		"userType": role,
	}
	var res struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		User    User   `json:"user"`
		Token   string `json:"token"`
	}
	if err := s.client.do(ctx, http.MethodPost, "/api/users/register", req, &res); err != nil {
		return nil, err
	}
	if err := checkEnvelope(res.Success, res.Message); err != nil {
		return nil, err
	}

	if res.Token != "" {
		s.client.SetSessionToken(res.Token)
	}
	return &LoginResult{User: res.User, Token: res.Token}, nil
}

// Logout invalidates the server-side session. The caller is responsible for
// discarding the stored token.
func (s *UsersService) Logout(ctx context.Context) error {
	// The server clears the session regardless of body; a failure here only
	// means the token dies at its natural expiry.
	return s.client.do(ctx, http.MethodPost, "/api/users/logout", nil, nil)
}

// ListByRole returns all users of the given role ("cliente" or "barbeiro").
// The chat new-conversation flow uses it with the opposite of the current
// user's role.
func (s *UsersService) ListByRole(ctx context.Context, role string) ([]User, error) {
	var res struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Users   []User `json:"users"`
	}
	if err := s.client.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(role), nil, &res); err != nil {
		return nil, err
	}
	if err := checkEnvelope(res.Success, res.Message); err != nil {
		return nil, err
	}
	return res.Users, nil
}
