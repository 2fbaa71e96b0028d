package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/blang/posty/model"
)

func (c *Client) Signup(ctx context.Context, req SignupRequest) (*model.User, error) {
	var resp UserResponse
	if err := c.do(ctx, "signup", http.MethodPost, "/api/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*model.User, error) {
	var resp UserResponse
	if err := c.do(ctx, "login", http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Logout ends the session and returns the server's confirmation message.
func (c *Client) Logout(ctx context.Context) (string, error) {
	var resp MessageResponse
	if err := c.do(ctx, "logout", http.MethodPost, "/api/auth/logout", struct{}{}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Me returns the user of the current session. A missing or expired session
// yields (nil, nil): not being logged in is a valid answer.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var raw json.RawMessage
	err := c.do(ctx, "me", http.MethodGet, "/api/auth/me", nil, &raw)
	if err != nil {
		if StatusCode(err) == http.StatusUnauthorized {
			return nil, nil
		}
		return nil, err
	}
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil && eb.Error != "" {
		return nil, nil
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var u model.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, &Error{Kind: KindUnknown, Op: "me", Err: err}
	}
	return &u, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req ProfileUpdate) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, "updateProfile", http.MethodPost, "/api/users/update", req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
