package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/blang/posty/model"
)

func (c *Client) SuggestedUsers(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	if err := c.do(ctx, "suggestedUsers", http.MethodGet, "/api/users/suggested", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) UserProfile(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, "userProfile", http.MethodGet, "/api/users/profile/"+url.PathEscape(username), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Follow toggles following the user with the given id.
func (c *Client) Follow(ctx context.Context, userID string) (string, error) {
	var resp MessageResponse
	if err := c.do(ctx, "follow", http.MethodPost, "/api/users/follow/"+url.PathEscape(userID), struct{}{}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
