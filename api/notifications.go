package api

import (
	"context"
	"net/http"

	"github.com/blang/posty/model"
)

func (c *Client) Notifications(ctx context.Context) ([]model.Notification, error) {
	ns := []model.Notification{}
	if err := c.do(ctx, "notifications", http.MethodGet, "/api/notifications", nil, &ns); err != nil {
		return nil, err
	}
	return ns, nil
}

func (c *Client) DeleteNotifications(ctx context.Context) (string, error) {
	var resp MessageResponse
	if err := c.do(ctx, "deleteNotifications", http.MethodDelete, "/api/notifications", nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
