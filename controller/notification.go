package controller

import (
	"context"
	"net/http"

	"github.com/blang/posty/middleware"
	"github.com/blang/posty/model"
	log "github.com/sirupsen/logrus"
)

type NotificationDataProvider interface {
	GetFor(uid string) ([]*model.Notification, error)
	RemoveFor(uid string) error
}

type NotificationController struct {
	Model NotificationDataProvider
}

// Notifications lists the current user's notifications, newest first.
func (c *NotificationController) Notifications(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserID(ctx)
	if !ok {
		log.Warnf("Invalid user context")
		jsonError(w, r, cErrServer, "")
		return
	}
	ns, err := c.Model.GetFor(uid)
	if err != nil {
		log.Warnf("Could not get notifications: %s", err)
		jsonError(w, r, cErrServer, "")
		return
	}
	jsonResponse(w, r, http.StatusOK, nonNil(ns))
}

func (c *NotificationController) DeleteAll(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserID(ctx)
	if !ok {
		log.Warnf("Invalid user context")
		jsonError(w, r, cErrServer, "")
		return
	}
	if err := c.Model.RemoveFor(uid); err != nil {
		log.Warnf("Could not remove notifications: %s", err)
		jsonError(w, r, cErrServer, "")
		return
	}
	jsonResponse(w, r, http.StatusOK, messageResponse{Message: "Notifications deleted successfully"})
}
