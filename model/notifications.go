package model

import "time"

// NotificationType tells what triggered a notification.
type NotificationType string

const (
	NotificationFollow NotificationType = "follow"
	NotificationLike   NotificationType = "like"
)

type NotificationPeer interface {
	GetFor(uid string) ([]*Notification, error)
	NewNotification(from, to string, typ NotificationType) *Notification
	SaveNew(n *Notification) error
	RemoveFor(uid string) error
}

// Notification is delivered to user To because of an action by user From.
type Notification struct {
	ID        string           `json:"_id"`
	From      string           `json:"from"`
	To        string           `json:"to"`
	Type      NotificationType `json:"type"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
