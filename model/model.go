package model

import "errors"

// ErrNotFound is returned by peers when the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Model defines a basic model consisting of the entities `post`, `user` and `notification`.
type Model interface {
	PostPeer() PostPeer
	UserPeer() UserPeer
	NotificationPeer() NotificationPeer
}
