// Package memory keeps the model in process memory. It backs the development
// server and the end-to-end tests.
package memory

import (
	"sync"

	"github.com/blang/posty/model"
)

type MemoryModel struct {
	mu               sync.RWMutex
	users            map[string]*model.User
	posts            map[string]*model.Post
	notifications    map[string]*model.Notification
	userPeer         *MemoryUserPeer
	postPeer         *MemoryPostPeer
	notificationPeer *MemoryNotificationPeer
}

func NewModel() *MemoryModel {
	m := &MemoryModel{
		users:         make(map[string]*model.User),
		posts:         make(map[string]*model.Post),
		notifications: make(map[string]*model.Notification),
	}
	m.userPeer = &MemoryUserPeer{model: m}
	m.postPeer = &MemoryPostPeer{model: m}
	m.notificationPeer = &MemoryNotificationPeer{model: m}
	return m
}

func (m *MemoryModel) UserPeer() model.UserPeer {
	return m.userPeer
}

func (m *MemoryModel) PostPeer() model.PostPeer {
	return m.postPeer
}

func (m *MemoryModel) NotificationPeer() model.NotificationPeer {
	return m.notificationPeer
}
