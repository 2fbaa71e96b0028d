package memory

import (
	"errors"
	"sort"
	"time"

	"github.com/blang/posty/model"
	"github.com/google/uuid"
)

type MemoryNotificationPeer struct {
	model *MemoryModel
}

// GetFor returns the notifications addressed to uid, newest first.
func (p *MemoryNotificationPeer) GetFor(uid string) ([]*model.Notification, error) {
	p.model.mu.RLock()
	ns := make([]*model.Notification, 0)
	for _, n := range p.model.notifications {
		if n.To == uid {
			c := *n
			ns = append(ns, &c)
		}
	}
	p.model.mu.RUnlock()
	sort.Slice(ns, func(i, j int) bool { return ns[i].CreatedAt.After(ns[j].CreatedAt) })
	return ns, nil
}

func (p *MemoryNotificationPeer) NewNotification(from, to string, typ model.NotificationType) *model.Notification {
	return &model.Notification{
		ID:        uuid.NewString(),
		From:      from,
		To:        to,
		Type:      typ,
		CreatedAt: time.Now(),
	}
}

func (p *MemoryNotificationPeer) SaveNew(n *model.Notification) error {
	if n == nil {
		return errors.New("Notification is nil")
	}
	p.model.mu.Lock()
	defer p.model.mu.Unlock()
	c := *n
	p.model.notifications[n.ID] = &c
	return nil
}

func (p *MemoryNotificationPeer) RemoveFor(uid string) error {
	p.model.mu.Lock()
	defer p.model.mu.Unlock()
	for id, n := range p.model.notifications {
		if n.To == uid {
			delete(p.model.notifications, id)
		}
	}
	return nil
}
