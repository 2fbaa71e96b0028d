package memory

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/blang/posty/model"
	"github.com/google/uuid"
)

type MemoryUserPeer struct {
	model *MemoryModel
}

func (p *MemoryUserPeer) GetByID(id string) (*model.User, error) {
	p.model.mu.RLock()
	defer p.model.mu.RUnlock()
	u, ok := p.model.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	c := u.Clone()
	return &c, nil
}

func (p *MemoryUserPeer) GetByUsername(username string) (*model.User, error) {
	p.model.mu.RLock()
	defer p.model.mu.RUnlock()
	for _, u := range p.model.users {
		if u.Username == username {
			c := u.Clone()
			return &c, nil
		}
	}
	return nil, model.ErrNotFound
}

// GetUsers returns all users ordered by creation time, oldest first.
func (p *MemoryUserPeer) GetUsers() ([]*model.User, error) {
	p.model.mu.RLock()
	users := make([]*model.User, 0, len(p.model.users))
	for _, u := range p.model.users {
		c := u.Clone()
		users = append(users, &c)
	}
	p.model.mu.RUnlock()
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (p *MemoryUserPeer) UpdateLastLogin(id string) error {
	p.model.mu.Lock()
	defer p.model.mu.Unlock()
	u, ok := p.model.users[id]
	if !ok {
		return model.ErrNotFound
	}
	u.LastLogin = time.Now()
	return nil
}

func (p *MemoryUserPeer) NewUser() *model.User {
	return &model.User{
		ID:         uuid.NewString(),
		Followers:  []string{},
		Following:  []string{},
		LikedPosts: []string{},
		CreatedAt:  time.Now(),
	}
}

func (p *MemoryUserPeer) SaveNew(u *model.User) error {
	if u == nil {
		return errors.New("User is nil")
	}
	p.model.mu.Lock()
	defer p.model.mu.Unlock()
	for _, existing := range p.model.users {
		if existing.ID == u.ID || existing.Username == u.Username {
			return fmt.Errorf("User %q already exists", u.Username)
		}
	}
	c := u.Clone()
	p.model.users[u.ID] = &c
	return nil
}

// Save replaces the whole stored record with u. Like posts, concurrent
// read-modify-save cycles are last-write-wins.
func (p *MemoryUserPeer) Save(u *model.User) error {
	if u == nil {
		return errors.New("User is nil")
	}
	p.model.mu.Lock()
	defer p.model.mu.Unlock()
	if _, ok := p.model.users[u.ID]; !ok {
		return model.ErrNotFound
	}
	c := u.Clone()
	p.model.users[u.ID] = &c
	return nil
}
