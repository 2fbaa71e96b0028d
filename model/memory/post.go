package memory

import (
	"errors"
	"sort"
	"time"

	"github.com/blang/posty/model"
	"github.com/google/uuid"
)

type MemoryPostPeer struct {
	model *MemoryModel
}

func (pp *MemoryPostPeer) GetByID(id string) (*model.Post, error) {
	pp.model.mu.RLock()
	defer pp.model.mu.RUnlock()
	p, ok := pp.model.posts[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	c := p.Clone()
	return &c, nil
}

// GetPosts returns all posts, newest first.
func (pp *MemoryPostPeer) GetPosts() ([]*model.Post, error) {
	pp.model.mu.RLock()
	posts := make([]*model.Post, 0, len(pp.model.posts))
	for _, p := range pp.model.posts {
		c := p.Clone()
		posts = append(posts, &c)
	}
	pp.model.mu.RUnlock()
	sort.Sort(model.ByCreatedAtDESC(posts))
	return posts, nil
}

func (pp *MemoryPostPeer) NewPost(uid string) *model.Post {
	return &model.Post{
		ID:        uuid.NewString(),
		User:      uid,
		Likes:     []string{},
		Comments:  []model.Comment{},
		CreatedAt: time.Now(),
	}
}

func (pp *MemoryPostPeer) SaveNew(p *model.Post) error {
	if p == nil {
		return errors.New("Post is nil")
	}
	pp.model.mu.Lock()
	defer pp.model.mu.Unlock()
	if _, ok := pp.model.posts[p.ID]; ok {
		return errors.New("Post already exists")
	}
	c := p.Clone()
	pp.model.posts[p.ID] = &c
	return nil
}

// Save replaces the whole stored record with p. Concurrent read-modify-save
// cycles on the same post are last-write-wins.
func (pp *MemoryPostPeer) Save(p *model.Post) error {
	if p == nil {
		return errors.New("Post is nil")
	}
	pp.model.mu.Lock()
	defer pp.model.mu.Unlock()
	if _, ok := pp.model.posts[p.ID]; !ok {
		return model.ErrNotFound
	}
	c := p.Clone()
	pp.model.posts[p.ID] = &c
	return nil
}

func (pp *MemoryPostPeer) Remove(p *model.Post) error {
	pp.model.mu.Lock()
	defer pp.model.mu.Unlock()
	if _, ok := pp.model.posts[p.ID]; !ok {
		return model.ErrNotFound
	}
	delete(pp.model.posts, p.ID)
	return nil
}
