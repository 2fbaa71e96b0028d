package store

import (
	"context"
	"sync"

	"github.com/blang/posty/api"
)

// FeedView triggers post fetches for a displayed feed. A fetch is dispatched
// on the first Update and whenever the query changes afterwards.
type FeedView struct {
	posts *Posts

	mu      sync.Mutex
	query   api.FeedQuery
	mounted bool
}

func NewFeedView(p *Posts) *FeedView {
	return &FeedView{posts: p}
}

// Update records q and fetches when it differs from the previous query. It
// reports whether a fetch was dispatched. Rapid successive updates are not
// deduplicated; each one fetches.
func (v *FeedView) Update(ctx context.Context, q api.FeedQuery) (bool, error) {
	v.mu.Lock()
	if v.mounted && v.query == q {
		v.mu.Unlock()
		return false, nil
	}
	v.mounted = true
	v.query = q
	v.mu.Unlock()
	return true, v.posts.Fetch(ctx, q)
}

// Refresh fetches the current query again.
func (v *FeedView) Refresh(ctx context.Context) error {
	v.mu.Lock()
	q := v.query
	v.mu.Unlock()
	return v.posts.Fetch(ctx, q)
}

// Query returns the query currently displayed.
func (v *FeedView) Query() api.FeedQuery {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query
}
