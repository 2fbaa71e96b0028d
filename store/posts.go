package store

import (
	"context"
	"errors"

	"github.com/blang/posty/api"
	"github.com/blang/posty/model"
	"github.com/sirupsen/logrus"
)

// PostsState is the posts slice of the state tree.
type PostsState struct {
	Posts []model.Post
	// LikingIDs holds the ids of posts with a like outstanding, in dispatch
	// order.
	LikingIDs []string

	// Err and Failed describe the last failed mutation (create, delete,
	// like, comment). Fetch failures are kept apart in FetchErr.
	Err      error
	Failed   bool
	FetchErr error

	Fetch   Lifecycle
	Create  Lifecycle
	Delete  Lifecycle
	Like    Lifecycle
	Comment Lifecycle

	liking   map[string]int
	fetchSeq uint64
}

func (s PostsState) Fetching() bool   { return s.Fetch.Pending() }
func (s PostsState) Creating() bool   { return s.Create.Pending() }
func (s PostsState) Deleting() bool   { return s.Delete.Pending() }
func (s PostsState) Liking() bool     { return s.Like.Pending() }
func (s PostsState) Commenting() bool { return s.Comment.Pending() }

// IsLiking reports whether a like on post id is outstanding.
func (s PostsState) IsLiking(id string) bool {
	return s.liking[id] > 0
}

// Find returns the post with the given id.
func (s PostsState) Find(id string) (model.Post, bool) {
	if i := s.index(id); i >= 0 {
		return s.Posts[i], true
	}
	return model.Post{}, false
}

func (s PostsState) index(id string) int {
	for i := range s.Posts {
		if s.Posts[i].ID == id {
			return i
		}
	}
	return -1
}

func (s PostsState) clone() PostsState {
	s.Posts = clonePosts(s.Posts)
	if s.LikingIDs != nil {
		s.LikingIDs = append(make([]string, 0, len(s.LikingIDs)), s.LikingIDs...)
	}
	liking := make(map[string]int, len(s.liking))
	for k, v := range s.liking {
		liking[k] = v
	}
	s.liking = liking
	return s
}

// fetchPending records a new fetch and returns its sequence number.
func (s *PostsState) fetchPending() uint64 {
	s.Fetch.start()
	s.FetchErr = nil
	s.fetchSeq++
	return s.fetchSeq
}

// fetchFulfilled replaces the list unless latestWins is set and a newer
// fetch was dispatched. It reports whether the result was committed.
func (s *PostsState) fetchFulfilled(seq uint64, posts []model.Post, latestWins bool) bool {
	if latestWins && seq != s.fetchSeq {
		s.Fetch.drop()
		return false
	}
	s.Fetch.fulfill()
	s.Posts = clonePosts(posts)
	if s.Posts == nil {
		s.Posts = []model.Post{}
	}
	return true
}

func (s *PostsState) fetchRejected(seq uint64, err error, latestWins bool) bool {
	if latestWins && seq != s.fetchSeq {
		s.Fetch.drop()
		return false
	}
	s.Fetch.reject(err)
	s.FetchErr = err
	return true
}

func (s *PostsState) mutationPending(l *Lifecycle) {
	l.start()
	s.Err = nil
	s.Failed = false
}

func (s *PostsState) mutationRejected(l *Lifecycle, err error) {
	l.reject(err)
	s.Err = err
	s.Failed = true
}

// createFulfilled prepends the server's post; the list is not refetched.
func (s *PostsState) createFulfilled(p *model.Post) {
	s.Create.fulfill()
	s.Failed = false
	s.Posts = append([]model.Post{p.Clone()}, s.Posts...)
}

// deleteFulfilled drops the post with the given id. Unknown ids are a no-op.
func (s *PostsState) deleteFulfilled(id string) {
	s.Delete.fulfill()
	s.Failed = false
	kept := make([]model.Post, 0, len(s.Posts))
	for _, p := range s.Posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.Posts = kept
}

func (s *PostsState) likePending(id string) {
	s.mutationPending(&s.Like)
	if s.liking == nil {
		s.liking = make(map[string]int)
	}
	if s.liking[id] == 0 {
		s.LikingIDs = append(s.LikingIDs, id)
	}
	s.liking[id]++
}

func (s *PostsState) likeSettled(id string) {
	if s.liking[id] == 0 {
		return
	}
	s.liking[id]--
	if s.liking[id] > 0 {
		return
	}
	delete(s.liking, id)
	s.LikingIDs = model.RemoveID(s.LikingIDs, id)
}

// likeFulfilled replaces only the likes of the affected post.
func (s *PostsState) likeFulfilled(id string, likes []string) {
	s.Like.fulfill()
	s.likeSettled(id)
	if i := s.index(id); i >= 0 {
		s.Posts[i].Likes = append([]string{}, likes...)
	}
}

func (s *PostsState) likeRejected(id string, err error) {
	s.mutationRejected(&s.Like, err)
	s.likeSettled(id)
}

// commentFulfilled replaces the whole post with the server's copy.
func (s *PostsState) commentFulfilled(p *model.Post) {
	s.Comment.fulfill()
	s.Failed = false
	if i := s.index(p.ID); i >= 0 {
		s.Posts[i] = p.Clone()
	}
}

// Posts owns the post list and its five operations.
type Posts struct {
	store *Store
	api   PostsAPI
	log   *logrus.Entry
}

// Fetch replaces the list with the feed selected by q. When a newer fetch
// was dispatched meanwhile and latest-wins is enabled, the result is dropped
// and ErrSuperseded returned.
func (p *Posts) Fetch(ctx context.Context, q api.FeedQuery) error {
	var seq uint64
	latestWins := p.store.latestFetchWins
	_, err := runCommit(ctx, p.store, "posts/fetch",
		func(st *State) { seq = st.Posts.fetchPending() },
		func(ctx context.Context) ([]model.Post, error) { return p.api.FetchPosts(ctx, q) },
		func(st *State, posts []model.Post) bool { return st.Posts.fetchFulfilled(seq, posts, latestWins) },
		func(st *State, err error) bool { return st.Posts.fetchRejected(seq, err, latestWins) },
	)
	if errors.Is(err, ErrSuperseded) {
		p.log.WithFields(logrus.Fields{"feed": q.Feed, "seq": seq}).Debug("dropped stale fetch result")
	}
	return err
}

// Create stores a new post and prepends the server's copy to the list.
func (p *Posts) Create(ctx context.Context, np api.NewPost) (*model.Post, error) {
	post, err := run(ctx, p.store, "posts/create",
		func(st *State) { st.Posts.mutationPending(&st.Posts.Create) },
		func(ctx context.Context) (*model.Post, error) { return p.api.CreatePost(ctx, np) },
		func(st *State, post *model.Post) { st.Posts.createFulfilled(post) },
		func(st *State, err error) { st.Posts.mutationRejected(&st.Posts.Create, err) },
	)
	if err != nil {
		p.store.notifier.Error(api.Message(err, "Failed to create post"))
		return nil, err
	}
	p.store.notifier.Success("Post created successfully")
	return post, nil
}

func (p *Posts) Delete(ctx context.Context, id string) error {
	_, err := run(ctx, p.store, "posts/delete",
		func(st *State) { st.Posts.mutationPending(&st.Posts.Delete) },
		func(ctx context.Context) (string, error) { return p.api.DeletePost(ctx, id) },
		func(st *State, deleted string) { st.Posts.deleteFulfilled(deleted) },
		func(st *State, err error) { st.Posts.mutationRejected(&st.Posts.Delete, err) },
	)
	if err != nil {
		p.store.notifier.Error(api.ServerMessage(err, "Failed to delete post"))
		return err
	}
	p.store.notifier.Success("Post deleted successfully")
	return nil
}

// Like toggles the current user's like on post id. The id is in LikingIDs
// until the call settles; likes on other posts are unaffected.
func (p *Posts) Like(ctx context.Context, id string) error {
	_, err := run(ctx, p.store, "posts/like",
		func(st *State) { st.Posts.likePending(id) },
		func(ctx context.Context) ([]string, error) { return p.api.LikePost(ctx, id) },
		func(st *State, likes []string) { st.Posts.likeFulfilled(id, likes) },
		func(st *State, err error) { st.Posts.likeRejected(id, err) },
	)
	if err != nil {
		p.store.notifier.Error(api.Message(err, "Failed to like post"))
	}
	return err
}

// Comment adds a comment to post id and swaps in the server's updated post.
func (p *Posts) Comment(ctx context.Context, id, text string) error {
	_, err := run(ctx, p.store, "posts/comment",
		func(st *State) { st.Posts.mutationPending(&st.Posts.Comment) },
		func(ctx context.Context) (*model.Post, error) { return p.api.CommentPost(ctx, id, text) },
		func(st *State, post *model.Post) { st.Posts.commentFulfilled(post) },
		func(st *State, err error) { st.Posts.mutationRejected(&st.Posts.Comment, err) },
	)
	if err != nil {
		p.store.notifier.Error(api.Message(err, "Failed to comment"))
		return err
	}
	p.store.notifier.Success("Comment posted successfully")
	return nil
}

func clonePosts(posts []model.Post) []model.Post {
	if posts == nil {
		return nil
	}
	out := make([]model.Post, len(posts))
	for i := range posts {
		out[i] = posts[i].Clone()
	}
	return out
}
