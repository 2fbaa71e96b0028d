package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/blang/posty/api"
	"github.com/blang/posty/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPosts(s *Store, posts ...model.Post) {
	s.update(func(st *State) { st.Posts.Posts = posts })
}

func postIDs(posts []model.Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func TestFetchReplacesList(t *testing.T) {
	assert := assert.New(t)
	payload := []model.Post{{ID: "p2", Text: "two"}, {ID: "p3", Text: "three"}}
	var got api.FeedQuery
	s, _ := newTestStore(&mockAPI{
		fetchPostsFn: func(ctx context.Context, q api.FeedQuery) ([]model.Post, error) {
			got = q
			return payload, nil
		},
	})
	seedPosts(s, model.Post{ID: "p1"})

	q := api.FeedQuery{Feed: api.FeedPosts, Username: "alice"}
	require.NoError(t, s.Posts.Fetch(context.Background(), q))

	st := s.State().Posts
	assert.Equal(q, got)
	assert.False(st.Fetching())
	assert.Equal(PhaseFulfilled, st.Fetch.Phase)
	if diff := cmp.Diff(payload, st.Posts); diff != "" {
		t.Errorf("posts mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchRejectedKeepsList(t *testing.T) {
	assert := assert.New(t)
	boom := serverErr("feed unavailable")
	s, n := newTestStore(&mockAPI{
		fetchPostsFn: func(ctx context.Context, q api.FeedQuery) ([]model.Post, error) {
			return nil, boom
		},
	})
	before := []model.Post{{ID: "p1", Likes: []string{"u1"}}}
	seedPosts(s, before...)

	err := s.Posts.Fetch(context.Background(), api.FeedQuery{})
	assert.Equal(boom, err)

	st := s.State().Posts
	assert.False(st.Fetching())
	assert.Equal(boom, st.FetchErr)
	assert.Equal(PhaseRejected, st.Fetch.Phase)
	assert.Equal(before, st.Posts)
	assert.Empty(n.Errors(), "fetch failures are silent")
}

func TestFetchPendingFlag(t *testing.T) {
	g := newGate()
	s, _ := newTestStore(&mockAPI{
		fetchPostsFn: func(ctx context.Context, q api.FeedQuery) ([]model.Post, error) {
			g.wait()
			return []model.Post{}, nil
		},
	})
	done := make(chan error)
	go func() { done <- s.Posts.Fetch(context.Background(), api.FeedQuery{}) }()
	<-g.entered
	assert.True(t, s.State().Posts.Fetching())
	close(g.release)
	require.NoError(t, <-done)
	assert.False(t, s.State().Posts.Fetching())
}

func TestCreatePrependsServerPost(t *testing.T) {
	assert := assert.New(t)
	created := &model.Post{ID: "new", Text: "hello", Likes: []string{}}
	s, n := newTestStore(&mockAPI{
		createPostFn: func(ctx context.Context, p api.NewPost) (*model.Post, error) {
			assert.Equal("hello", p.Text)
			return created, nil
		},
		fetchPostsFn: func(ctx context.Context, q api.FeedQuery) ([]model.Post, error) {
			t.Fatal("create must not refetch")
			return nil, nil
		},
	})
	seedPosts(s, model.Post{ID: "a"}, model.Post{ID: "b"})

	p, err := s.Posts.Create(context.Background(), api.NewPost{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(created, p)

	st := s.State().Posts
	assert.Len(st.Posts, 3)
	assert.Equal(*created, st.Posts[0])
	assert.Equal([]string{"new", "a", "b"}, postIDs(st.Posts))
	assert.False(st.Creating())
	assert.Equal([]string{"Post created successfully"}, n.Successes())
}

func TestCreateRejected(t *testing.T) {
	assert := assert.New(t)
	s, n := newTestStore(&mockAPI{
		createPostFn: func(ctx context.Context, p api.NewPost) (*model.Post, error) {
			return nil, serverErr("Text or image is required")
		},
	})
	seedPosts(s, model.Post{ID: "a"})
	_, err := s.Posts.Create(context.Background(), api.NewPost{})
	assert.Error(err)

	st := s.State().Posts
	assert.Len(st.Posts, 1)
	assert.False(st.Creating(), "failure clears the pending flag")
	assert.True(st.Failed)
	assert.Equal([]string{"Text or image is required"}, n.Errors())
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	assert := assert.New(t)
	s, n := newTestStore(&mockAPI{
		deletePostFn: func(ctx context.Context, id string) (string, error) { return id, nil },
	})
	seedPosts(s, model.Post{ID: "a"}, model.Post{ID: "x"}, model.Post{ID: "b"})

	require.NoError(t, s.Posts.Delete(context.Background(), "x"))
	st := s.State().Posts
	assert.Equal([]string{"a", "b"}, postIDs(st.Posts))
	assert.False(st.Deleting())
	assert.Equal([]string{"Post deleted successfully"}, n.Successes())
}

func TestDeleteUnknownIDIsNoop(t *testing.T) {
	s, _ := newTestStore(&mockAPI{
		deletePostFn: func(ctx context.Context, id string) (string, error) { return id, nil },
	})
	seedPosts(s, model.Post{ID: "a"}, model.Post{ID: "b"})
	require.NoError(t, s.Posts.Delete(context.Background(), "missing"))
	assert.Equal(t, []string{"a", "b"}, postIDs(s.State().Posts.Posts))
}

func TestDeleteRejectedFallbackMessage(t *testing.T) {
	s, n := newTestStore(&mockAPI{
		deletePostFn: func(ctx context.Context, id string) (string, error) {
			return "", &api.Error{Kind: api.KindTransport, Op: "deletePost", Err: errors.New("connection refused")}
		},
	})
	seedPosts(s, model.Post{ID: "a"})
	assert.Error(t, s.Posts.Delete(context.Background(), "a"))
	st := s.State().Posts
	assert.Len(t, st.Posts, 1)
	assert.False(t, st.Deleting())
	assert.Equal(t, []string{"Failed to delete post"}, n.Errors())
}

func TestLikeInFlightSet(t *testing.T) {
	for _, fail := range []bool{false, true} {
		name := "fulfilled"
		if fail {
			name = "rejected"
		}
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			g := newGate()
			s, _ := newTestStore(&mockAPI{
				likePostFn: func(ctx context.Context, id string) ([]string, error) {
					g.wait()
					if fail {
						return nil, serverErr("nope")
					}
					return []string{"me"}, nil
				},
			})
			seedPosts(s, model.Post{ID: "P", Text: "keep", Likes: []string{}})

			var mu sync.Mutex
			var seen [][]string
			unsub := s.Subscribe(func(st State) {
				mu.Lock()
				seen = append(seen, st.Posts.LikingIDs)
				mu.Unlock()
			})
			defer unsub()

			done := make(chan error)
			go func() { done <- s.Posts.Like(context.Background(), "P") }()
			<-g.entered

			st := s.State().Posts
			assert.Equal([]string{"P"}, st.LikingIDs)
			assert.True(st.IsLiking("P"))
			assert.True(st.Liking())

			close(g.release)
			err := <-done
			assert.Equal(fail, err != nil)

			st = s.State().Posts
			assert.Empty(st.LikingIDs)
			assert.False(st.IsLiking("P"))
			assert.False(st.Liking())

			mu.Lock()
			defer mu.Unlock()
			require.Len(t, seen, 2, "one transition at dispatch, one at settlement")
			assert.Equal([]string{"P"}, seen[0])
			assert.Empty(seen[1])

			post, _ := st.Find("P")
			if fail {
				assert.Empty(post.Likes)
			} else {
				assert.Equal(model.Post{ID: "P", Text: "keep", Likes: []string{"me"}}, post, "only likes change")
			}
		})
	}
}

func TestConcurrentLikesDoNotBlockEachOther(t *testing.T) {
	assert := assert.New(t)
	gates := map[string]*gate{"A": newGate(), "B": newGate()}
	s, _ := newTestStore(&mockAPI{
		likePostFn: func(ctx context.Context, id string) ([]string, error) {
			gates[id].wait()
			return []string{"me"}, nil
		},
	})
	seedPosts(s, model.Post{ID: "A"}, model.Post{ID: "B"})

	doneA := make(chan error)
	doneB := make(chan error)
	go func() { doneA <- s.Posts.Like(context.Background(), "A") }()
	<-gates["A"].entered
	go func() { doneB <- s.Posts.Like(context.Background(), "B") }()
	<-gates["B"].entered
	assert.Equal([]string{"A", "B"}, s.State().Posts.LikingIDs)

	close(gates["B"].release)
	require.NoError(t, <-doneB)
	st := s.State().Posts
	assert.Equal([]string{"A"}, st.LikingIDs)
	assert.True(st.Liking(), "like on A is still outstanding")
	b, _ := st.Find("B")
	assert.Equal([]string{"me"}, b.Likes)

	close(gates["A"].release)
	require.NoError(t, <-doneA)
	assert.Empty(s.State().Posts.LikingIDs)
	assert.False(s.State().Posts.Liking())
}

func TestCommentReplacesWholePost(t *testing.T) {
	assert := assert.New(t)
	server := &model.Post{
		ID:       "Y",
		User:     "author",
		Text:     "server text",
		Likes:    []string{"u1", "u2"},
		Comments: []model.Comment{{ID: "c1", User: "me", Text: "first"}},
	}
	s, n := newTestStore(&mockAPI{
		commentPostFn: func(ctx context.Context, id, text string) (*model.Post, error) {
			assert.Equal("Y", id)
			assert.Equal("first", text)
			return server, nil
		},
	})
	seedPosts(s, model.Post{ID: "X"}, model.Post{ID: "Y", Text: "stale", Img: "old.png"}, model.Post{ID: "Z"})

	require.NoError(t, s.Posts.Comment(context.Background(), "Y", "first"))
	st := s.State().Posts
	if diff := cmp.Diff(*server, st.Posts[1]); diff != "" {
		t.Errorf("post not replaced wholesale (-want +got):\n%s", diff)
	}
	assert.Equal([]string{"X", "Y", "Z"}, postIDs(st.Posts))
	assert.False(st.Commenting())
	assert.Equal([]string{"Comment posted successfully"}, n.Successes())
}

func TestCommentRejected(t *testing.T) {
	s, n := newTestStore(&mockAPI{
		commentPostFn: func(ctx context.Context, id, text string) (*model.Post, error) {
			return nil, serverErr("Post not found")
		},
	})
	seedPosts(s, model.Post{ID: "Y", Text: "keep"})
	assert.Error(t, s.Posts.Comment(context.Background(), "Y", "hi"))
	st := s.State().Posts
	assert.False(t, st.Commenting())
	assert.Equal(t, "keep", st.Posts[0].Text)
	assert.Equal(t, []string{"Post not found"}, n.Errors())
}

func TestStaleFetchIsDropped(t *testing.T) {
	assert := assert.New(t)
	slow := newGate()
	s, _ := newTestStore(&mockAPI{
		fetchPostsFn: func(ctx context.Context, q api.FeedQuery) ([]model.Post, error) {
			if q.Feed == api.FeedForYou {
				slow.wait()
				return []model.Post{{ID: "old"}}, nil
			}
			return []model.Post{{ID: "new"}}, nil
		},
	})

	done := make(chan error)
	go func() { done <- s.Posts.Fetch(context.Background(), api.FeedQuery{Feed: api.FeedForYou}) }()
	<-slow.entered

	require.NoError(t, s.Posts.Fetch(context.Background(), api.FeedQuery{Feed: api.FeedFollowing}))
	assert.True(s.State().Posts.Fetching(), "the older fetch is still outstanding")

	close(slow.release)
	assert.ErrorIs(<-done, ErrSuperseded)

	st := s.State().Posts
	assert.Equal([]string{"new"}, postIDs(st.Posts))
	assert.False(st.Fetching())
	assert.Equal(PhaseFulfilled, st.Fetch.Phase)
}

func TestStaleFetchCommitsWithoutLatestWins(t *testing.T) {
	slow := newGate()
	s, _ := newTestStore(&mockAPI{
		fetchPostsFn: func(ctx context.Context, q api.FeedQuery) ([]model.Post, error) {
			if q.Feed == api.FeedForYou {
				slow.wait()
				return []model.Post{{ID: "old"}}, nil
			}
			return []model.Post{{ID: "new"}}, nil
		},
	}, WithLatestFetchWins(false))

	done := make(chan error)
	go func() { done <- s.Posts.Fetch(context.Background(), api.FeedQuery{Feed: api.FeedForYou}) }()
	<-slow.entered
	require.NoError(t, s.Posts.Fetch(context.Background(), api.FeedQuery{Feed: api.FeedFollowing}))
	close(slow.release)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"old"}, postIDs(s.State().Posts.Posts), "last resolution wins")
}
