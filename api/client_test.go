package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blang/posty/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	c, err := New(Options{BaseURL: ts.URL})
	require.NoError(t, err)
	return c
}

func TestFeedQueryPath(t *testing.T) {
	tests := []struct {
		name string
		q    FeedQuery
		want string
	}{
		{"global", FeedQuery{Feed: FeedForYou}, "/api/posts/all"},
		{"following", FeedQuery{Feed: FeedFollowing}, "/api/posts/following"},
		{"author", FeedQuery{Feed: FeedPosts, Username: "alice"}, "/api/posts/user/alice"},
		{"liker", FeedQuery{Feed: FeedLikes, UserID: "42"}, "/api/posts/likes/42"},
		{"unknown falls back", FeedQuery{Feed: "bookmarks", Username: "alice"}, "/api/posts/all"},
		{"empty falls back", FeedQuery{}, "/api/posts/all"},
		{"escaped", FeedQuery{Feed: FeedPosts, Username: "a b"}, "/api/posts/user/a%20b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.Path())
		})
	}
}

func TestFetchPostsHitsAuthorEndpoint(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode([]model.Post{{ID: "p1", Text: "hi"}})
	})
	posts, err := c.FetchPosts(context.Background(), FeedQuery{Feed: FeedPosts, Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "/api/posts/user/alice", gotPath)
	assert.Equal(t, []model.Post{{ID: "p1", Text: "hi"}}, posts)
}

func TestServerErrorMessageExtracted(t *testing.T) {
	assert := assert.New(t)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"Post not found"}`)
	})
	_, err := c.DeletePost(context.Background(), "p1")
	require.Error(t, err)
	var aerr *Error
	require.True(t, errors.As(err, &aerr))
	assert.Equal(KindServer, aerr.Kind)
	assert.Equal(http.StatusBadRequest, aerr.Status)
	assert.Equal("Post not found", Message(err, "fallback"))
	assert.Equal("Post not found", ServerMessage(err, "fallback"))
}

func TestServerErrorWithoutBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := c.FetchPosts(context.Background(), FeedQuery{})
	require.Error(t, err)
	assert.Equal(t, "Internal Server Error", Message(err, "fallback"))
	assert.Equal(t, "fallback", ServerMessage(err, "fallback"))
}

func TestTransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()
	c, err := New(Options{BaseURL: ts.URL})
	require.NoError(t, err)
	_, err = c.Notifications(context.Background())
	var aerr *Error
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, KindTransport, aerr.Kind)
	assert.Equal(t, "Failed to fetch", ServerMessage(err, "Failed to fetch"))
}

func TestMeWithoutSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":"Unauthorized: No Token Provided"}`)
	})
	u, err := c.Me(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestMeErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":"no session"}`)
	})
	u, err := c.Me(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestDeletePostFallsBackToRequestedID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		io.WriteString(w, `{"message":"Post deleted successfully"}`)
	})
	id, err := c.DeletePost(context.Background(), "p9")
	require.NoError(t, err)
	assert.Equal(t, "p9", id)
}

func TestCreatePostSendsJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var np NewPost
		require.NoError(t, json.NewDecoder(r.Body).Decode(&np))
		assert.Equal(t, "hello", np.Text)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(CreatePostResponse{NewPost: &model.Post{ID: "p1", Text: np.Text}})
	})
	p, err := c.CreatePost(context.Background(), NewPost{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
}

func TestCookiesRoundtrip(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/login" {
			http.SetCookie(w, &http.Cookie{Name: "posty", Value: "secret", Path: "/"})
			io.WriteString(w, `{"user":{"_id":"u1","username":"alice"}}`)
			return
		}
		ck, err := r.Cookie("posty")
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "secret", ck.Value)
		io.WriteString(w, `{"_id":"u1","username":"alice"}`)
	})
	_, err := c.Login(context.Background(), LoginRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	cookies := c.Cookies()
	require.Len(t, cookies, 1)

	fresh, err := New(Options{BaseURL: c.BaseURL().String()})
	require.NoError(t, err)
	fresh.SetCookies(cookies)
	u, err := fresh.Me(context.Background())
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "alice", u.Username)
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New(Options{BaseURL: "localhost"})
	assert.Error(t, err)
}

func TestRateLimitHonorsContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})
	c2, err := New(Options{BaseURL: c.BaseURL().String(), RateLimit: 0.001, Burst: 1})
	require.NoError(t, err)
	_, err = c2.SuggestedUsers(context.Background())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c2.SuggestedUsers(ctx)
	var aerr *Error
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, KindTransport, aerr.Kind)
}
