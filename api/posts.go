package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/blang/posty/model"
)

// Feed selects which listing endpoint a post fetch targets.
type Feed string

const (
	FeedForYou    Feed = "forYou"
	FeedFollowing Feed = "following"
	FeedPosts     Feed = "posts"
	FeedLikes     Feed = "likes"
)

// FeedQuery is a feed selector plus the identifiers some selectors need.
type FeedQuery struct {
	Feed     Feed
	Username string
	UserID   string
}

// Path resolves the query to exactly one endpoint path. Unknown selectors
// fall back to the global feed.
func (q FeedQuery) Path() string {
	switch q.Feed {
	case FeedForYou:
		return "/api/posts/all"
	case FeedFollowing:
		return "/api/posts/following"
	case FeedPosts:
		return "/api/posts/user/" + url.PathEscape(q.Username)
	case FeedLikes:
		return "/api/posts/likes/" + url.PathEscape(q.UserID)
	default:
		return "/api/posts/all"
	}
}

func (c *Client) FetchPosts(ctx context.Context, q FeedQuery) ([]model.Post, error) {
	posts := []model.Post{}
	if err := c.do(ctx, "fetchPosts", http.MethodGet, q.Path(), nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) CreatePost(ctx context.Context, p NewPost) (*model.Post, error) {
	var resp CreatePostResponse
	if err := c.do(ctx, "createPost", http.MethodPost, "/api/posts/create", p, &resp); err != nil {
		return nil, err
	}
	if resp.NewPost == nil {
		return nil, &Error{Kind: KindUnknown, Op: "createPost", Message: "response without post"}
	}
	return resp.NewPost, nil
}

// DeletePost returns the id of the removed post as reported by the server,
// or the requested id when the server does not echo it.
func (c *Client) DeletePost(ctx context.Context, id string) (string, error) {
	var resp DeletePostResponse
	if err := c.do(ctx, "deletePost", http.MethodDelete, "/api/posts/"+url.PathEscape(id), nil, &resp); err != nil {
		return "", err
	}
	if resp.PostID == "" {
		return id, nil
	}
	return resp.PostID, nil
}

// LikePost toggles the current user's like and returns the post's likes.
func (c *Client) LikePost(ctx context.Context, id string) ([]string, error) {
	likes := []string{}
	if err := c.do(ctx, "likePost", http.MethodPost, "/api/posts/like/"+url.PathEscape(id), struct{}{}, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

// CommentPost adds a comment and returns the full updated post.
func (c *Client) CommentPost(ctx context.Context, id, text string) (*model.Post, error) {
	var p model.Post
	if err := c.do(ctx, "commentPost", http.MethodPost, "/api/posts/comment/"+url.PathEscape(id), NewComment{Text: text}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
