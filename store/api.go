package store

import (
	"context"

	"github.com/blang/posty/api"
	"github.com/blang/posty/model"
)

// AuthAPI is the remote surface used by the auth container.
type AuthAPI interface {
	Signup(ctx context.Context, req api.SignupRequest) (*model.User, error)
	Login(ctx context.Context, req api.LoginRequest) (*model.User, error)
	Logout(ctx context.Context) (string, error)
	Me(ctx context.Context) (*model.User, error)
	UpdateProfile(ctx context.Context, req api.ProfileUpdate) (*model.User, error)
}

// PostsAPI is the remote surface used by the posts container.
type PostsAPI interface {
	FetchPosts(ctx context.Context, q api.FeedQuery) ([]model.Post, error)
	CreatePost(ctx context.Context, p api.NewPost) (*model.Post, error)
	DeletePost(ctx context.Context, id string) (string, error)
	LikePost(ctx context.Context, id string) ([]string, error)
	CommentPost(ctx context.Context, id, text string) (*model.Post, error)
}

// NotificationsAPI is the remote surface used by the notifications container.
type NotificationsAPI interface {
	Notifications(ctx context.Context) ([]model.Notification, error)
	DeleteNotifications(ctx context.Context) (string, error)
}

// UsersAPI is the remote surface used by the users container.
type UsersAPI interface {
	SuggestedUsers(ctx context.Context) ([]model.User, error)
	UserProfile(ctx context.Context, username string) (*model.User, error)
	Follow(ctx context.Context, userID string) (string, error)
}

// API is everything the store calls. *api.Client implements it.
type API interface {
	AuthAPI
	PostsAPI
	NotificationsAPI
	UsersAPI
}

var _ API = (*api.Client)(nil)
