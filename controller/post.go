package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/blang/posty/api"
	"github.com/blang/posty/middleware"
	"github.com/blang/posty/model"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type PostDataProvider interface {
	GetByID(id string) (*model.Post, error)
	GetPosts() ([]*model.Post, error)
	NewPost(uid string) *model.Post
	SaveNew(p *model.Post) error
	Save(p *model.Post) error
	Remove(p *model.Post) error
}

// UserDataProvider looks up and stores users for the post and user endpoints.
type UserDataProvider interface {
	GetByID(id string) (*model.User, error)
	GetByUsername(username string) (*model.User, error)
	GetUsers() ([]*model.User, error)
	Save(u *model.User) error
}

// Notifier records notifications caused by likes and follows.
type Notifier interface {
	NewNotification(from, to string, typ model.NotificationType) *model.Notification
	SaveNew(n *model.Notification) error
}

type PostController struct {
	Model         PostDataProvider
	Users         UserDataProvider
	Notifications Notifier
}

// filterPosts writes the posts accepted by keep.
func (p *PostController) filterPosts(w http.ResponseWriter, r *http.Request, keep func(*model.Post) bool) {
	ps, err := p.Model.GetPosts()
	if err != nil {
		log.Warnf("Could not get posts: %s", err)
		jsonError(w, r, cErrServer, "")
		return
	}
	out := make([]*model.Post, 0, len(ps))
	for _, post := range ps {
		if keep == nil || keep(post) {
			out = append(out, post)
		}
	}
	jsonResponse(w, r, http.StatusOK, out)
}

// Posts lists every post, newest first.
func (p *PostController) Posts(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	p.filterPosts(w, r, nil)
}

// Following lists the posts of the users the current user follows.
func (p *PostController) Following(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	me, ok := p.currentUser(ctx, w, r)
	if !ok {
		return
	}
	p.filterPosts(w, r, func(post *model.Post) bool { return me.Follows(post.User) })
}

// UserPosts lists the posts written by :username.
func (p *PostController) UserPosts(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.URLParam(ctx, "username")
	if !ok {
		jsonError(w, r, cErrClient, "Missing username parameter")
		return
	}
	u, err := p.Users.GetByUsername(username)
	if err != nil {
		jsonError(w, r, http.StatusNotFound, "User not found")
		return
	}
	p.filterPosts(w, r, func(post *model.Post) bool { return post.User == u.ID })
}

// Likes lists the posts liked by user :id.
func (p *PostController) Likes(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.URLParam(ctx, "id")
	if !ok {
		jsonError(w, r, cErrClient, "Missing id parameter")
		return
	}
	u, err := p.Users.GetByID(id)
	if err != nil {
		jsonError(w, r, http.StatusNotFound, "User not found")
		return
	}
	p.filterPosts(w, r, func(post *model.Post) bool { return post.LikedBy(u.ID) })
}

func (p *PostController) Create(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserID(ctx)
	if !ok {
		log.Warnf("Invalid user context")
		jsonError(w, r, cErrServer, "")
		return
	}
	var req api.NewPost
	if err := decode(r, &req); err != nil {
		jsonError(w, r, cErrClient, err.Error())
		return
	}
	post := p.Model.NewPost(user)
	post.Text = req.Text
	post.Img = req.Img
	if err := p.Model.SaveNew(post); err != nil {
		log.Warnf("Could not save post: %s", err)
		jsonError(w, r, cErrServer, "")
		return
	}
	jsonResponse(w, r, http.StatusCreated, api.CreatePostResponse{NewPost: post})
}

func (p *PostController) Remove(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserID(ctx)
	if !ok {
		log.Warnf("Invalid user context")
		jsonError(w, r, cErrServer, "")
		return
	}
	post, ok := p.post(ctx, w, r)
	if !ok {
		return
	}
	if post.User != user {
		jsonError(w, r, http.StatusUnauthorized, "You are not authorized to delete this post")
		return
	}
	if err := p.Model.Remove(post); err != nil {
		jsonError(w, r, cErrServer, "")
		return
	}
	jsonResponse(w, r, http.StatusOK, api.DeletePostResponse{Message: "Post deleted successfully", PostID: post.ID})
}

// Like toggles the current user's like on :id and returns the post's likes.
func (p *PostController) Like(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	me, ok := p.currentUser(ctx, w, r)
	if !ok {
		return
	}
	post, ok := p.post(ctx, w, r)
	if !ok {
		return
	}
	liked := post.LikedBy(me.ID)
	if liked {
		post.Likes = model.RemoveID(post.Likes, me.ID)
		me.LikedPosts = model.RemoveID(me.LikedPosts, post.ID)
	} else {
		post.Likes = model.AddID(post.Likes, me.ID)
		me.LikedPosts = model.AddID(me.LikedPosts, post.ID)
	}
	// Saves overwrite whole records. Concurrent toggles are last-write-wins.
	if err := p.Model.Save(post); err != nil {
		log.Warnf("Could not save post: %s", err)
		jsonError(w, r, cErrServer, "")
		return
	}
	if err := p.Users.Save(me); err != nil {
		log.Warnf("Could not save user: %s", err)
		jsonError(w, r, cErrServer, "")
		return
	}
	if !liked && post.User != me.ID {
		n := p.Notifications.NewNotification(me.ID, post.User, model.NotificationLike)
		if err := p.Notifications.SaveNew(n); err != nil {
			log.Warnf("Could not save notification: %s", err)
		}
	}
	jsonResponse(w, r, http.StatusOK, nonNil(post.Likes))
}

// Comment appends a comment to :id and returns the updated post.
func (p *PostController) Comment(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserID(ctx)
	if !ok {
		log.Warnf("Invalid user context")
		jsonError(w, r, cErrServer, "")
		return
	}
	var req api.NewComment
	if err := decode(r, &req); err != nil {
		jsonError(w, r, cErrClient, err.Error())
		return
	}
	post, ok := p.post(ctx, w, r)
	if !ok {
		return
	}
	post.Comments = append(post.Comments, model.Comment{ID: uuid.NewString(), User: user, Text: req.Text})
	if err := p.Model.Save(post); err != nil {
		log.Warnf("Could not save post: %s", err)
		jsonError(w, r, cErrServer, "")
		return
	}
	jsonResponse(w, r, http.StatusOK, post)
}

func (p *PostController) post(ctx context.Context, w http.ResponseWriter, r *http.Request) (*model.Post, bool) {
	id, ok := middleware.URLParam(ctx, "id")
	if !ok {
		jsonError(w, r, cErrClient, "Missing id parameter")
		return nil, false
	}
	post, err := p.Model.GetByID(id)
	if errors.Is(err, model.ErrNotFound) {
		jsonError(w, r, http.StatusNotFound, "Post not found")
		return nil, false
	}
	if err != nil {
		log.Warnf("Could not get post %q: %s", id, err)
		jsonError(w, r, cErrServer, "")
		return nil, false
	}
	return post, true
}

func (p *PostController) currentUser(ctx context.Context, w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	return currentUser(ctx, w, r, p.Users)
}

func currentUser(ctx context.Context, w http.ResponseWriter, r *http.Request, users UserDataProvider) (*model.User, bool) {
	uid, ok := middleware.UserID(ctx)
	if !ok {
		log.Warnf("Invalid user context")
		jsonError(w, r, cErrServer, "")
		return nil, false
	}
	me, err := users.GetByID(uid)
	if err != nil {
		jsonError(w, r, http.StatusNotFound, "User not found")
		return nil, false
	}
	return me, true
}
