package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/blang/posty/api"
	"github.com/blang/posty/middleware"
	"github.com/blang/posty/model"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// maxSuggested bounds the suggestion list.
const maxSuggested = 4

// UserController serves profiles, suggestions, follows and profile updates.
type UserController struct {
	Users         UserDataProvider
	Notifications Notifier
	// Cost is the bcrypt cost for password changes, bcrypt.DefaultCost if zero.
	Cost int
}

// Suggested lists users the current user does not follow yet.
func (c *UserController) Suggested(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	me, ok := currentUser(ctx, w, r, c.Users)
	if !ok {
		return
	}
	users, err := c.Users.GetUsers()
	if err != nil {
		log.Warnf("Could not get users: %s", err)
		jsonError(w, r, cErrServer, "")
		return
	}
	out := make([]*model.User, 0, maxSuggested)
	for _, u := range users {
		if len(out) == maxSuggested {
			break
		}
		if u.ID == me.ID || me.Follows(u.ID) {
			continue
		}
		out = append(out, u)
	}
	jsonResponse(w, r, http.StatusOK, out)
}

func (c *UserController) Profile(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.URLParam(ctx, "username")
	if !ok {
		jsonError(w, r, cErrClient, "Missing username parameter")
		return
	}
	u, err := c.Users.GetByUsername(username)
	if err != nil {
		jsonError(w, r, http.StatusNotFound, "User not found")
		return
	}
	jsonResponse(w, r, http.StatusOK, u)
}

// Follow toggles whether the current user follows :id. A new follow notifies
// the followed user.
func (c *UserController) Follow(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.URLParam(ctx, "id")
	if !ok {
		jsonError(w, r, cErrClient, "Missing id parameter")
		return
	}
	me, ok := currentUser(ctx, w, r, c.Users)
	if !ok {
		return
	}
	if id == me.ID {
		jsonError(w, r, cErrClient, "You can't follow/unfollow yourself")
		return
	}
	target, err := c.Users.GetByID(id)
	if err != nil {
		jsonError(w, r, http.StatusNotFound, "User not found")
		return
	}

	msg := "User followed successfully"
	following := me.Follows(id)
	if following {
		me.Following = model.RemoveID(me.Following, id)
		target.Followers = model.RemoveID(target.Followers, me.ID)
		msg = "User unfollowed successfully"
	} else {
		me.Following = model.AddID(me.Following, id)
		target.Followers = model.AddID(target.Followers, me.ID)
	}
	if err := c.Users.Save(target); err != nil {
		log.Warnf("Could not save user: %s", err)
		jsonError(w, r, cErrServer, "")
		return
	}
	if err := c.Users.Save(me); err != nil {
		log.Warnf("Could not save user: %s", err)
		jsonError(w, r, cErrServer, "")
		return
	}
	if !following {
		n := c.Notifications.NewNotification(me.ID, id, model.NotificationFollow)
		if err := c.Notifications.SaveNew(n); err != nil {
			log.Warnf("Could not save notification: %s", err)
		}
	}
	jsonResponse(w, r, http.StatusOK, messageResponse{Message: msg})
}

// Update changes the current user's profile and returns the stored record.
func (c *UserController) Update(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req api.ProfileUpdate
	if err := decode(r, &req); err != nil {
		jsonError(w, r, cErrClient, err.Error())
		return
	}
	me, ok := currentUser(ctx, w, r, c.Users)
	if !ok {
		return
	}
	if req.NewPassword != "" {
		if bcrypt.CompareHashAndPassword([]byte(me.PasswordHash), []byte(req.CurrentPassword)) != nil {
			jsonError(w, r, cErrClient, "Current password is incorrect")
			return
		}
		cost := c.Cost
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), cost)
		if err != nil {
			jsonError(w, r, cErrServer, "")
			return
		}
		me.PasswordHash = string(hash)
	}
	if req.Username != "" && req.Username != me.Username {
		if _, err := c.Users.GetByUsername(req.Username); err == nil {
			jsonError(w, r, cErrClient, "Username is already taken")
			return
		} else if !errors.Is(err, model.ErrNotFound) {
			jsonError(w, r, cErrServer, "")
			return
		}
		me.Username = req.Username
	}
	setIf(&me.FullName, req.FullName)
	setIf(&me.Email, req.Email)
	setIf(&me.Bio, req.Bio)
	setIf(&me.Link, req.Link)
	setIf(&me.ProfileImg, req.ProfileImg)
	setIf(&me.CoverImg, req.CoverImg)
	if err := c.Users.Save(me); err != nil {
		log.Warnf("Could not save user: %s", err)
		jsonError(w, r, cErrServer, "")
		return
	}
	jsonResponse(w, r, http.StatusOK, me)
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
