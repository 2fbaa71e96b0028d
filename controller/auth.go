package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/blang/posty/api"
	"github.com/blang/posty/middleware"
	"github.com/blang/posty/model"
	"github.com/rs/xhandler"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthDataProvider defines the needed model interactions.
type AuthDataProvider interface {
	GetByID(id string) (*model.User, error)
	GetByUsername(username string) (*model.User, error)
	UpdateLastLogin(id string) error
	NewUser() *model.User
	SaveNew(u *model.User) error
}

// AuthController handles signup, login, logout and the session lookup.
type AuthController struct {
	Data AuthDataProvider
	// Cost is the bcrypt cost, bcrypt.DefaultCost if zero.
	Cost int
}

func NewAuthController(data AuthDataProvider) *AuthController {
	return &AuthController{Data: data}
}

func (c *AuthController) cost() int {
	if c.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return c.Cost
}

// Signup creates a user and logs it in.
func (c *AuthController) Signup() xhandler.HandlerC {
	return xhandler.HandlerFuncC(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		var req api.SignupRequest
		if err := decode(r, &req); err != nil {
			jsonError(w, r, cErrClient, err.Error())
			return
		}
		if _, err := c.Data.GetByUsername(req.Username); err == nil {
			jsonError(w, r, cErrClient, "Username is already taken")
			return
		} else if !errors.Is(err, model.ErrNotFound) {
			log.Warnf("Could not look up user: %s", err)
			jsonError(w, r, cErrServer, "")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), c.cost())
		if err != nil {
			jsonError(w, r, cErrServer, "")
			return
		}
		u := c.Data.NewUser()
		u.Username = req.Username
		u.FullName = req.FullName
		u.Email = req.Email
		u.PasswordHash = string(hash)
		if err := c.Data.SaveNew(u); err != nil {
			log.Warnf("Could not save new user: %s", err)
			jsonError(w, r, cErrServer, "")
			return
		}
		if !c.startSession(ctx, w, r, u.ID) {
			return
		}
		log.WithField("user", u.ID).Info("Handler: Signup")
		jsonResponse(w, r, http.StatusCreated, api.UserResponse{User: u})
	})
}

// Login checks the credentials and stores the user id in the session.
func (c *AuthController) Login() xhandler.HandlerC {
	return xhandler.HandlerFuncC(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		var req api.LoginRequest
		if err := decode(r, &req); err != nil {
			jsonError(w, r, cErrClient, err.Error())
			return
		}
		u, err := c.Data.GetByUsername(req.Username)
		if err != nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
			jsonError(w, r, cErrClient, "Invalid username or password")
			return
		}
		if err := c.Data.UpdateLastLogin(u.ID); err != nil {
			log.Warnf("Could not update last login: %s", err)
		}
		if !c.startSession(ctx, w, r, u.ID) {
			return
		}
		log.WithField("user", u.ID).Info("Handler: Login")
		jsonResponse(w, r, http.StatusOK, api.UserResponse{User: u})
	})
}

// Logout handles logout requests and invalidates the users session.
func (c *AuthController) Logout() xhandler.HandlerC {
	return xhandler.HandlerFuncC(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		log.Info("Handler: Logout")
		session, ok := middleware.SessionFrom(ctx)
		if !ok {
			jsonError(w, r, cErrServer, "")
			return
		}
		delete(session.Values, middleware.SessionUserKey)
		session.Options.MaxAge = -1
		if err := session.Save(r, w); err != nil {
			log.Warnf("Could not save session: %s", err)
		}
		jsonResponse(w, r, http.StatusOK, messageResponse{Message: "Logged out successfully"})
	})
}

// Me returns the logged in user.
func (c *AuthController) Me() xhandler.HandlerC {
	return xhandler.HandlerFuncC(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		uid, ok := middleware.UserID(ctx)
		if !ok {
			jsonError(w, r, http.StatusUnauthorized, "Unauthorized: No session")
			return
		}
		u, err := c.Data.GetByID(uid)
		if errors.Is(err, model.ErrNotFound) {
			jsonError(w, r, http.StatusUnauthorized, "Unauthorized: User not found")
			return
		}
		if err != nil {
			jsonError(w, r, cErrServer, "")
			return
		}
		jsonResponse(w, r, http.StatusOK, u)
	})
}

func (c *AuthController) startSession(ctx context.Context, w http.ResponseWriter, r *http.Request, uid string) bool {
	session, ok := middleware.SessionFrom(ctx)
	if !ok {
		log.Error("Context without valid session")
		jsonError(w, r, cErrServer, "")
		return false
	}
	session.Values[middleware.SessionUserKey] = uid
	if err := session.Save(r, w); err != nil {
		log.Warnf("Could not save session: %s", err)
		jsonError(w, r, cErrServer, "")
		return false
	}
	return true
}
