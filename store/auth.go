package store

import (
	"context"

	"github.com/blang/posty/api"
	"github.com/blang/posty/model"
	"github.com/sirupsen/logrus"
)

// AuthState is the session slice of the state tree.
type AuthState struct {
	// User is the logged in user, nil when there is no session.
	User   *model.User
	Err    error
	Failed bool

	Signup        Lifecycle
	Login         Lifecycle
	Logout        Lifecycle
	Session       Lifecycle
	UpdateProfile Lifecycle
}

// Loading reports whether a signup, login, logout or session fetch is
// outstanding.
func (s AuthState) Loading() bool {
	return s.Signup.Pending() || s.Login.Pending() || s.Logout.Pending() || s.Session.Pending()
}

// UpdatingProfile reports whether a profile update is outstanding.
func (s AuthState) UpdatingProfile() bool {
	return s.UpdateProfile.Pending()
}

func (s AuthState) clone() AuthState {
	s.User = cloneUser(s.User)
	return s
}

func (s *AuthState) pending(l *Lifecycle) {
	l.start()
	s.Err = nil
	s.Failed = false
}

func (s *AuthState) fulfilled(l *Lifecycle, u *model.User) {
	l.fulfill()
	s.User = cloneUser(u)
	s.Failed = false
}

// rejected keeps the previous user.
func (s *AuthState) rejected(l *Lifecycle, err error) {
	l.reject(err)
	s.Err = err
	s.Failed = true
}

// Auth owns signup, login, logout, session and profile operations.
type Auth struct {
	store *Store
	api   AuthAPI
	log   *logrus.Entry
}

func (a *Auth) Signup(ctx context.Context, req api.SignupRequest) error {
	_, err := run(ctx, a.store, "auth/signup",
		func(st *State) { st.Auth.pending(&st.Auth.Signup) },
		func(ctx context.Context) (*model.User, error) { return a.api.Signup(ctx, req) },
		func(st *State, u *model.User) { st.Auth.fulfilled(&st.Auth.Signup, u) },
		func(st *State, err error) { st.Auth.rejected(&st.Auth.Signup, err) },
	)
	if err != nil {
		a.store.notifier.Error(api.ServerMessage(err, "Signup failed"))
	}
	return err
}

func (a *Auth) Login(ctx context.Context, req api.LoginRequest) error {
	_, err := run(ctx, a.store, "auth/login",
		func(st *State) { st.Auth.pending(&st.Auth.Login) },
		func(ctx context.Context) (*model.User, error) { return a.api.Login(ctx, req) },
		func(st *State, u *model.User) { st.Auth.fulfilled(&st.Auth.Login, u) },
		func(st *State, err error) { st.Auth.rejected(&st.Auth.Login, err) },
	)
	if err != nil {
		a.store.notifier.Error(api.ServerMessage(err, "Login failed"))
	}
	return err
}

func (a *Auth) Logout(ctx context.Context) error {
	msg, err := run(ctx, a.store, "auth/logout",
		func(st *State) { st.Auth.pending(&st.Auth.Logout) },
		a.api.Logout,
		func(st *State, _ string) { st.Auth.fulfilled(&st.Auth.Logout, nil) },
		func(st *State, err error) { st.Auth.rejected(&st.Auth.Logout, err) },
	)
	if err != nil {
		a.store.notifier.Error("Logout failed")
		return err
	}
	if msg == "" {
		msg = "Logged out successfully"
	}
	a.store.notifier.Success(msg)
	return nil
}

// Session refreshes the current user from the server. Having no session is a
// successful answer and clears User.
func (a *Auth) Session(ctx context.Context) error {
	_, err := run(ctx, a.store, "auth/session",
		func(st *State) { st.Auth.pending(&st.Auth.Session) },
		a.api.Me,
		func(st *State, u *model.User) { st.Auth.fulfilled(&st.Auth.Session, u) },
		func(st *State, err error) { st.Auth.rejected(&st.Auth.Session, err) },
	)
	if err != nil {
		a.store.notifier.Error(api.Message(err, "Could not load session"))
	}
	return err
}

func (a *Auth) UpdateProfile(ctx context.Context, req api.ProfileUpdate) error {
	_, err := run(ctx, a.store, "auth/updateProfile",
		func(st *State) { st.Auth.pending(&st.Auth.UpdateProfile) },
		func(ctx context.Context) (*model.User, error) { return a.api.UpdateProfile(ctx, req) },
		func(st *State, u *model.User) { st.Auth.fulfilled(&st.Auth.UpdateProfile, u) },
		func(st *State, err error) { st.Auth.rejected(&st.Auth.UpdateProfile, err) },
	)
	if err != nil {
		a.store.notifier.Error(api.Message(err, "Profile update failed"))
		return err
	}
	a.store.notifier.Success("Profile updated successfully")
	return nil
}

func cloneUser(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	c := u.Clone()
	return &c
}
