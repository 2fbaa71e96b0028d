package store

import (
	"context"

	"github.com/blang/posty/api"
	"github.com/blang/posty/model"
	"github.com/sirupsen/logrus"
)

// UsersState is the users slice of the state tree.
type UsersState struct {
	Suggested []model.User
	Profile   *model.User
	// FollowingUserID is the target of the outstanding follow, "" if none.
	FollowingUserID string
	Err             error
	ProfileErr      error

	Suggest     Lifecycle
	LoadProfile Lifecycle
	Follow      Lifecycle
}

func (s UsersState) Following() bool {
	return s.Follow.Pending()
}

func (s UsersState) clone() UsersState {
	if s.Suggested != nil {
		out := make([]model.User, len(s.Suggested))
		for i := range s.Suggested {
			out[i] = s.Suggested[i].Clone()
		}
		s.Suggested = out
	}
	s.Profile = cloneUser(s.Profile)
	return s
}

func (s *UsersState) suggestedFulfilled(users []model.User) {
	s.Suggest.fulfill()
	s.Suggested = make([]model.User, len(users))
	for i := range users {
		s.Suggested[i] = users[i].Clone()
	}
}

func (s *UsersState) profilePending() {
	s.LoadProfile.start()
	s.Err = nil
	s.ProfileErr = nil
}

func (s *UsersState) profileFulfilled(u *model.User) {
	s.LoadProfile.fulfill()
	s.Profile = cloneUser(u)
}

func (s *UsersState) profileRejected(err error) {
	s.LoadProfile.reject(err)
	s.Err = err
	s.ProfileErr = err
}

func (s *UsersState) followPending(id string) {
	s.Follow.start()
	s.Err = nil
	s.FollowingUserID = id
}

// followSettled clears the marker unless a newer follow took it over.
func (s *UsersState) followSettled(id string, err error) {
	if err != nil {
		s.Follow.reject(err)
		s.Err = err
	} else {
		s.Follow.fulfill()
	}
	if s.FollowingUserID == id {
		s.FollowingUserID = ""
	}
}

// Users owns suggestions, the viewed profile and follow.
type Users struct {
	store *Store
	api   UsersAPI
	log   *logrus.Entry
}

func (u *Users) FetchSuggested(ctx context.Context) error {
	_, err := run(ctx, u.store, "users/suggested",
		func(st *State) {
			st.Users.Suggest.start()
			st.Users.Err = nil
		},
		u.api.SuggestedUsers,
		func(st *State, users []model.User) { st.Users.suggestedFulfilled(users) },
		func(st *State, err error) {
			st.Users.Suggest.reject(err)
			st.Users.Err = err
		},
	)
	return err
}

func (u *Users) FetchProfile(ctx context.Context, username string) error {
	_, err := run(ctx, u.store, "users/profile",
		func(st *State) { st.Users.profilePending() },
		func(ctx context.Context) (*model.User, error) { return u.api.UserProfile(ctx, username) },
		func(st *State, user *model.User) { st.Users.profileFulfilled(user) },
		func(st *State, err error) { st.Users.profileRejected(err) },
	)
	return err
}

// Follow toggles following userID. FollowingUserID names the target while
// the call is outstanding.
func (u *Users) Follow(ctx context.Context, userID string) error {
	_, err := run(ctx, u.store, "users/follow",
		func(st *State) { st.Users.followPending(userID) },
		func(ctx context.Context) (string, error) { return u.api.Follow(ctx, userID) },
		func(st *State, _ string) { st.Users.followSettled(userID, nil) },
		func(st *State, err error) { st.Users.followSettled(userID, err) },
	)
	if err != nil {
		u.store.notifier.Error(api.Message(err, "Failed to follow user"))
	}
	return err
}
