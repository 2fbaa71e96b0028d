package store

import (
	"context"
	"net/http"
	"testing"

	"github.com/blang/posty/api"
	"github.com/blang/posty/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginFulfilled(t *testing.T) {
	assert := assert.New(t)
	alice := &model.User{ID: "u1", Username: "alice"}
	s, n := newTestStore(&mockAPI{
		loginFn: func(ctx context.Context, req api.LoginRequest) (*model.User, error) {
			assert.Equal("alice", req.Username)
			return alice, nil
		},
	})
	require.NoError(t, s.Auth.Login(context.Background(), api.LoginRequest{Username: "alice", Password: "pw"}))

	st := s.State().Auth
	assert.Equal(alice, st.User)
	assert.False(st.Loading())
	assert.False(st.Failed)
	assert.Nil(st.Err)
	assert.Empty(n.Errors())
}

func TestLoginRejectedKeepsUser(t *testing.T) {
	assert := assert.New(t)
	prev := &model.User{ID: "u0", Username: "bob"}
	boom := serverErr("Invalid username or password")
	s, n := newTestStore(&mockAPI{
		loginFn: func(ctx context.Context, req api.LoginRequest) (*model.User, error) {
			return nil, boom
		},
	})
	s.update(func(st *State) { st.Auth.User = prev })

	err := s.Auth.Login(context.Background(), api.LoginRequest{Username: "x", Password: "y"})
	assert.Equal(boom, err)

	st := s.State().Auth
	assert.Equal(prev, st.User)
	assert.True(st.Failed)
	assert.Equal(boom, st.Err)
	assert.False(st.Loading())
	assert.Equal(PhaseRejected, st.Login.Phase)
	assert.Equal([]string{"Invalid username or password"}, n.Errors())
}

func TestSignupTransportFailureUsesFallback(t *testing.T) {
	s, n := newTestStore(&mockAPI{
		signupFn: func(ctx context.Context, req api.SignupRequest) (*model.User, error) {
			return nil, &api.Error{Kind: api.KindTransport, Op: "signup"}
		},
	})
	assert.Error(t, s.Auth.Signup(context.Background(), api.SignupRequest{}))
	assert.Equal(t, []string{"Signup failed"}, n.Errors())
}

func TestLogoutClearsUser(t *testing.T) {
	s, n := newTestStore(&mockAPI{
		logoutFn: func(ctx context.Context) (string, error) { return "Logged out successfully", nil },
	})
	s.update(func(st *State) { st.Auth.User = &model.User{ID: "u1"} })

	require.NoError(t, s.Auth.Logout(context.Background()))
	assert.Nil(t, s.State().Auth.User)
	assert.Equal(t, []string{"Logged out successfully"}, n.Successes())
}

func TestLogoutRejected(t *testing.T) {
	s, n := newTestStore(&mockAPI{
		logoutFn: func(ctx context.Context) (string, error) { return "", serverErr("boom") },
	})
	s.update(func(st *State) { st.Auth.User = &model.User{ID: "u1"} })
	assert.Error(t, s.Auth.Logout(context.Background()))
	st := s.State().Auth
	assert.NotNil(t, st.User)
	assert.True(t, st.Failed)
	assert.Equal(t, []string{"Logout failed"}, n.Errors())
}

func TestSessionWithoutLogin(t *testing.T) {
	s, n := newTestStore(&mockAPI{
		meFn: func(ctx context.Context) (*model.User, error) { return nil, nil },
	})
	s.update(func(st *State) { st.Auth.User = &model.User{ID: "expired"} })
	require.NoError(t, s.Auth.Session(context.Background()))
	st := s.State().Auth
	assert.Nil(t, st.User)
	assert.Equal(t, PhaseFulfilled, st.Session.Phase)
	assert.Empty(t, n.Errors())
}

func TestSessionRejectedKeepsUser(t *testing.T) {
	s, _ := newTestStore(&mockAPI{
		meFn: func(ctx context.Context) (*model.User, error) {
			return nil, &api.Error{Kind: api.KindServer, Status: http.StatusInternalServerError}
		},
	})
	prev := &model.User{ID: "u1"}
	s.update(func(st *State) { st.Auth.User = prev })
	assert.Error(t, s.Auth.Session(context.Background()))
	assert.Equal(t, prev, s.State().Auth.User)
}

func TestUpdateProfile(t *testing.T) {
	assert := assert.New(t)
	g := newGate()
	updated := &model.User{ID: "u1", Bio: "new bio"}
	s, n := newTestStore(&mockAPI{
		updateProfileFn: func(ctx context.Context, req api.ProfileUpdate) (*model.User, error) {
			g.wait()
			return updated, nil
		},
	})
	done := make(chan error)
	go func() { done <- s.Auth.UpdateProfile(context.Background(), api.ProfileUpdate{Bio: "new bio"}) }()
	<-g.entered
	st := s.State().Auth
	assert.True(st.UpdatingProfile())
	assert.False(st.Loading(), "profile updates use their own flag")
	close(g.release)
	require.NoError(t, <-done)

	st = s.State().Auth
	assert.False(st.UpdatingProfile())
	assert.Equal(updated, st.User)
	assert.Equal([]string{"Profile updated successfully"}, n.Successes())
}
