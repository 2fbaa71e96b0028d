package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/blang/posty/model"
	"github.com/blang/posty/model/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func seedUsers(t *testing.T, m *memory.MemoryModel, names ...string) []*model.User {
	users := make([]*model.User, len(names))
	for i, name := range names {
		u := m.UserPeer().NewUser()
		u.Username = name
		require.NoError(t, m.UserPeer().SaveNew(u))
		users[i] = u
	}
	return users
}

func newUserController(m *memory.MemoryModel) *UserController {
	return &UserController{Users: m.UserPeer(), Notifications: m.NotificationPeer(), Cost: bcrypt.MinCost}
}

func TestFollowToggle(t *testing.T) {
	assert := assert.New(t)
	m := memory.NewModel()
	users := seedUsers(t, m, "alice", "bob")
	alice, bob := users[0], users[1]
	c := newUserController(m)
	ctx := userCtx(alice.ID, map[string]string{"id": bob.ID})

	w := httptest.NewRecorder()
	c.Follow(ctx, w, nil)
	assert.Equal(`{"message":"User followed successfully"}`, w.Body.String())
	a, _ := m.UserPeer().GetByID(alice.ID)
	b, _ := m.UserPeer().GetByID(bob.ID)
	assert.Equal([]string{bob.ID}, a.Following)
	assert.Equal([]string{alice.ID}, b.Followers)
	ns, _ := m.NotificationPeer().GetFor(bob.ID)
	if assert.Len(ns, 1) {
		assert.Equal(model.NotificationFollow, ns[0].Type)
		assert.Equal(alice.ID, ns[0].From)
	}

	w = httptest.NewRecorder()
	c.Follow(ctx, w, nil)
	assert.Equal(`{"message":"User unfollowed successfully"}`, w.Body.String())
	a, _ = m.UserPeer().GetByID(alice.ID)
	assert.Empty(a.Following)
}

func TestFollowSelfAndUnknown(t *testing.T) {
	m := memory.NewModel()
	alice := seedUsers(t, m, "alice")[0]
	c := newUserController(m)

	w := httptest.NewRecorder()
	c.Follow(userCtx(alice.ID, map[string]string{"id": alice.ID}), w, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	c.Follow(userCtx(alice.ID, map[string]string{"id": "ghost"}), w, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSuggested(t *testing.T) {
	assert := assert.New(t)
	m := memory.NewModel()
	users := seedUsers(t, m, "alice", "bob", "carol", "dave", "erin", "frank", "grace")
	alice := users[0]
	alice.Following = []string{users[1].ID}
	require.NoError(t, m.UserPeer().Save(alice))
	c := newUserController(m)

	w := httptest.NewRecorder()
	c.Suggested(userCtx(alice.ID, nil), w, nil)
	var got []model.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(got, maxSuggested)
	for _, u := range got {
		assert.NotEqual(alice.ID, u.ID)
		assert.NotEqual(users[1].ID, u.ID)
	}
}

func TestProfile(t *testing.T) {
	m := memory.NewModel()
	seedUsers(t, m, "alice")
	c := newUserController(m)

	w := httptest.NewRecorder()
	c.Profile(userCtx("x", map[string]string{"username": "alice"}), w, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)

	w = httptest.NewRecorder()
	c.Profile(userCtx("x", map[string]string{"username": "ghost"}), w, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProfile(t *testing.T) {
	assert := assert.New(t)
	m := memory.NewModel()
	users := seedUsers(t, m, "alice", "bob")
	alice := users[0]
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	alice.PasswordHash = string(hash)
	require.NoError(t, m.UserPeer().Save(alice))
	c := newUserController(m)
	ctx := userCtx(alice.ID, nil)

	w := httptest.NewRecorder()
	c.Update(ctx, w, httptest.NewRequest("POST", "/", strings.NewReader(`{"bio":"hello","link":"https://example.com"}`)))
	assert.Equal(http.StatusOK, w.Code, w.Body.String())
	stored, _ := m.UserPeer().GetByID(alice.ID)
	assert.Equal("hello", stored.Bio)
	assert.Equal("https://example.com", stored.Link)
	assert.Equal("alice", stored.Username)

	w = httptest.NewRecorder()
	c.Update(ctx, w, httptest.NewRequest("POST", "/", strings.NewReader(`{"username":"bob"}`)))
	assert.Equal(`{"error":"Username is already taken"}`, w.Body.String())

	w = httptest.NewRecorder()
	c.Update(ctx, w, httptest.NewRequest("POST", "/", strings.NewReader(`{"currentPassword":"wrong","newPassword":"secret2"}`)))
	assert.Equal(`{"error":"Current password is incorrect"}`, w.Body.String())

	w = httptest.NewRecorder()
	c.Update(ctx, w, httptest.NewRequest("POST", "/", strings.NewReader(`{"currentPassword":"secret1","newPassword":"secret2"}`)))
	assert.Equal(http.StatusOK, w.Code)
	stored, _ = m.UserPeer().GetByID(alice.ID)
	assert.NoError(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret2")))
}

func TestNotifications(t *testing.T) {
	assert := assert.New(t)
	m := memory.NewModel()
	np := m.NotificationPeer()
	require.NoError(t, np.SaveNew(np.NewNotification("bob", "alice", model.NotificationLike)))
	require.NoError(t, np.SaveNew(np.NewNotification("alice", "bob", model.NotificationFollow)))
	c := &NotificationController{Model: np}

	w := httptest.NewRecorder()
	c.Notifications(userCtx("alice", nil), w, nil)
	var got []model.Notification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	if assert.Len(got, 1) {
		assert.Equal("bob", got[0].From)
	}

	w = httptest.NewRecorder()
	c.DeleteAll(userCtx("alice", nil), w, nil)
	assert.Equal(`{"message":"Notifications deleted successfully"}`, w.Body.String())

	w = httptest.NewRecorder()
	c.Notifications(userCtx("alice", nil), w, nil)
	assert.Equal("[]", w.Body.String())
	remaining, _ := np.GetFor("bob")
	assert.Len(remaining, 1)
}
