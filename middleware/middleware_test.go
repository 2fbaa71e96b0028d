package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/xhandler"
	"github.com/stretchr/testify/assert"
)

func sessionCtx(values map[interface{}]interface{}) context.Context {
	s := sessions.NewSession(sessions.NewCookieStore([]byte("0123456789abcdef")), "posty")
	for k, v := range values {
		s.Values[k] = v
	}
	return context.WithValue(context.Background(), sessionKey, s)
}

func TestAuthenticatedFilter(t *testing.T) {
	assert := assert.New(t)
	called := false
	h := AuthenticatedFilter()(xhandler.HandlerFuncC(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	h.ServeHTTPC(sessionCtx(nil), w, httptest.NewRequest("GET", "/api/auth/me", nil))
	assert.False(called)
	assert.Equal(http.StatusUnauthorized, w.Code)
	assert.Equal(`{"error":"Unauthorized: No session"}`, strings.TrimSpace(w.Body.String()))

	w = httptest.NewRecorder()
	h.ServeHTTPC(sessionCtx(map[interface{}]interface{}{SessionUserKey: "uid1"}), w, httptest.NewRequest("GET", "/api/auth/me", nil))
	assert.True(called)
	assert.Equal(http.StatusOK, w.Code)
}

func TestAuthenticatedFilterWithoutSession(t *testing.T) {
	h := AuthenticatedFilter()(xhandler.HandlerFuncC(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		t.Fatal("must not be called")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTPC(context.Background(), w, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestUnauthenticatedFilter(t *testing.T) {
	h := UnauthenticatedFilter()(xhandler.HandlerFuncC(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		t.Fatal("must not be called")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTPC(sessionCtx(map[interface{}]interface{}{SessionUserKey: "uid1"}), w, httptest.NewRequest("POST", "/api/auth/login", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserContext(t *testing.T) {
	var got string
	h := UserContext()(xhandler.HandlerFuncC(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		got, _ = UserID(ctx)
	}))
	h.ServeHTTPC(sessionCtx(map[interface{}]interface{}{SessionUserKey: "uid1"}), httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, "uid1", got)
}

func TestURLParam(t *testing.T) {
	ctx := WithURLParams(context.Background(), map[string]string{"id": "p1", "empty": ""})
	v, ok := URLParam(ctx, "id")
	assert.True(t, ok)
	assert.Equal(t, "p1", v)
	_, ok = URLParam(ctx, "empty")
	assert.False(t, ok)
	_, ok = URLParam(context.Background(), "id")
	assert.False(t, ok)
}

func TestMetricsRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	h := m.Route("posts/create")(xhandler.HandlerFuncC(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	h.ServeHTTPC(context.Background(), httptest.NewRecorder(), httptest.NewRequest("POST", "/", nil))
	h.ServeHTTPC(context.Background(), httptest.NewRecorder(), httptest.NewRequest("POST", "/", nil))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("posts/create", "201")))
}

func TestJSONWrapper(t *testing.T) {
	h := JSONWrapper()(xhandler.HandlerFuncC(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {}))
	w := httptest.NewRecorder()
	h.ServeHTTPC(context.Background(), w, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}
