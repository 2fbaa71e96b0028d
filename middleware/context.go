package middleware

import (
	"context"

	"github.com/gorilla/sessions"
)

type ctxKey int

const (
	sessionKey ctxKey = iota
	userKey
	urlParamsKey
)

// SessionFrom returns the session attached by Session.Enable.
func SessionFrom(ctx context.Context) (*sessions.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*sessions.Session)
	return s, ok && s != nil
}

// UserID returns the id of the authenticated user attached by UserContext.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userKey).(string)
	return id, ok && id != ""
}

// WithUserID attaches uid as the authenticated user.
func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userKey, uid)
}

// WithURLParams attaches the router's path parameters.
func WithURLParams(ctx context.Context, params map[string]string) context.Context {
	return context.WithValue(ctx, urlParamsKey, params)
}

// URLParam returns the named path parameter.
func URLParam(ctx context.Context, name string) (string, bool) {
	params, _ := ctx.Value(urlParamsKey).(map[string]string)
	v, ok := params[name]
	return v, ok && v != ""
}
