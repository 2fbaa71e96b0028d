package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/rs/xhandler"
	log "github.com/sirupsen/logrus"
)

// SessionUserKey is the session value holding the logged in user's id.
const SessionUserKey = "user"

type Session struct {
	store sessions.Store
}

func (m *Session) Init(hashKey, blockKey []byte) {
	cs := sessions.NewCookieStore(hashKey, blockKey)
	cs.Options.HttpOnly = true
	cs.Options.SameSite = http.SameSiteStrictMode
	m.store = cs
}

func (m *Session) Enable(name string) func(next xhandler.HandlerC) xhandler.HandlerC {
	return func(next xhandler.HandlerC) xhandler.HandlerC {
		return xhandler.HandlerFuncC(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
			session, err := m.store.Get(r, name)
			if err != nil {
				log.Infof("Could not decode session %q from %q: %s", name, r.RemoteAddr, err)
			}
			ctx = context.WithValue(ctx, sessionKey, session)
			next.ServeHTTPC(ctx, w, r)
		})
	}
}
