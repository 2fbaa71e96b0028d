// Package server wires the controllers into the HTTP API served by postyd.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/blang/posty/controller"
	"github.com/blang/posty/middleware"
	"github.com/blang/posty/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/xhandler"
	log "github.com/sirupsen/logrus"
	"github.com/zenazn/goji/web"
)

const sessionName = "posty"

type Config struct {
	// SessionKey signs the session cookie.
	SessionKey []byte
	// SessionBlockKey encrypts it when set (16, 24 or 32 bytes).
	SessionBlockKey []byte
	// Timeout bounds every request; zero means 5s.
	Timeout time.Duration
	// Registry receives the HTTP metrics and backs /metrics. A new registry
	// is used if nil.
	Registry *prometheus.Registry
	// BcryptCost is passed to the auth and user controllers.
	BcryptCost int
}

// Server is the HTTP handler of the development backend.
type Server struct {
	mux *web.Mux
}

func handle(handlerc xhandler.HandlerC) web.HandlerFunc {
	return func(c web.C, w http.ResponseWriter, r *http.Request) {
		ctx := middleware.WithURLParams(r.Context(), c.URLParams)
		handlerc.ServeHTTPC(ctx, w, r)
	}
}

// Obsolete pending pull request: https://github.com/rs/xhandler/pull/3
func handlerC(c xhandler.Chain, xh xhandler.HandlerC) xhandler.HandlerC {
	for i := len(c) - 1; i >= 0; i-- {
		xh = c[i](xh)
	}
	return xh
}

// New builds the router over m.
func New(m model.Model, cfg Config) *Server {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	session := &middleware.Session{}
	session.Init(cfg.SessionKey, cfg.SessionBlockKey)
	metrics := middleware.NewMetrics(cfg.Registry)

	// Middleware
	public := xhandler.Chain{}
	public.UseC(xhandler.TimeoutHandler(cfg.Timeout))
	public.UseC(middleware.JSONWrapper())
	public.UseC(session.Enable(sessionName))

	guest := append(xhandler.Chain{}, public...)
	guest.UseC(middleware.UnauthenticatedFilter())

	authed := append(xhandler.Chain{}, public...)
	authed.UseC(middleware.AuthenticatedFilter())
	authed.UseC(middleware.UserContext())

	route := func(chain xhandler.Chain, name string, h xhandler.HandlerC) web.HandlerFunc {
		c := append(xhandler.Chain{metrics.Route(name)}, chain...)
		return handle(handlerC(c, h))
	}

	auth := controller.NewAuthController(m.UserPeer())
	auth.Cost = cfg.BcryptCost
	posts := &controller.PostController{
		Model:         m.PostPeer(),
		Users:         m.UserPeer(),
		Notifications: m.NotificationPeer(),
	}
	users := &controller.UserController{
		Users:         m.UserPeer(),
		Notifications: m.NotificationPeer(),
		Cost:          cfg.BcryptCost,
	}
	notifications := &controller.NotificationController{Model: m.NotificationPeer()}

	// Router
	mux := web.New()
	mux.Post("/api/auth/signup", route(guest, "auth/signup", auth.Signup()))
	mux.Post("/api/auth/login", route(public, "auth/login", auth.Login()))
	mux.Post("/api/auth/logout", route(public, "auth/logout", auth.Logout()))
	mux.Get("/api/auth/me", route(authed, "auth/me", auth.Me()))

	mux.Get("/api/posts/all", route(authed, "posts/all", xhandler.HandlerFuncC(posts.Posts)))
	mux.Get("/api/posts/following", route(authed, "posts/following", xhandler.HandlerFuncC(posts.Following)))
	mux.Get("/api/posts/user/:username", route(authed, "posts/user", xhandler.HandlerFuncC(posts.UserPosts)))
	mux.Get("/api/posts/likes/:id", route(authed, "posts/likes", xhandler.HandlerFuncC(posts.Likes)))
	mux.Post("/api/posts/create", route(authed, "posts/create", xhandler.HandlerFuncC(posts.Create)))
	mux.Post("/api/posts/like/:id", route(authed, "posts/like", xhandler.HandlerFuncC(posts.Like)))
	mux.Post("/api/posts/comment/:id", route(authed, "posts/comment", xhandler.HandlerFuncC(posts.Comment)))
	mux.Delete("/api/posts/:id", route(authed, "posts/delete", xhandler.HandlerFuncC(posts.Remove)))

	mux.Get("/api/notifications", route(authed, "notifications/list", xhandler.HandlerFuncC(notifications.Notifications)))
	mux.Delete("/api/notifications", route(authed, "notifications/delete", xhandler.HandlerFuncC(notifications.DeleteAll)))

	mux.Get("/api/users/suggested", route(authed, "users/suggested", xhandler.HandlerFuncC(users.Suggested)))
	mux.Get("/api/users/profile/:username", route(authed, "users/profile", xhandler.HandlerFuncC(users.Profile)))
	mux.Post("/api/users/follow/:id", route(authed, "users/follow", xhandler.HandlerFuncC(users.Follow)))
	mux.Post("/api/users/update", route(authed, "users/update", xhandler.HandlerFuncC(users.Update)))

	mux.Get("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Not found"}`))
	})
	return &Server{mux: mux}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Infof("Listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
