// Package store holds the client-side application state: one container per
// domain (auth, posts, notifications, users) combined under a Store.
//
// Every operation issues one remote call and moves its container through
// pending → fulfilled | rejected. Transitions are reducers applied under the
// store lock, so operations may be dispatched from any goroutine.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// State is the whole state tree.
type State struct {
	Auth          AuthState
	Posts         PostsState
	Notifications NotificationsState
	Users         UsersState
}

func (s State) clone() State {
	return State{
		Auth:          s.Auth.clone(),
		Posts:         s.Posts.clone(),
		Notifications: s.Notifications.clone(),
		Users:         s.Users.clone(),
	}
}

// Listener receives a snapshot after every transition, in transition order.
// Listeners run synchronously and may read the store, but must not dispatch
// operations themselves; start a goroutine for that.
type Listener func(State)

type Option func(*Store)

// WithNotifier sets the toast sink. The default logs through logrus.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithObserver installs a lifecycle observer, e.g. a PrometheusObserver.
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observer = o }
}

// WithLogger sets the logger used by the store and its containers.
func WithLogger(l *logrus.Entry) Option {
	return func(s *Store) { s.log = l }
}

// WithLatestFetchWins controls whether an older post fetch may overwrite the
// result of a newer one. Enabled by default.
func WithLatestFetchWins(enabled bool) Option {
	return func(s *Store) { s.latestFetchWins = enabled }
}

// Store is the aggregation root. It exclusively owns the container states.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
	closed    bool

	// deliver serializes transitions with their listener calls. Held
	// before mu.
	deliver sync.Mutex

	notifier        Notifier
	observer        Observer
	log             *logrus.Entry
	latestFetchWins bool

	Auth          *Auth
	Posts         *Posts
	Notifications *Notifications
	Users         *Users
}

// New creates a store talking to the remote API through a.
func New(a API, opts ...Option) *Store {
	s := &Store{
		listeners:       make(map[int]Listener),
		observer:        nopObserver{},
		latestFetchWins: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logrus.WithField("pkg", "store")
	}
	if s.notifier == nil {
		s.notifier = LogNotifier{Entry: s.log}
	}
	s.state.Posts.liking = make(map[string]int)
	s.Auth = &Auth{store: s, api: a, log: s.log.WithField("container", "auth")}
	s.Posts = &Posts{store: s, api: a, log: s.log.WithField("container", "posts")}
	s.Notifications = &Notifications{store: s, api: a, log: s.log.WithField("container", "notifications")}
	s.Users = &Users{store: s, api: a, log: s.log.WithField("container", "users")}
	return s
}

// State returns a snapshot of the state tree. It shares no memory with the
// store.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers l and returns a function removing it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Close tears the store down. Listeners are dropped and new operations fail
// with ErrClosed; calls already in flight still settle.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.listeners = make(map[int]Listener)
	s.mu.Unlock()
}

func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// update applies reduce to the state and delivers the snapshot.
func (s *Store) update(reduce func(*State)) {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	reduce(&s.state)
	if len(s.listeners) == 0 {
		s.mu.Unlock()
		return
	}
	snap := s.state.clone()
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.mu.Unlock()

	for _, l := range ls {
		l(snap)
	}
}

// run drives one operation through its lifecycle.
func run[T any](ctx context.Context, s *Store, op string,
	pending func(*State),
	call func(context.Context) (T, error),
	fulfilled func(*State, T),
	rejected func(*State, error),
) (T, error) {
	return runCommit(ctx, s, op, pending, call,
		func(st *State, v T) bool {
			fulfilled(st, v)
			return true
		},
		func(st *State, err error) bool {
			rejected(st, err)
			return true
		},
	)
}

// runCommit is run for operations whose reducers may drop a stale result.
// A dropped result is observed as PhaseSuperseded and returns ErrSuperseded.
func runCommit[T any](ctx context.Context, s *Store, op string,
	pending func(*State),
	call func(context.Context) (T, error),
	fulfilled func(*State, T) bool,
	rejected func(*State, error) bool,
) (T, error) {
	var zero T
	if s.isClosed() {
		return zero, ErrClosed
	}
	start := time.Now()
	s.update(pending)
	s.observer.Observe(op, PhasePending, 0)

	v, err := call(ctx)
	committed := true
	if err != nil {
		s.update(func(st *State) { committed = rejected(st, err) })
	} else {
		s.update(func(st *State) { committed = fulfilled(st, v) })
	}
	elapsed := time.Since(start)
	entry := s.log.WithFields(logrus.Fields{"op": op, "duration": elapsed})
	switch {
	case !committed:
		s.observer.Observe(op, PhaseSuperseded, elapsed)
		entry.Debug("superseded")
		return zero, ErrSuperseded
	case err != nil:
		s.observer.Observe(op, PhaseRejected, elapsed)
		entry.WithError(err).Debug("rejected")
		return zero, err
	}
	s.observer.Observe(op, PhaseFulfilled, elapsed)
	entry.Debug("fulfilled")
	return v, nil
}
