package store

import (
	"context"

	"github.com/blang/posty/api"
	"github.com/blang/posty/model"
	"github.com/sirupsen/logrus"
)

// NotificationsState is the notifications slice of the state tree.
type NotificationsState struct {
	Notifications []model.Notification
	Err           error
	Failed        bool

	Fetch     Lifecycle
	DeleteAll Lifecycle
}

func (s NotificationsState) Loading() bool {
	return s.Fetch.Pending() || s.DeleteAll.Pending()
}

func (s NotificationsState) clone() NotificationsState {
	if s.Notifications != nil {
		s.Notifications = append(make([]model.Notification, 0, len(s.Notifications)), s.Notifications...)
	}
	return s
}

func (s *NotificationsState) pending(l *Lifecycle) {
	l.start()
	s.Err = nil
	s.Failed = false
}

func (s *NotificationsState) rejected(l *Lifecycle, err error) {
	l.reject(err)
	s.Err = err
	s.Failed = true
}

func (s *NotificationsState) fetchFulfilled(ns []model.Notification) {
	s.Fetch.fulfill()
	s.Notifications = append([]model.Notification{}, ns...)
}

func (s *NotificationsState) deleteAllFulfilled() {
	s.DeleteAll.fulfill()
	s.Notifications = []model.Notification{}
}

// Notifications owns the current user's notification list.
type Notifications struct {
	store *Store
	api   NotificationsAPI
	log   *logrus.Entry
}

func (n *Notifications) Fetch(ctx context.Context) error {
	_, err := run(ctx, n.store, "notifications/fetch",
		func(st *State) { st.Notifications.pending(&st.Notifications.Fetch) },
		n.api.Notifications,
		func(st *State, ns []model.Notification) { st.Notifications.fetchFulfilled(ns) },
		func(st *State, err error) { st.Notifications.rejected(&st.Notifications.Fetch, err) },
	)
	if err != nil {
		n.store.notifier.Error(api.ServerMessage(err, "Failed to fetch notifications"))
	}
	return err
}

// DeleteAll removes every notification of the current user.
func (n *Notifications) DeleteAll(ctx context.Context) error {
	_, err := run(ctx, n.store, "notifications/deleteAll",
		func(st *State) { st.Notifications.pending(&st.Notifications.DeleteAll) },
		n.api.DeleteNotifications,
		func(st *State, _ string) { st.Notifications.deleteAllFulfilled() },
		func(st *State, err error) { st.Notifications.rejected(&st.Notifications.DeleteAll, err) },
	)
	if err != nil {
		n.store.notifier.Error(api.Message(err, "Failed to delete notifications"))
		return err
	}
	n.store.notifier.Success("Notifications deleted successfully")
	return nil
}
