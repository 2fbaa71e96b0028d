package store

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Follow follows userID and then refreshes the session and the suggestions.
// The refreshes run whether or not the follow succeeded; their errors are
// joined with the follow error.
func (s *Store) Follow(ctx context.Context, userID string) error {
	followErr := s.Users.Follow(ctx, userID)

	var g errgroup.Group
	g.Go(func() error { return s.Auth.Session(ctx) })
	g.Go(func() error { return s.Users.FetchSuggested(ctx) })
	return errors.Join(followErr, g.Wait())
}

// FollowStatus returns the target of the outstanding follow and whether any
// follow is pending.
func (s *Store) FollowStatus() (userID string, pending bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Users.FollowingUserID, s.state.Users.Follow.Pending()
}
