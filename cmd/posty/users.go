package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newNotificationsCmd(a *app) *cobra.Command {
	var clearAll bool
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List or clear your notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if clearAll {
				return a.store.Notifications.DeleteAll(cmd.Context())
			}
			if err := a.store.Notifications.Fetch(cmd.Context()); err != nil {
				return err
			}
			return a.render.notifications(a.store.State().Notifications.Notifications)
		},
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete all notifications")
	return cmd
}

func newSuggestedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "suggested",
		Short: "Show users to follow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Users.FetchSuggested(cmd.Context()); err != nil {
				return err
			}
			return a.render.users(a.store.State().Users.Suggested)
		},
	}
}

func newUserCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "user USERNAME",
		Short: "Show a user's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Users.FetchProfile(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.render.user(a.store.State().Users.Profile)
		},
	}
}

func newFollowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "follow USER_ID",
		Short: "Follow or unfollow a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Follow(cmd.Context(), args[0]); err != nil {
				return err
			}
			st := a.store.State()
			if st.Auth.User != nil && st.Auth.User.Follows(args[0]) {
				fmt.Fprintln(a.render.w, okStyle.Render("Following "+args[0]))
			} else {
				fmt.Fprintln(a.render.w, okStyle.Render("Not following "+args[0]))
			}
			return a.render.users(st.Users.Suggested)
		},
	}
}
