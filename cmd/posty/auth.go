package main

import (
	"github.com/blang/posty/api"
	"github.com/spf13/cobra"
)

func newSignupCmd(a *app) *cobra.Command {
	var req api.SignupRequest
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Auth.Signup(cmd.Context(), req); err != nil {
				return err
			}
			return a.render.user(a.store.State().Auth.User)
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "", "username")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.FullName, "full-name", "", "full name")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var req api.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Auth.Login(cmd.Context(), req); err != nil {
				return err
			}
			return a.render.user(a.store.State().Auth.User)
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "", "username")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.store.Auth.Logout(cmd.Context())
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.whoami(cmd); err != nil {
				return err
			}
			return a.render.user(a.store.State().Auth.User)
		},
	}
}

func newProfileCmd(a *app) *cobra.Command {
	var req api.ProfileUpdate
	update := &cobra.Command{
		Use:   "update",
		Short: "Change your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Auth.UpdateProfile(cmd.Context(), req); err != nil {
				return err
			}
			return a.render.user(a.store.State().Auth.User)
		},
	}
	f := update.Flags()
	f.StringVar(&req.FullName, "full-name", "", "full name")
	f.StringVar(&req.Email, "email", "", "email address")
	f.StringVar(&req.Username, "username", "", "username")
	f.StringVar(&req.Bio, "bio", "", "bio")
	f.StringVar(&req.Link, "link", "", "link")
	f.StringVar(&req.ProfileImg, "profile-img", "", "profile image URL")
	f.StringVar(&req.CoverImg, "cover-img", "", "cover image URL")
	f.StringVar(&req.CurrentPassword, "current-password", "", "current password, required to change it")
	f.StringVar(&req.NewPassword, "new-password", "", "new password")

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your profile",
	}
	cmd.AddCommand(update)
	return cmd
}
