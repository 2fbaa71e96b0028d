// Command posty is a terminal client for the posty social network.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/blang/posty/api"
	"github.com/blang/posty/config"
	"github.com/blang/posty/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app is the state shared by all commands of one invocation.
type app struct {
	cfg    config.Config
	client *api.Client
	store  *store.Store
	render renderer
	errOut io.Writer
}

type rootFlags struct {
	url         string
	output      string
	logLevel    string
	sessionFile string
}

func newRootCmd(out, errOut io.Writer) (*cobra.Command, *app) {
	a := &app{errOut: errOut}
	var flags rootFlags

	root := &cobra.Command{
		Use:           "posty",
		Short:         "Read and write posts from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, flags, out)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.url, "url", "", "API base URL (overrides backend.url)")
	pf.StringVarP(&flags.output, "output", "o", "text", "output format: text or yaml")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (overrides log.level)")
	pf.StringVar(&flags.sessionFile, "session-file", "", "session cookie file (overrides session.file)")

	root.AddCommand(
		newSignupCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newProfileCmd(a),
		newFeedCmd(a),
		newPostCmd(a),
		newLikeCmd(a),
		newCommentCmd(a),
		newNotificationsCmd(a),
		newSuggestedCmd(a),
		newUserCmd(a),
		newFollowCmd(a),
	)
	return root, a
}

// execute runs one invocation. The store is closed and the session saved even
// when the command fails.
func execute(out, errOut io.Writer, args []string) error {
	root, a := newRootCmd(out, errOut)
	if args != nil {
		root.SetArgs(args)
	}
	err := root.Execute()
	if terr := a.teardown(); err == nil {
		err = terr
	}
	return err
}

func (a *app) setup(cmd *cobra.Command, flags rootFlags, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("url") {
		cfg.Backend.URL = flags.url
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if cmd.Flags().Changed("session-file") {
		cfg.Session.File = flags.sessionFile
	}
	if flags.output != "text" && flags.output != "yaml" {
		return fmt.Errorf("unknown output format %q", flags.output)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.Log.ApplyLogging()
	logrus.SetOutput(a.errOut)

	client, err := api.New(api.Options{
		BaseURL:   cfg.Backend.URL,
		Timeout:   cfg.Backend.Timeout,
		RateLimit: cfg.Backend.RateLimit,
		Burst:     cfg.Backend.Burst,
	})
	if err != nil {
		return err
	}
	cookies, err := loadSession(cfg.Session.File, cfg.Backend.URL)
	if err != nil {
		return err
	}
	client.SetCookies(cookies)

	a.cfg = cfg
	a.client = client
	a.store = store.New(client,
		store.WithNotifier(toastPrinter{w: a.errOut}),
		store.WithLatestFetchWins(cfg.Store.LatestFetchWins),
		store.WithLogger(logrus.WithField("pkg", "store")),
	)
	a.render = renderer{w: out, asYAML: flags.output == "yaml"}
	return nil
}

func (a *app) teardown() error {
	if a.store == nil {
		return nil
	}
	a.store.Close()
	return saveSession(a.cfg.Session.File, a.cfg.Backend.URL, a.client.Cookies())
}

// whoami loads the session user and remembers it for rendering likes.
func (a *app) whoami(cmd *cobra.Command) error {
	if err := a.store.Auth.Session(cmd.Context()); err != nil {
		return err
	}
	if u := a.store.State().Auth.User; u != nil {
		a.render.me = u.ID
	}
	return nil
}

func main() {
	if err := execute(os.Stdout, os.Stderr, nil); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
