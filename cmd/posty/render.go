package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/blang/posty/model"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

var (
	colorAuthor = lipgloss.Color("#89b4fa")
	colorMuted  = lipgloss.Color("#7f849c")
	colorLike   = lipgloss.Color("#f38ba8")
	colorOK     = lipgloss.Color("#a6e3a1")

	authorStyle = lipgloss.NewStyle().Foreground(colorAuthor).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	likeStyle   = lipgloss.NewStyle().Foreground(colorLike)
	okStyle     = lipgloss.NewStyle().Foreground(colorOK)
	errStyle    = lipgloss.NewStyle().Foreground(colorLike).Bold(true)
	postStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

// renderer writes results either styled for a terminal or as YAML.
type renderer struct {
	w      io.Writer
	asYAML bool
	// me marks the logged in user's likes, may be empty.
	me string
}

func (r renderer) yaml(v interface{}) error {
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(v)
}

func (r renderer) posts(posts []model.Post) error {
	if r.asYAML {
		return r.yaml(posts)
	}
	if len(posts) == 0 {
		fmt.Fprintln(r.w, mutedStyle.Render("No posts yet"))
		return nil
	}
	for _, p := range posts {
		fmt.Fprintln(r.w, r.post(p))
	}
	return nil
}

func (r renderer) post(p model.Post) string {
	heart := "♡"
	if r.me != "" && p.LikedBy(r.me) {
		heart = "♥"
	}
	header := authorStyle.Render(p.User) + " " + mutedStyle.Render(p.CreatedAt.Format(time.DateTime))
	lines := []string{header, p.Text}
	if p.Img != "" {
		lines = append(lines, mutedStyle.Render("[img] "+p.Img))
	}
	for _, c := range p.Comments {
		lines = append(lines, mutedStyle.Render("  ↳ "+c.User+": ")+c.Text)
	}
	footer := likeStyle.Render(fmt.Sprintf("%s %d", heart, len(p.Likes))) + "  " +
		mutedStyle.Render(fmt.Sprintf("%d comments  id %s", len(p.Comments), p.ID))
	lines = append(lines, footer)
	return postStyle.Render(strings.Join(lines, "\n"))
}

func (r renderer) user(u *model.User) error {
	if u == nil {
		fmt.Fprintln(r.w, mutedStyle.Render("Not logged in"))
		return nil
	}
	if r.asYAML {
		return r.yaml(u)
	}
	fmt.Fprintln(r.w, authorStyle.Render("@"+u.Username)+" "+u.FullName)
	if u.Bio != "" {
		fmt.Fprintln(r.w, u.Bio)
	}
	if u.Link != "" {
		fmt.Fprintln(r.w, mutedStyle.Render(u.Link))
	}
	fmt.Fprintln(r.w, mutedStyle.Render(fmt.Sprintf("%d following  %d followers  id %s", len(u.Following), len(u.Followers), u.ID)))
	return nil
}

func (r renderer) users(users []model.User) error {
	if r.asYAML {
		return r.yaml(users)
	}
	if len(users) == 0 {
		fmt.Fprintln(r.w, mutedStyle.Render("No suggestions"))
		return nil
	}
	for _, u := range users {
		fmt.Fprintln(r.w, authorStyle.Render("@"+u.Username)+" "+u.FullName+" "+mutedStyle.Render(u.ID))
	}
	return nil
}

func (r renderer) notifications(ns []model.Notification) error {
	if r.asYAML {
		return r.yaml(ns)
	}
	if len(ns) == 0 {
		fmt.Fprintln(r.w, mutedStyle.Render("No notifications"))
		return nil
	}
	for _, n := range ns {
		var what string
		switch n.Type {
		case model.NotificationFollow:
			what = "followed you"
		case model.NotificationLike:
			what = "liked your post"
		default:
			what = string(n.Type)
		}
		fmt.Fprintln(r.w, authorStyle.Render(n.From)+" "+what+" "+mutedStyle.Render(n.CreatedAt.Format(time.DateTime)))
	}
	return nil
}

// toastPrinter shows store toasts on the terminal.
type toastPrinter struct {
	w io.Writer
}

func (t toastPrinter) Success(msg string) {
	fmt.Fprintln(t.w, okStyle.Render("✓ "+msg))
}

func (t toastPrinter) Error(msg string) {
	fmt.Fprintln(t.w, errStyle.Render("✗ "+msg))
}
