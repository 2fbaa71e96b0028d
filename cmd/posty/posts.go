package main

import (
	"fmt"

	"github.com/blang/posty/api"
	"github.com/blang/posty/store"
	"github.com/spf13/cobra"
)

func newFeedCmd(a *app) *cobra.Command {
	var feed, username, userID string
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show a feed",
		Long: `Show a feed. Types:
  forYou     every post
  following  posts of the users you follow
  posts      posts written by --user
  likes      posts liked by --user-id (default: you)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.whoami(cmd); err != nil {
				return err
			}
			q := api.FeedQuery{Feed: api.Feed(feed), Username: username, UserID: userID}
			if q.Feed == api.FeedLikes && q.UserID == "" {
				q.UserID = a.render.me
			}
			if _, err := store.NewFeedView(a.store.Posts).Update(cmd.Context(), q); err != nil {
				return err
			}
			return a.render.posts(a.store.State().Posts.Posts)
		},
	}
	cmd.Flags().StringVarP(&feed, "type", "t", string(api.FeedForYou), "feed type: forYou, following, posts or likes")
	cmd.Flags().StringVar(&username, "user", "", "author for the posts feed")
	cmd.Flags().StringVar(&userID, "user-id", "", "user id for the likes feed")
	return cmd
}

func newPostCmd(a *app) *cobra.Command {
	var np api.NewPost
	create := &cobra.Command{
		Use:   "create",
		Short: "Publish a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.store.Posts.Create(cmd.Context(), np)
			if err != nil {
				return err
			}
			if a.render.asYAML {
				return a.render.yaml(p)
			}
			fmt.Fprintln(a.render.w, a.render.post(*p))
			return nil
		},
	}
	create.Flags().StringVar(&np.Text, "text", "", "post text")
	create.Flags().StringVar(&np.Img, "img", "", "image URL")

	del := &cobra.Command{
		Use:   "delete POST_ID",
		Short: "Delete one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.store.Posts.Delete(cmd.Context(), args[0])
		},
	}

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Create or delete posts",
	}
	cmd.AddCommand(create, del)
	return cmd
}

// loadPost fetches the global feed so that id is part of the state.
func (a *app) loadPost(cmd *cobra.Command, id string) error {
	if err := a.whoami(cmd); err != nil {
		return err
	}
	if err := a.store.Posts.Fetch(cmd.Context(), api.FeedQuery{Feed: api.FeedForYou}); err != nil {
		return err
	}
	if _, ok := a.store.State().Posts.Find(id); !ok {
		return fmt.Errorf("post %s not found", id)
	}
	return nil
}

func (a *app) showPost(id string) error {
	p, _ := a.store.State().Posts.Find(id)
	if a.render.asYAML {
		return a.render.yaml(p)
	}
	fmt.Fprintln(a.render.w, a.render.post(p))
	return nil
}

func newLikeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "like POST_ID",
		Short: "Like or unlike a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadPost(cmd, args[0]); err != nil {
				return err
			}
			if err := a.store.Posts.Like(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.showPost(args[0])
		},
	}
}

func newCommentCmd(a *app) *cobra.Command {
	var text string
	cmd := &cobra.Command{
		Use:   "comment POST_ID",
		Short: "Comment on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadPost(cmd, args[0]); err != nil {
				return err
			}
			if err := a.store.Posts.Comment(cmd.Context(), args[0], text); err != nil {
				return err
			}
			return a.showPost(args[0])
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "comment text")
	cmd.MarkFlagRequired("text")
	return cmd
}
