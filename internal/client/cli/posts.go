package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogsync/internal/client/models"
)

var errUsage = errors.New("usage")

func (a *App) usage(text string) error {
	a.println("Usage:", text)
	return errUsage
}

func (a *App) subject() string {
	if sess := a.session.Current(); sess != nil {
		return sess.Identity.Subject
	}
	return ""
}

// Post shows a single post.
func (a *App) Post(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("post <id>")
	}
	id := args[0]
	return a.read(ctx, "post "+id, func(ctx context.Context) error {
		p, err := a.posts.Post(ctx, id)
		if err != nil {
			return err
		}
		a.watchPost(id)
		renderPost(a.out, p, a.subject())
		return nil
	})
}

func (a *App) Recent(ctx context.Context, _ []string) error {
	return a.listPosts(ctx, "Recent posts", a.posts.Recent)
}

func (a *App) Featured(ctx context.Context, _ []string) error {
	return a.listPosts(ctx, "Featured posts", a.posts.Featured)
}

func (a *App) Trending(ctx context.Context, _ []string) error {
	return a.listPosts(ctx, "Trending posts", a.posts.Trending)
}

func (a *App) listPosts(ctx context.Context, title string, load func(context.Context) ([]models.Post, error)) error {
	return a.read(ctx, title, func(ctx context.Context) error {
		posts, err := load(ctx)
		if err != nil {
			return err
		}
		a.println(title + ":")
		if len(posts) == 0 {
			a.println("  (none)")
		}
		for _, p := range posts {
			renderPostLine(a.out, p)
		}
		return nil
	})
}

// Clap toggles the user's clap on a post.
func (a *App) Clap(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("clap <post id>")
	}
	a.watchPost(args[0])
	if err := a.posts.ToggleClap(ctx, args[0]); err != nil {
		a.println(describeError(err))
		return err
	}
	a.println("Done")
	return nil
}

// Comment prompts for a comment body and posts it.
func (a *App) Comment(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("comment <post id>")
	}
	text, err := a.ask().text("Comment")
	if err != nil {
		return err
	}
	a.watchPost(args[0])
	if _, err := a.posts.AddComment(ctx, args[0], text); err != nil {
		a.println(describeError(err))
		return err
	}
	a.println(fmt.Sprintf("Comment added to %s", args[0]))
	return nil
}
