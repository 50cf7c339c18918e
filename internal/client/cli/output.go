package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/blogsync/internal/client/models"
	"github.com/dmitrijs2005/blogsync/internal/common"
)

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// describeError turns an error into the line shown to the user.
func describeError(err error) string {
	var authErr *common.AuthError
	var statusErr *common.StatusError
	switch {
	case errors.As(err, &authErr):
		return authErr.Error()
	case errors.Is(err, common.ErrAuthRequired):
		return "Please log in first"
	case errors.Is(err, common.ErrDuplicateComment),
		errors.Is(err, common.ErrNoRecipients),
		errors.Is(err, common.ErrValidation):
		return err.Error()
	case errors.Is(err, common.ErrStaleResponseDiscarded):
		return "The data changed while loading, try again"
	case errors.Is(err, common.ErrNetwork):
		return "Server unreachable, check your connection"
	case errors.As(err, &statusErr) && statusErr.Status == 404:
		return "Not found"
	}
	return "Error: " + err.Error()
}

func commentCount(p models.Post) string {
	n, known := p.CommentCount()
	if !known {
		return "?"
	}
	return strconv.Itoa(n)
}

func renderPostLine(w io.Writer, p models.Post) {
	fmt.Fprintf(w, "  [%s] %s by %s (%d claps, %s comments)\n", p.ID, p.Title, authorOf(p.Author), p.ClapCount, commentCount(p))
}

func renderPost(w io.Writer, p models.Post, subject string) {
	fmt.Fprintf(w, "%s\n", p.Title)
	fmt.Fprintf(w, "by %s", authorOf(p.Author))
	if !p.CreatedAt.IsZero() {
		fmt.Fprintf(w, " on %s", p.CreatedAt.Format("2006-01-02"))
	}
	fmt.Fprintln(w)

	clapped := ""
	if subject != "" && p.HasClapped(subject) {
		clapped = " (you clapped)"
	}
	fmt.Fprintf(w, "%d claps%s, %s comments\n\n", p.ClapCount, clapped, commentCount(p))
	fmt.Fprintln(w, p.Content)

	if len(p.Comments) > 0 {
		fmt.Fprintln(w, "\nComments:")
		for _, c := range p.Comments {
			fmt.Fprintf(w, "  %s: %s\n", authorOf(c.Author), c.Content)
		}
	}
}

func renderDraftLine(w io.Writer, d models.Draft) {
	shared := ""
	if len(d.SharedWith) > 0 {
		shared = " shared with " + strings.Join(d.SharedWith, ", ")
	}
	fmt.Fprintf(w, "  [%s] %s (by %s%s)\n", d.ID, d.Title, authorOf(d.CreatedBy), shared)
}

func renderForm(w io.Writer, f models.DraftForm) {
	id := f.ID
	if id == "" {
		id = "new"
	}
	fmt.Fprintf(w, "Draft [%s]\n", id)
	fmt.Fprintf(w, "  Title:   %s\n", f.Title)
	fmt.Fprintf(w, "  Author:  %s %s <%s>\n", f.Author.FirstName, f.Author.LastName, f.Author.Email)
	fmt.Fprintf(w, "  Content: %s\n", f.Content)
}

func authorOf(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
