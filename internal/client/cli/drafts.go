package cli

import (
	"context"
	"slices"
	"strings"

	"github.com/dmitrijs2005/blogsync/internal/client/drafts"
	"github.com/dmitrijs2005/blogsync/internal/client/models"
	"github.com/dmitrijs2005/blogsync/internal/client/services"
)

// Drafts lists drafts: drafts [all|mine|shared] [search text].
func (a *App) Drafts(ctx context.Context, args []string) error {
	q := services.DraftQuery{}
	if len(args) > 0 {
		by, err := drafts.ParseFilter(args[0])
		if err != nil {
			return a.usage("drafts [all|mine|shared] [search text]")
		}
		q.By = by
		q.Query = strings.Join(args[1:], " ")
	}

	return a.read(ctx, "drafts", func(ctx context.Context) error {
		list, err := a.drafts.Drafts(ctx, q)
		if err != nil {
			return err
		}
		a.setView(q)
		a.printf("Drafts (%s):\n", q.By)
		if len(list) == 0 {
			a.println("  (none)")
		}
		for _, d := range list {
			renderDraftLine(a.out, d)
		}
		return nil
	})
}

// New starts a fresh draft in the editor.
func (a *App) New(ctx context.Context, _ []string) error {
	f := models.DraftForm{}
	if err := a.fillForm(&f); err != nil {
		return err
	}
	a.form = f
	renderForm(a.out, a.form)
	return nil
}

// Edit loads a listed draft into the editor and lets the user change it.
func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("edit <draft id>")
	}
	listed := a.drafts.Listed(a.currentView())
	i := slices.IndexFunc(listed, func(d models.Draft) bool { return d.ID == args[0] })
	if i < 0 {
		a.println("Draft not listed, run 'drafts' first")
		return nil
	}

	f := models.FormFromDraft(listed[i])
	if err := a.fillForm(&f); err != nil {
		return err
	}
	a.form = f
	renderForm(a.out, a.form)
	return nil
}

// fillForm prompts for each field; an empty answer keeps the current value.
func (a *App) fillForm(f *models.DraftForm) error {
	ask := a.ask()
	for _, fld := range []struct {
		label string
		dst   *string
	}{
		{"Title", &f.Title},
		{"Author first name", &f.Author.FirstName},
		{"Author last name", &f.Author.LastName},
		{"Author email", &f.Author.Email},
	} {
		v, err := ask.field(fld.label, *fld.dst)
		if err != nil {
			return err
		}
		*fld.dst = v
	}

	body, err := ask.text("Content")
	if err != nil {
		return err
	}
	if body != "" {
		f.Content = body
	}
	return nil
}

// Form shows the draft currently in the editor.
func (a *App) Form(ctx context.Context, _ []string) error {
	renderForm(a.out, a.form)
	return nil
}

func (a *App) Save(ctx context.Context, _ []string) error {
	d, err := a.drafts.Save(ctx, &a.form)
	if err != nil {
		a.println(describeError(err))
		return err
	}
	if d != nil && d.ID != "" {
		a.printf("Draft %s saved\n", d.ID)
	} else {
		a.println("Draft saved")
	}
	return nil
}

func (a *App) Publish(ctx context.Context, _ []string) error {
	p, err := a.drafts.Publish(ctx, &a.form)
	if err != nil {
		a.println(describeError(err))
		return err
	}
	if p != nil && p.ID != "" {
		a.printf("Published as post %s\n", p.ID)
	} else {
		a.println("Published")
	}
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("delete <draft id>")
	}
	if err := a.drafts.Delete(ctx, a.currentView(), args[0]); err != nil {
		a.println(describeError(err))
		return err
	}
	a.println("Draft deleted")
	return nil
}

// Share sends a draft to admins: share <draft id> <admin id>...
func (a *App) Share(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return a.usage("share <draft id> <admin id>...")
	}
	if err := a.drafts.Share(ctx, args[0], args[1:]); err != nil {
		a.println(describeError(err))
		return err
	}
	a.printf("Draft %s shared with %s\n", args[0], strings.Join(args[1:], ", "))
	return nil
}

// Admins lists the users a draft can be shared with.
func (a *App) Admins(ctx context.Context, _ []string) error {
	return a.read(ctx, "admins", func(ctx context.Context) error {
		users, err := a.drafts.Admins(ctx)
		if err != nil {
			return err
		}
		a.println("Admins:")
		for _, u := range users {
			a.printf("  [%s] %s <%s>\n", u.ID, u.Username, u.Email)
		}
		return nil
	})
}
