package cli

import (
	"context"

	"github.com/dmitrijs2005/blogsync/internal/client/models"
)

// Register prompts for a username, email and password and creates an
// account. It does not sign in.
func (a *App) Register(ctx context.Context, _ []string) error {
	ask := a.ask()
	username, err := ask.line("Username")
	if err != nil {
		return err
	}
	email, err := ask.line("Email")
	if err != nil {
		return err
	}
	password, err := ask.password()
	if err != nil {
		return err
	}
	defer wipe(password)

	req := models.RegisterRequest{Username: username, Email: email, Password: string(password)}
	if err := a.session.Register(ctx, req); err != nil {
		a.println(describeError(err))
		return err
	}

	a.println("Account created, you can log in now")
	return nil
}

// Login prompts for credentials and signs in. On failure the previous
// session, if any, stays active.
func (a *App) Login(ctx context.Context, _ []string) error {
	ask := a.ask()
	email, err := ask.line("Email")
	if err != nil {
		return err
	}
	password, err := ask.password()
	if err != nil {
		return err
	}
	defer wipe(password)

	sess, err := a.session.Login(ctx, email, string(password))
	if err != nil {
		a.log.Warn(ctx, "login failed", "error", err)
		a.println(describeError(err))
		return err
	}

	a.printf("Signed in as %s\n", displayName(sess.Identity))
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	a.session.Logout(ctx)
	a.form.Reset()
	a.lastFailed = nil
	a.println("Signed out")
	return nil
}

func (a *App) Whoami(ctx context.Context, _ []string) error {
	sess := a.session.Current()
	if sess == nil {
		a.println("Not signed in")
		return nil
	}
	id := sess.Identity
	a.printf("%s <%s> role=%s\n", displayName(id), id.Email, id.Role)
	return nil
}
