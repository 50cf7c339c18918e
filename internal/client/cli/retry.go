package cli

import (
	"context"

	"github.com/dmitrijs2005/blogsync/internal/client/retry"
)

func (a *App) retryBudget() int {
	if a.config == nil || a.config.RetryMaxAttempts <= 0 {
		return retry.DefaultPolicy().MaxAttempts
	}
	return a.config.RetryMaxAttempts
}

// read runs a read command. A transient failure can be retried by hand
// with the retry command.
func (a *App) read(ctx context.Context, name string, run func(ctx context.Context) error) error {
	err := run(ctx)
	if err == nil {
		a.lastFailed = nil
		return nil
	}

	switch retry.Classify(err) {
	case retry.KindNetwork, retry.KindServer, retry.KindDecode:
		fr := &failedRead{name: name, run: run, budget: retry.NewBudget(a.retryBudget())}
		a.lastFailed = fr
		a.printf("%s (type 'retry' to try again, %d attempts left)\n", describeError(err), fr.budget.Remaining())
	default:
		a.lastFailed = nil
		a.println(describeError(err))
	}
	return err
}

// Retry re-runs the last failed read while its budget lasts.
func (a *App) Retry(ctx context.Context, _ []string) error {
	fr := a.lastFailed
	if fr == nil {
		a.println("Nothing to retry")
		return nil
	}
	if !fr.budget.Use() {
		a.lastFailed = nil
		a.printf("No retries left for %s\n", fr.name)
		return nil
	}

	err := fr.run(ctx)
	if err == nil {
		a.lastFailed = nil
		return nil
	}

	left := fr.budget.Remaining()
	if left == 0 {
		a.lastFailed = nil
		a.printf("%s (no retries left)\n", describeError(err))
		return err
	}
	a.printf("%s (%d attempts left)\n", describeError(err), left)
	return err
}
