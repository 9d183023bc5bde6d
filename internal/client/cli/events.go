package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iysravet/iyscli/internal/common"
)

// Events fetches and prints the published event list. The fetch is
// login-gated; anonymous users get a hint instead of a request.
func (a *App) Events(ctx context.Context) error {
	events, err := a.feed.Refresh(ctx)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUnauthorized):
			printlnFn("Please sign in first (use 'login').")
		case errors.Is(err, context.Canceled):
			// signed out mid-fetch, nothing to show
		default:
			printlnFn("Could not load events:", err)
		}
		return err
	}

	if len(events) == 0 {
		printlnFn("No events published yet.")
		return nil
	}

	for _, e := range events {
		window := "registration closed"
		if e.Registration.Open {
			window = "registration open"
		}
		if e.Registration.Label != "" {
			window = window + ", " + e.Registration.Label
		}
		printlnFn(fmt.Sprintf("%s  %s — %s  (%s)", e.Title, e.StartDate, e.EndDate, window))
	}
	return nil
}
