// Package auth owns the authenticated browsing context and the login state
// machine. The session it establishes is lent to the orchestrator for the
// rest of the run; no other component opens one.
package auth

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/shanickcuello/linkedin-people-scrapper/internal/models"
)

const (
	loginURL = "https://www.linkedin.com/login"
	feedURL  = "https://www.linkedin.com/feed/"
)

// AuthError reasons surfaced to the top level.
const (
	ReasonRejected         = "rejected"
	ReasonUnreachable      = "unreachable"
	ReasonChallengeTimeout = "challenge-timeout"
)

// AuthError ends the run; login problems are never retried beyond the single
// bounded transport retry inside Authenticate.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication failed (%s)", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Manager drives the login state machine:
// Unauthenticated -> Submitting -> {Authenticated, ChallengeRequired, Failed}.
// The probe funcs are fixed chromedp implementations; tests swap them out.
type Manager struct {
	ChallengeTimeout time.Duration
	PollInterval     time.Duration

	submit     func(ctx context.Context, creds models.Credentials) error
	loggedIn   func(ctx context.Context) (bool, error)
	challenged func(ctx context.Context) (bool, error)
	rejected   func(ctx context.Context) (bool, error)
	gotoFeed   func(ctx context.Context) error
}

// NewManager creates a Manager with chromedp-backed probes.
func NewManager() *Manager {
	return &Manager{
		ChallengeTimeout: 3 * time.Minute,
		PollInterval:     5 * time.Second,
		submit:           submitCredentials,
		loggedIn:         isLoggedIn,
		challenged:       isChallenged,
		rejected:         isRejected,
		gotoFeed:         navigateToFeed,
	}
}

// Authenticate submits the credentials and resolves the resulting state.
// A transport fault during submission gets exactly one retry. In headless
// mode a secondary-verification prompt fails immediately; otherwise the
// manager polls up to ChallengeTimeout for the operator to clear it in the
// visible browser.
func (m *Manager) Authenticate(ctx context.Context, creds models.Credentials, headless bool) (models.SessionState, error) {
	log.Printf("session: %s -> %s", models.Unauthenticated, models.Submitting)

	err := m.submit(ctx, creds)
	if err != nil {
		log.Printf("session: submit fault, retrying once: %v", err)
		if err = m.submit(ctx, creds); err != nil {
			return models.SessionFailed, &AuthError{Reason: ReasonUnreachable, Err: err}
		}
	}

	challenged, err := m.challenged(ctx)
	if err != nil {
		return models.SessionFailed, &AuthError{Reason: ReasonUnreachable, Err: err}
	}
	if challenged {
		log.Printf("session: %s -> %s", models.Submitting, models.ChallengeRequired)
		return m.awaitChallenge(ctx, headless)
	}

	ok, err := m.loggedIn(ctx)
	if err != nil {
		return models.SessionFailed, &AuthError{Reason: ReasonUnreachable, Err: err}
	}
	if ok {
		return m.finish(ctx)
	}

	rejected, err := m.rejected(ctx)
	if err != nil {
		return models.SessionFailed, &AuthError{Reason: ReasonUnreachable, Err: err}
	}
	if rejected {
		return models.SessionFailed, &AuthError{Reason: ReasonRejected}
	}

	// Neither feed, challenge nor error banner: treat as rejected rather
	// than guessing at an unknown page.
	return models.SessionFailed, &AuthError{Reason: ReasonRejected}
}

// awaitChallenge polls for the verification surface to clear. The wait is
// bounded: worst case is ChallengeTimeout, never an indefinite block.
func (m *Manager) awaitChallenge(ctx context.Context, headless bool) (models.SessionState, error) {
	if headless {
		return models.SessionFailed, &AuthError{
			Reason: ReasonChallengeTimeout,
			Err:    fmt.Errorf("verification challenge in headless mode has no surface for manual resolution"),
		}
	}

	log.Printf("session: verification challenge detected, resolve it in the browser (waiting up to %s)", m.ChallengeTimeout)

	deadline := time.NewTimer(m.ChallengeTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(m.PollInterval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return models.SessionFailed, &AuthError{Reason: ReasonChallengeTimeout, Err: ctx.Err()}
		case <-deadline.C:
			return models.SessionFailed, &AuthError{Reason: ReasonChallengeTimeout}
		case <-tick.C:
			challenged, err := m.challenged(ctx)
			if err != nil {
				continue
			}
			if challenged {
				continue
			}
			ok, err := m.loggedIn(ctx)
			if err != nil || !ok {
				continue
			}
			return m.finish(ctx)
		}
	}
}

func (m *Manager) finish(ctx context.Context) (models.SessionState, error) {
	if err := m.gotoFeed(ctx); err != nil {
		return models.SessionFailed, &AuthError{Reason: ReasonUnreachable, Err: err}
	}
	log.Printf("session: %s", models.Authenticated)
	return models.Authenticated, nil
}

// submitCredentials fills the login form and submits it.
func submitCredentials(ctx context.Context, creds models.Credentials) error {
	return chromedp.Run(ctx,
		chromedp.Navigate(loginURL),
		chromedp.WaitVisible(`#username`, chromedp.ByQuery),
		chromedp.SetValue(`#username`, creds.Username, chromedp.ByQuery),
		chromedp.SetValue(`#password`, creds.Password, chromedp.ByQuery),
		chromedp.Click(`button[data-litms-control-urn="login-submit"], button[type="submit"]`, chromedp.ByQuery),
		chromedp.Sleep(3*time.Second),
	)
}

// isLoggedIn reports whether the session landed on an authenticated surface.
func isLoggedIn(ctx context.Context) (bool, error) {
	var ok bool
	err := chromedp.Run(ctx, chromedp.Evaluate(`(() => {
		if ((location.href || "").includes("/feed/")) return true;
		return document.querySelector('input[placeholder*="Search"], .global-nav__me') !== null;
	})()`, &ok))
	return ok, err
}

// isChallenged detects the checkpoint/captcha verification surfaces.
func isChallenged(ctx context.Context) (bool, error) {
	var ok bool
	err := chromedp.Run(ctx, chromedp.Evaluate(`(() => {
		const href = location.href || "";
		if (href.includes("/checkpoint/challenge/")) return true;
		return document.querySelector('iframe[src*="captcha"], iframe[src*="challenge"], input[autocomplete="one-time-code"]') !== null;
	})()`, &ok))
	return ok, err
}

// isRejected detects the credential error banners on the login form.
func isRejected(ctx context.Context) (bool, error) {
	var ok bool
	err := chromedp.Run(ctx, chromedp.Evaluate(`(() => {
		const el = document.querySelector('#error-for-username, #error-for-password');
		return el !== null && el.textContent.trim() !== "";
	})()`, &ok))
	return ok, err
}

func navigateToFeed(ctx context.Context) error {
	return chromedp.Run(ctx,
		chromedp.Navigate(feedURL),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
	)
}
