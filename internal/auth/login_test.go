package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanickcuello/linkedin-people-scrapper/internal/models"
)

func creds() models.Credentials {
	return models.Credentials{Username: "user@example.com", Password: "secret"}
}

// fakeProbes wires a Manager whose outcomes are scripted instead of driven
// by a live browser.
type fakeProbes struct {
	submitErrs  []error
	loggedIn    bool
	challenged  bool
	rejected    bool
	clearAfter  int // challenge polls before it reports cleared
	submitCalls int
	feedCalls   int
}

func (f *fakeProbes) manager() *Manager {
	m := NewManager()
	m.ChallengeTimeout = 100 * time.Millisecond
	m.PollInterval = 5 * time.Millisecond
	m.submit = func(ctx context.Context, _ models.Credentials) error {
		f.submitCalls++
		if len(f.submitErrs) > 0 {
			err := f.submitErrs[0]
			f.submitErrs = f.submitErrs[1:]
			return err
		}
		return nil
	}
	m.loggedIn = func(ctx context.Context) (bool, error) { return f.loggedIn, nil }
	m.challenged = func(ctx context.Context) (bool, error) {
		if !f.challenged {
			return false, nil
		}
		if f.clearAfter > 0 {
			f.clearAfter--
			return true, nil
		}
		if f.clearAfter == 0 && f.loggedIn {
			return false, nil
		}
		return true, nil
	}
	m.rejected = func(ctx context.Context) (bool, error) { return f.rejected, nil }
	m.gotoFeed = func(ctx context.Context) error {
		f.feedCalls++
		return nil
	}
	return m
}

func TestAuthenticate_Success(t *testing.T) {
	f := &fakeProbes{loggedIn: true}

	state, err := f.manager().Authenticate(context.Background(), creds(), false)

	require.NoError(t, err)
	assert.Equal(t, models.Authenticated, state)
	assert.Equal(t, 1, f.submitCalls)
	assert.Equal(t, 1, f.feedCalls)
}

func TestAuthenticate_RejectedCredentials(t *testing.T) {
	f := &fakeProbes{rejected: true}

	state, err := f.manager().Authenticate(context.Background(), creds(), false)

	assert.Equal(t, models.SessionFailed, state)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, ReasonRejected, authErr.Reason)
}

func TestAuthenticate_TransportFaultRetriesOnce(t *testing.T) {
	f := &fakeProbes{
		loggedIn:   true,
		submitErrs: []error{errors.New("connection reset")},
	}

	state, err := f.manager().Authenticate(context.Background(), creds(), false)

	require.NoError(t, err)
	assert.Equal(t, models.Authenticated, state)
	assert.Equal(t, 2, f.submitCalls)
}

func TestAuthenticate_TransportFaultExhaustsRetry(t *testing.T) {
	f := &fakeProbes{
		submitErrs: []error{errors.New("reset"), errors.New("reset again")},
	}

	state, err := f.manager().Authenticate(context.Background(), creds(), false)

	assert.Equal(t, models.SessionFailed, state)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, ReasonUnreachable, authErr.Reason)
	assert.Equal(t, 2, f.submitCalls)
}

func TestAuthenticate_ChallengeInHeadlessFailsImmediately(t *testing.T) {
	f := &fakeProbes{challenged: true, clearAfter: -1}

	start := time.Now()
	state, err := f.manager().Authenticate(context.Background(), creds(), true)

	assert.Equal(t, models.SessionFailed, state)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, ReasonChallengeTimeout, authErr.Reason)
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestAuthenticate_ChallengeResolvedManually(t *testing.T) {
	f := &fakeProbes{challenged: true, loggedIn: true, clearAfter: 3}

	state, err := f.manager().Authenticate(context.Background(), creds(), false)

	require.NoError(t, err)
	assert.Equal(t, models.Authenticated, state)
}

func TestAuthenticate_ChallengeTimeout(t *testing.T) {
	f := &fakeProbes{challenged: true, clearAfter: -1}

	state, err := f.manager().Authenticate(context.Background(), creds(), false)

	assert.Equal(t, models.SessionFailed, state)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, ReasonChallengeTimeout, authErr.Reason)
}

func TestAuthenticate_UnknownPageTreatedAsRejected(t *testing.T) {
	f := &fakeProbes{}

	state, err := f.manager().Authenticate(context.Background(), creds(), false)

	assert.Equal(t, models.SessionFailed, state)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, ReasonRejected, authErr.Reason)
}

func TestAuthenticate_CancelledDuringChallenge(t *testing.T) {
	f := &fakeProbes{challenged: true, clearAfter: -1}
	m := f.manager()
	m.ChallengeTimeout = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	state, err := m.Authenticate(ctx, creds(), false)

	assert.Equal(t, models.SessionFailed, state)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}
