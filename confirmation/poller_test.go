package confirmation

import (
	"context"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	trustedEmail = `<html><body><p>Hello,</p>` +
		`<a href="https://www.cryptsy.com/users/confirmtrustedaddress/abc123">Confirm</a></body></html>`
	unrelatedEmail = `<html><body><a href="https://www.cryptsy.com/news">Read the news</a></body></html>`
)

func staticInbox(bodies ...string) Inbox {
	return InboxFunc(func(_ context.Context, visit func(string)) error {
		for _, body := range bodies {
			visit(body)
		}

		return nil
	})
}

func TestRunOnceFindsMatchingLinks(t *testing.T) {
	poller, err := NewPoller(staticInbox(trustedEmail, unrelatedEmail), ConfirmTrustedAddressPattern)
	require.NoError(t, err)

	links, err := poller.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/users/confirmtrustedaddress/abc123"}, links)
}

func TestRunOnceKeepsVisitOrder(t *testing.T) {
	first := `<a href="https://www.cryptsy.com/users/confirmwithdrawal/1">one</a>` +
		`<a href="https://www.cryptsy.com/users/confirmwithdrawal/2">two</a>`
	second := `<div><a href="https://www.cryptsy.com/users/confirmwithdrawal/3">three</a></div>`

	poller, err := NewPoller(staticInbox(first, unrelatedEmail, second), ConfirmWithdrawalPattern)
	require.NoError(t, err)

	links, err := poller.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/users/confirmwithdrawal/1",
		"/users/confirmwithdrawal/2",
		"/users/confirmwithdrawal/3",
	}, links)
}

func TestRunOnceNothingFound(t *testing.T) {
	poller, err := NewPoller(staticInbox(unrelatedEmail), ConfirmTrustedAddressPattern)
	require.NoError(t, err)

	links, err := poller.RunOnce(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, links)
	assert.Empty(t, links)
}

func TestRunOnceIgnoresLinksOnOtherHosts(t *testing.T) {
	phish := `<a href="https://evil.example.com/users/confirmtrustedaddress/abc123">Confirm</a>`

	poller, err := NewPoller(staticInbox(phish), ConfirmTrustedAddressPattern)
	require.NoError(t, err)

	links, err := poller.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestRunOncePropagatesInboxError(t *testing.T) {
	failure := errors.New("mailbox unavailable")
	inbox := InboxFunc(func(context.Context, func(string)) error { return failure })

	poller, err := NewPoller(inbox, ConfirmTrustedAddressPattern)
	require.NoError(t, err)

	links, err := poller.RunOnce(context.Background())
	assert.Nil(t, links)
	assert.ErrorIs(t, err, failure)
}

func TestNewPollerRequiresCaptureGroup(t *testing.T) {
	_, err := NewPoller(staticInbox(), regexp.MustCompile(`^https://www\.cryptsy\.com/users/.*`))
	assert.ErrorIs(t, err, ErrNoCaptureGroup)
}

func TestRunUntilFoundStopsOnFirstHit(t *testing.T) {
	var calls int32

	inbox := InboxFunc(func(_ context.Context, visit func(string)) error {
		if atomic.AddInt32(&calls, 1) >= 3 {
			visit(trustedEmail)
		}

		return nil
	})

	poller, err := NewPoller(inbox, ConfirmTrustedAddressPattern)
	require.NoError(t, err)

	links, err := poller.RunUntilFound(context.Background(), 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, []string{"/users/confirmtrustedaddress/abc123"}, links)

	//
	// No further polling happens once the call has returned.
	//
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRunUntilFoundHonorsCancellation(t *testing.T) {
	poller, err := NewPoller(staticInbox(unrelatedEmail), ConfirmTrustedAddressPattern)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	started := time.Now()
	links, err := poller.RunUntilFound(ctx, time.Hour)

	assert.Nil(t, links)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(started), 5*time.Second)
}

func TestRunUntilFoundTerminatesOnInboxError(t *testing.T) {
	var calls int32

	failure := errors.New("login rejected")
	inbox := InboxFunc(func(context.Context, func(string)) error {
		if atomic.AddInt32(&calls, 1) == 2 {
			return failure
		}

		return nil
	})

	poller, err := NewPoller(inbox, ConfirmTrustedAddressPattern)
	require.NoError(t, err)

	_, err = poller.RunUntilFound(context.Background(), 5*time.Millisecond)
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestPatternFor(t *testing.T) {
	pattern, ok := PatternFor("withdrawal")
	require.True(t, ok)
	assert.Same(t, ConfirmWithdrawalPattern, pattern)

	pattern, ok = PatternFor("trusted")
	require.True(t, ok)
	assert.Same(t, ConfirmTrustedAddressPattern, pattern)

	_, ok = PatternFor("deposit")
	assert.False(t, ok)
}
