package confirmation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type linkRecorder struct {
	mu    sync.Mutex
	links []string
}

func (o *linkRecorder) handle(_ context.Context, link string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.links = append(o.links, link)

	return nil
}

func (o *linkRecorder) snapshot() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	return append([]string(nil), o.links...)
}

func TestWatcherDispatchesEachLinkOnce(t *testing.T) {
	poller, err := NewPoller(staticInbox(trustedEmail), ConfirmTrustedAddressPattern)
	require.NoError(t, err)

	recorder := &linkRecorder{}

	watcher := NewWatcher(poller, 5*time.Millisecond, 8)
	watcher.RegisterLinkHandler(recorder.handle)

	chStarted, err := watcher.Start()
	require.NoError(t, err)
	<-chStarted

	//
	// The same e-mail is returned by every poll; the link is still only handled once.
	//
	time.Sleep(60 * time.Millisecond)

	chStopped, err := watcher.Stop()
	require.NoError(t, err)

	select {
	case <-chStopped:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}

	assert.Equal(t, []string{"/users/confirmtrustedaddress/abc123"}, recorder.snapshot())
}

func TestWatcherSurvivesInboxErrors(t *testing.T) {
	var mu sync.Mutex
	calls := 0

	inbox := InboxFunc(func(_ context.Context, visit func(string)) error {
		mu.Lock()
		defer mu.Unlock()

		calls++
		if calls == 1 {
			return errors.New("temporary failure")
		}

		visit(trustedEmail)

		return nil
	})

	poller, err := NewPoller(inbox, ConfirmTrustedAddressPattern)
	require.NoError(t, err)

	recorder := &linkRecorder{}

	watcher := NewWatcher(poller, 5*time.Millisecond, 0)
	watcher.RegisterLinkHandler(recorder.handle)

	_, err = watcher.Start()
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(recorder.snapshot()) == 1
	}, 2*time.Second, 5*time.Millisecond)

	chStopped, err := watcher.Stop()
	require.NoError(t, err)
	<-chStopped
}

func TestWatcherLifecycleErrors(t *testing.T) {
	poller, err := NewPoller(staticInbox(), ConfirmTrustedAddressPattern)
	require.NoError(t, err)

	watcher := NewWatcher(poller, time.Hour, 1)

	_, err = watcher.Stop()
	assert.ErrorIs(t, err, ErrNotStarted)

	_, err = watcher.Start()
	require.NoError(t, err)

	_, err = watcher.Start()
	assert.ErrorIs(t, err, ErrAlreadyStarted)

	chStopped, err := watcher.Stop()
	require.NoError(t, err)
	<-chStopped
}
