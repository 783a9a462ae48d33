package imap

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	goimap "github.com/emersion/go-imap"
	"github.com/emersion/go-imap/backend/memory"
	"github.com/emersion/go-imap/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUsername = "username"
	testPassword = "password"
)

//
// mailServer runs an in-memory IMAPS server for the duration of a test.
//
type mailServer struct {
	addr    string
	mailbox *memory.Mailbox
}

func newMailServer(t *testing.T) *mailServer {
	t.Helper()

	be := memory.New()

	user, err := be.Login(nil, testUsername, testPassword)
	require.NoError(t, err)

	mbox, err := user.GetMailbox(DefaultMailbox)
	require.NoError(t, err)

	// The memory backend seeds its inbox with a single read message, which is dropped here so that
	// each test starts empty.
	mailbox := mbox.(*memory.Mailbox)
	mailbox.Messages = nil

	// Borrow httptest's self-signed certificate for the TLS listener.
	certs := httptest.NewUnstartedServer(nil)
	certs.StartTLS()
	t.Cleanup(certs.Close)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := server.New(be)
	srv.AllowInsecureAuth = true

	go func() {
		_ = srv.Serve(tls.NewListener(listener, &tls.Config{Certificates: certs.TLS.Certificates}))
	}()

	t.Cleanup(func() { _ = srv.Close() })

	return &mailServer{addr: listener.Addr().String(), mailbox: mailbox}
}

func (o *mailServer) deliver(t *testing.T, from string, link string, flags ...string) {
	t.Helper()

	raw := crlf(fmt.Sprintf(`From: %s
To: someone@example.com
Subject: Confirm Trusted Address
Content-Type: text/html; charset=utf-8

<a href="%s">Confirm</a>
`, from, link))

	require.NoError(t, o.mailbox.CreateMessage(flags, time.Now(), bytes.NewBufferString(raw)))
}

func (o *mailServer) seen() []bool {
	seen := make([]bool, 0, len(o.mailbox.Messages))

	for _, msg := range o.mailbox.Messages {
		flagged := false

		for _, flag := range msg.Flags {
			if flag == goimap.SeenFlag {
				flagged = true
			}
		}

		seen = append(seen, flagged)
	}

	return seen
}

func (o *mailServer) dial(t *testing.T, peek bool) *Inbox {
	t.Helper()

	inbox, err := Dial(context.Background(), Config{
		Addr:     o.addr,
		Username: testUsername,
		Password: testPassword,
		Peek:     peek,
		TLS:      &tls.Config{InsecureSkipVerify: true},
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = inbox.Logout() })

	return inbox
}

func walk(t *testing.T, ctx context.Context, inbox *Inbox) ([]string, error) {
	t.Helper()

	var bodies []string

	err := inbox.Walk(ctx, func(body string) {
		bodies = append(bodies, body)
	})

	return bodies, err
}

func TestWalkFiltersSenderAndUnread(t *testing.T) {
	srv := newMailServer(t)
	srv.deliver(t, "Cryptsy <support@cryptsy.com>", "https://www.cryptsy.com/confirm/fresh")
	srv.deliver(t, "someone@example.com", "https://www.cryptsy.com/confirm/stranger")
	srv.deliver(t, "support@cryptsy.com", "https://www.cryptsy.com/confirm/old", goimap.SeenFlag)

	inbox := srv.dial(t, false)

	bodies, err := walk(t, context.Background(), inbox)
	require.NoError(t, err)
	require.Len(t, bodies, 1)
	assert.Contains(t, bodies[0], "https://www.cryptsy.com/confirm/fresh")

	// The visited message is now read, while the stranger's is untouched.
	assert.Equal(t, []bool{true, false, true}, srv.seen())

	bodies, err = walk(t, context.Background(), inbox)
	require.NoError(t, err)
	assert.Empty(t, bodies)
}

func TestWalkPeekLeavesMessagesUnread(t *testing.T) {
	srv := newMailServer(t)
	srv.deliver(t, "support@cryptsy.com", "https://www.cryptsy.com/confirm/one")

	inbox := srv.dial(t, true)

	for i := 0; i < 2; i++ {
		bodies, err := walk(t, context.Background(), inbox)
		require.NoError(t, err)
		assert.Len(t, bodies, 1)
	}

	assert.Equal(t, []bool{false}, srv.seen())
}

func TestWalkCancelledKeepsUnvisitedMessagesUnread(t *testing.T) {
	srv := newMailServer(t)
	srv.deliver(t, "support@cryptsy.com", "https://www.cryptsy.com/confirm/one")
	srv.deliver(t, "support@cryptsy.com", "https://www.cryptsy.com/confirm/two")
	srv.deliver(t, "support@cryptsy.com", "https://www.cryptsy.com/confirm/three")

	inbox := srv.dial(t, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	visits := 0
	err := inbox.Walk(ctx, func(string) {
		visits++

		cancel()
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, visits)
	assert.Equal(t, []bool{true, false, false}, srv.seen())

	// The two messages that were never visited are walked next time.
	bodies, err := walk(t, context.Background(), inbox)
	require.NoError(t, err)
	require.Len(t, bodies, 2)
	assert.Contains(t, bodies[0], "https://www.cryptsy.com/confirm/two")
	assert.Contains(t, bodies[1], "https://www.cryptsy.com/confirm/three")
}

func TestWalkCancelledBeforeStart(t *testing.T) {
	srv := newMailServer(t)
	srv.deliver(t, "support@cryptsy.com", "https://www.cryptsy.com/confirm/one")

	inbox := srv.dial(t, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bodies, err := walk(t, ctx, inbox)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, bodies)
	assert.Equal(t, []bool{false}, srv.seen())
}

func TestDialRejectsBadCredentials(t *testing.T) {
	srv := newMailServer(t)

	_, err := Dial(context.Background(), Config{
		Addr:     srv.addr,
		Username: testUsername,
		Password: "wrong",
		TLS:      &tls.Config{InsecureSkipVerify: true},
	})
	assert.Error(t, err)
}
