package imap

import (
	"context"
	"crypto/tls"
	"sync"

	goimap "github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/lukehollenback/cryptsy/constants"
	"github.com/lukehollenback/cryptsy/logger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	Name = "≪imap-inbox≫"

	DefaultAddr    = "imap.gmail.com:993"
	DefaultMailbox = "INBOX"
)

//
// Config holds the settings used to dial an Inbox.
//
type Config struct {
	Addr     string // host:port of an IMAPS server. Defaults to DefaultAddr.
	Username string
	Password string
	Mailbox  string // Defaults to DefaultMailbox.
	Sender   string // Only mail from this address is walked. Defaults to the exchange's support address.

	// Peek leaves walked messages unread. By default each visited message is marked as seen once it
	// has been walked, so each e-mail is only walked once.
	Peek bool

	TLS    *tls.Config
	Logger *logrus.Entry
}

//
// Inbox walks the unread e-mails that the exchange sent to an IMAP mailbox. It satisfies the
// confirmation package's Inbox interface.
//
type Inbox struct {
	mu      *sync.Mutex
	client  *client.Client
	mailbox string
	sender  string
	peek    bool
	logger  *logrus.Entry
}

//
// Dial connects and logs in to the IMAP server. The caller must Logout when done.
//
func Dial(ctx context.Context, cfg Config) (*Inbox, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	if cfg.Mailbox == "" {
		cfg.Mailbox = DefaultMailbox
	}

	if cfg.Sender == "" {
		cfg.Sender = constants.ConfirmationSender
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.New(Name)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, err := client.DialTLS(cfg.Addr, cfg.TLS)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s", cfg.Addr)
	}

	if err := c.Login(cfg.Username, cfg.Password); err != nil {
		_ = c.Logout()

		return nil, errors.Wrapf(err, "failed to log in to %s", cfg.Addr)
	}

	cfg.Logger.Infof("Logged in to %s as %s.", cfg.Addr, cfg.Username)

	return &Inbox{
		mu:      &sync.Mutex{},
		client:  c,
		mailbox: cfg.Mailbox,
		sender:  cfg.Sender,
		peek:    cfg.Peek,
		logger:  cfg.Logger,
	}, nil
}

//
// Walk implements the confirmation package's Inbox interface.
//
func (o *Inbox) Walk(ctx context.Context, visit func(body string)) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := o.client.Select(o.mailbox, false); err != nil {
		return errors.Wrapf(err, "failed to select %s", o.mailbox)
	}

	//
	// Find the unread messages sent by the exchange.
	//
	criteria := goimap.NewSearchCriteria()
	criteria.WithoutFlags = []string{goimap.SeenFlag}
	criteria.Header.Add("From", o.sender)

	ids, err := o.client.Search(criteria)
	if err != nil {
		return errors.Wrap(err, "failed to search for unread messages")
	}

	if len(ids) == 0 {
		return nil
	}

	o.logger.Debugf("Found %d unread messages from %s.", len(ids), o.sender)

	//
	// Fetch their bodies.
	//
	seqset := new(goimap.SeqSet)
	seqset.AddNum(ids...)

	section := &goimap.BodySectionName{Peek: true}
	items := []goimap.FetchItem{section.FetchItem()}

	messages := make(chan *goimap.Message, len(ids))
	done := make(chan error, 1)

	go func() {
		done <- o.client.Fetch(seqset, items, messages)
	}()

	visited := new(goimap.SeqSet)

	for msg := range messages {
		// NOTE ~> The channel must be drained even once we have been cancelled.
		if ctx.Err() != nil {
			continue
		}

		literal := msg.GetBody(section)
		if literal == nil {
			o.logger.Warnf("Server returned no body for message %d.", msg.SeqNum)

			continue
		}

		body, err := extractBody(literal)
		if err != nil {
			o.logger.WithError(err).Warnf("Skipping unreadable message %d.", msg.SeqNum)

			continue
		}

		visit(body)
		visited.AddNum(msg.SeqNum)
	}

	if err := <-done; err != nil {
		return errors.Wrap(err, "failed to fetch messages")
	}

	//
	// Only the messages that were actually visited are marked as seen.
	//
	if !o.peek && !visited.Empty() {
		op := goimap.FormatFlagsOp(goimap.AddFlags, true)
		if err := o.client.Store(visited, op, []interface{}{goimap.SeenFlag}, nil); err != nil {
			return errors.Wrap(err, "failed to mark messages as seen")
		}
	}

	return ctx.Err()
}

//
// Logout ends the IMAP session.
//
func (o *Inbox) Logout() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return errors.Wrap(o.client.Logout(), "failed to log out")
}
