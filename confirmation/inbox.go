package confirmation

import "context"

//
// Inbox is the capability the poller needs from a mailbox: Walk invokes visit once for every unread
// e-mail sent by the exchange, passing the e-mail's body (usually HTML). Filtering by sender and
// read state is entirely the Inbox's responsibility.
//
type Inbox interface {
	Walk(ctx context.Context, visit func(body string)) error
}

//
// InboxFunc adapts an ordinary function to the Inbox interface.
//
type InboxFunc func(ctx context.Context, visit func(body string)) error

func (o InboxFunc) Walk(ctx context.Context, visit func(body string)) error {
	return o(ctx, visit)
}
