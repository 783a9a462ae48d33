package exchange

import (
	"context"
	"encoding/json"
	"net/url"
)

//
// Client generically provides an interface to an object that can be used to interact with a
// cryptocurrency exchange's authenticated REST API. Normally, this is the client used to do things
// like place orders, check balances, and request withdrawals.
//
// Whenever a call fails – whether due to a system failure, an HTTP error, or an API error – the
// error component of the response will be non-nil. API errors implement the APIError interface.
//
type Client interface {

	//
	// Call invokes the named API method with the provided parameters and returns the raw result
	// payload of a successful response.
	//
	Call(ctx context.Context, method string, params url.Values) (json.RawMessage, error)
}
