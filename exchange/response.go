package exchange

import "net/http"

//
// Response generically provides an interface to an object that represents a response from a call to
// an exchange endpoint.
//
type Response interface {

	//
	// Raw provides the raw HTTP response from the endpoint call that was made. Its body has already
	// been consumed.
	//
	Raw() *http.Response

	//
	// Body provides the fully-read body of the response.
	//
	Body() []byte
}
