package web

import (
	"net/http"

	"github.com/lukehollenback/cryptsy/exchange"
)

//
// Response implements the exchange.Response interface for pages fetched by the web client.
//
type Response struct {
	response *http.Response
	body     []byte
}

var _ exchange.Response = (*Response)(nil)

func (o *Response) Raw() *http.Response {
	return o.response
}

func (o *Response) Body() []byte {
	return o.body
}

func (o *Response) StatusCode() int {
	return o.response.StatusCode
}

//
// Location returns the redirect target of the response, if any. A successful login, for example,
// answers with a redirect to either the dashboard or the pincode form.
//
func (o *Response) Location() string {
	return o.response.Header.Get("Location")
}

func (o *Response) IsRedirect() bool {
	return o.response.StatusCode >= 300 && o.response.StatusCode < 400
}
