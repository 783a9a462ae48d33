package exchange

import "fmt"

//
// HTTPError represents an error due to an unexpected status code from an exchange endpoint. When
// dealing with cryptocurrency exchange APIs, such a response almost always means that something
// critically wrong has occurred.
//
type HTTPError struct {
	statusCode int
	url        string
}

func NewHTTPError(statusCode int, url string) *HTTPError {
	return &HTTPError{
		statusCode: statusCode,
		url:        url,
	}
}

func (o *HTTPError) StatusCode() int {
	return o.statusCode
}

func (o *HTTPError) URL() string {
	return o.url
}

func (o *HTTPError) Error() string {
	return fmt.Sprintf("%s responded with a %d status code", o.url, o.statusCode)
}
