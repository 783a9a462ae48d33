package exchange

//
// APIError generically provides an interface to objects that represent a first-class error provided
// in the response of a request against a cryptocurrency exchange's API. Such errors mean the request
// reached the exchange and was understood, but the exchange refused to carry it out.
//
type APIError interface {
	error

	//
	// ErrorMessage returns the actual error message provided by the API (if there was one).
	//
	ErrorMessage() string
}
