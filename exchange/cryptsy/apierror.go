package cryptsy

import "fmt"

const unknownErrorMessage = "unknown error"

//
// ClientError implements the exchange.APIError interface for errors returned from Cryptsy API
// calls. It is produced whenever a response envelope carries a success flag other than 1.
//
type ClientError struct {
	Message string
}

func (o *ClientError) ErrorMessage() string {
	return o.Message
}

func (o *ClientError) Error() string {
	return fmt.Sprintf("the Cryptsy endpoint returned an API error (message: %s)", o.ErrorMessage())
}
