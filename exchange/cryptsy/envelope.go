package cryptsy

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
)

var nullPayload = json.RawMessage("null")

//
// checkEnvelope validates a raw response body against the API's {success, error, return} envelope.
// A success flag of anything other than 1 yields a *ClientError carrying the server's message. The
// flag is accepted as a number, a numeric string or a boolean since the API is not consistent
// about it.
//
func checkEnvelope(body []byte) error {
	if !json.Valid(body) {
		return errors.Errorf("malformed JSON in response envelope (%d bytes)", len(body))
	}

	if parseSuccess(body) {
		return nil
	}

	msg, err := jsonparser.GetString(body, "error")
	if err != nil || msg == "" {
		msg = unknownErrorMessage
	}

	return &ClientError{Message: msg}
}

func parseSuccess(body []byte) bool {
	value, dataType, _, err := jsonparser.Get(body, "success")
	if err != nil {
		return false
	}

	switch dataType {
	case jsonparser.Number, jsonparser.String:
		n, err := strconv.ParseFloat(strings.TrimSpace(string(value)), 64)

		return err == nil && n == 1
	case jsonparser.Boolean:
		return string(value) == "true"
	}

	return false
}

//
// extractPayload returns the "return" member of an already-validated envelope as raw JSON. A
// missing payload is reported as JSON null.
//
func extractPayload(body []byte) (json.RawMessage, error) {
	value, dataType, _, err := jsonparser.Get(body, "return")
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return nullPayload, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to extract result payload")
	}

	// NOTE ~> jsonparser strips the quotes off string values but leaves their escapes intact, so
	//  wrapping them back up yields valid JSON.
	if dataType == jsonparser.String {
		quoted := make([]byte, 0, len(value)+2)
		quoted = append(quoted, '"')
		quoted = append(quoted, value...)
		quoted = append(quoted, '"')

		return quoted, nil
	}

	return json.RawMessage(value), nil
}
