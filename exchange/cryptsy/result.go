package cryptsy

import (
	"encoding/json"
	"strconv"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

//
// Result wraps a raw result payload whose shape varies between API methods (or is simply not worth
// modelling). Accessors take a key path in the style of jsonparser, where array indexes are written
// as "[0]".
//
type Result struct {
	raw json.RawMessage
}

func NewResult(raw json.RawMessage) Result {
	return Result{raw: raw}
}

func (o Result) Raw() json.RawMessage {
	return o.raw
}

//
// IsNull reports whether the payload was absent or JSON null.
//
func (o Result) IsNull() bool {
	return len(o.raw) == 0 || string(o.raw) == "null"
}

//
// Get returns the raw bytes found at the provided key path along with their JSON data type.
//
func (o Result) Get(keys ...string) ([]byte, jsonparser.ValueType, error) {
	value, dataType, _, err := jsonparser.Get(o.raw, keys...)

	return value, dataType, err
}

//
// String returns the value at the provided key path rendered as a string. Numbers and booleans are
// returned verbatim, which suits an API that freely mixes "12" and 12.
//
func (o Result) String(keys ...string) (string, error) {
	value, dataType, err := o.Get(keys...)
	if err != nil {
		return "", err
	}

	switch dataType {
	case jsonparser.String:
		return jsonparser.ParseString(value)
	case jsonparser.Number, jsonparser.Boolean:
		return string(value), nil
	}

	return "", errors.Errorf("value at %v is a %s, not a scalar", keys, dataType)
}

//
// Int returns the value at the provided key path as an integer, accepting both numbers and numeric
// strings.
//
func (o Result) Int(keys ...string) (int64, error) {
	s, err := o.String(keys...)
	if err != nil {
		return 0, err
	}

	return strconv.ParseInt(s, 10, 64)
}

//
// Decimal returns the value at the provided key path as a decimal, accepting both numbers and
// numeric strings.
//
func (o Result) Decimal(keys ...string) (decimal.Decimal, error) {
	s, err := o.String(keys...)
	if err != nil {
		return decimal.Zero, err
	}

	return decimal.NewFromString(s)
}

//
// Decode unmarshals the whole payload into the provided value. An absent payload leaves the value
// untouched.
//
func (o Result) Decode(v interface{}) error {
	if o.IsNull() {
		return nil
	}

	return errors.Wrap(json.Unmarshal(o.raw, v), "failed to decode result payload")
}
