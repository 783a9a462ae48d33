package cryptsy

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

//
// Depth is a market's aggregated order book as returned by the depth method.
//
type Depth struct {
	Sell []DepthLevel `json:"sell"`
	Buy  []DepthLevel `json:"buy"`
}

const (
	PriceIndex    = 0
	QuantityIndex = 1
)

//
// DepthLevel is a single [price, quantity] tuple of a Depth.
//
type DepthLevel struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

//
// UnmarshalJSON implements the json.Unmarshaler interface for DepthLevel structures so that the
// two-element JSON arrays provided by the API can be properly unmarshalled. Both elements may come
// in as either numbers or strings.
//
func (o *DepthLevel) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if len(raw) <= QuantityIndex {
		return fmt.Errorf("depth level has %d elements, expected at least 2 (%s)", len(raw), data)
	}

	if err := o.Price.UnmarshalJSON(raw[PriceIndex]); err != nil {
		return fmt.Errorf("failed to parse depth price (%s): %w", raw[PriceIndex], err)
	}

	if err := o.Quantity.UnmarshalJSON(raw[QuantityIndex]); err != nil {
		return fmt.Errorf("failed to parse depth quantity (%s): %w", raw[QuantityIndex], err)
	}

	return nil
}
