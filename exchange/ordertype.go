package exchange

import (
	"fmt"
	"strings"
)

//
// OrderType is an enum that represents the side of an order or fee calculation.
//
type OrderType int

const (
	Buy OrderType = iota
	Sell
)

func (o OrderType) String() string {
	return [...]string{"Buy", "Sell"}[o]
}

//
// ParseOrderType converts a case-insensitive "buy" or "sell" into an OrderType.
//
func ParseOrderType(s string) (OrderType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	}

	return Buy, fmt.Errorf("unknown order type %q", s)
}
