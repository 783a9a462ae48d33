package exchange

import "testing"

func TestOrderTypeString(t *testing.T) {
	if Buy.String() != "Buy" {
		t.Errorf("Expected Buy to render as \"Buy\" but was instead %q.", Buy.String())
	}

	if Sell.String() != "Sell" {
		t.Errorf("Expected Sell to render as \"Sell\" but was instead %q.", Sell.String())
	}
}

func TestParseOrderType(t *testing.T) {
	if v, err := ParseOrderType(" SELL "); err != nil || v != Sell {
		t.Errorf("Expected \" SELL \" to parse as Sell but got %s (Error: %v).", v, err)
	}

	if _, err := ParseOrderType("hold"); err == nil {
		t.Errorf("Expected \"hold\" to fail to parse.")
	}
}
