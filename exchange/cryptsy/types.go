package cryptsy

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

//
// Info is the result of the getinfo method.
//
type Info struct {
	BalancesAvailable Balances `json:"balances_available"`
	BalancesHold      Balances `json:"balances_hold"`
	ServerTimestamp   int64    `json:"servertimestamp"`
	ServerTimezone    string   `json:"servertimezone"`
	ServerDateTime    string   `json:"serverdatetime"`
	OpenOrderCount    int      `json:"openordercount"`
}

//
// Balances maps currency codes to amounts.
//
type Balances map[string]decimal.Decimal

//
// UnmarshalJSON implements json.Unmarshaler.
//
// NOTE ~> The exchange encodes an empty set of balances as "[]" rather than "{}".
//
func (o *Balances) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("[]")) {
		*o = Balances{}

		return nil
	}

	balances := map[string]decimal.Decimal{}
	if err := json.Unmarshal(trimmed, &balances); err != nil {
		return err
	}

	*o = balances

	return nil
}

//
// Market is a single entry of the getmarkets method's result.
//
type Market struct {
	ID                    string          `json:"marketid"`
	Label                 string          `json:"label"`
	PrimaryCurrencyCode   string          `json:"primary_currency_code"`
	PrimaryCurrencyName   string          `json:"primary_currency_name"`
	SecondaryCurrencyCode string          `json:"secondary_currency_code"`
	SecondaryCurrencyName string          `json:"secondary_currency_name"`
	CurrentVolume         decimal.Decimal `json:"current_volume"`
	LastTrade             decimal.Decimal `json:"last_trade"`
	HighTrade             decimal.Decimal `json:"high_trade"`
	LowTrade              decimal.Decimal `json:"low_trade"`
	Created               string          `json:"created"`
}

//
// Order is one of the account's open orders (myorders / allmyorders).
//
type Order struct {
	OrderID          string          `json:"orderid"`
	MarketID         string          `json:"marketid"` // Only populated by allmyorders.
	Created          string          `json:"created"`
	OrderType        string          `json:"ordertype"`
	Price            decimal.Decimal `json:"price"`
	Quantity         decimal.Decimal `json:"quantity"`
	Total            decimal.Decimal `json:"total"`
	OriginalQuantity decimal.Decimal `json:"orig_quantity"`
}

//
// Trade is one of the account's executed trades (mytrades / allmytrades).
//
type Trade struct {
	TradeID           string          `json:"tradeid"`
	MarketID          string          `json:"marketid"` // Only populated by allmytrades.
	TradeType         string          `json:"tradetype"`
	DateTime          string          `json:"datetime"`
	TradePrice        decimal.Decimal `json:"tradeprice"`
	Quantity          decimal.Decimal `json:"quantity"`
	Total             decimal.Decimal `json:"total"`
	Fee               decimal.Decimal `json:"fee"`
	InitiateOrderType string          `json:"initiate_ordertype"`
	OrderID           string          `json:"order_id"`
}

//
// Transaction is a deposit or withdrawal of the account (mytransactions).
//
type Transaction struct {
	Currency string          `json:"currency"`
	DateTime string          `json:"datetime"`
	Timezone string          `json:"timezone"`
	Type     string          `json:"type"`
	Address  string          `json:"address"`
	Amount   decimal.Decimal `json:"amount"`
	Fee      decimal.Decimal `json:"fee"`
	TrxID    string          `json:"trxid"`
}

//
// Transfer is an internal transfer between Cryptsy accounts (mytransfers).
//
type Transfer struct {
	Currency           string          `json:"currency"`
	RequestTimestamp   string          `json:"request_timestamp"`
	Processed          string          `json:"processed"`
	ProcessedTimestamp string          `json:"processed_timestamp"`
	From               string          `json:"from"`
	To                 string          `json:"to"`
	Quantity           decimal.Decimal `json:"quantity"`
	Direction          string          `json:"direction"`
}

//
// MarketTrade is one of a market's most recent public trades (markettrades).
//
type MarketTrade struct {
	TradeID           string          `json:"tradeid"`
	DateTime          string          `json:"datetime"`
	TradePrice        decimal.Decimal `json:"tradeprice"`
	Quantity          decimal.Decimal `json:"quantity"`
	Total             decimal.Decimal `json:"total"`
	InitiateOrderType string          `json:"initiate_ordertype"`
}

//
// MarketOrders is a market's public order book as returned by marketorders.
//
type MarketOrders struct {
	SellOrders []SellOrder `json:"sellorders"`
	BuyOrders  []BuyOrder  `json:"buyorders"`
}

type SellOrder struct {
	Price    decimal.Decimal `json:"sellprice"`
	Quantity decimal.Decimal `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

type BuyOrder struct {
	Price    decimal.Decimal `json:"buyprice"`
	Quantity decimal.Decimal `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

//
// Fees is the result of the calculatefees method.
//
type Fees struct {
	Fee decimal.Decimal `json:"fee"`
	Net decimal.Decimal `json:"net"`
}

//
// PlacedOrder describes the outcome of createorder, which reports it outside of the usual result
// payload.
//
type PlacedOrder struct {
	OrderID  string
	MoreInfo string
}
