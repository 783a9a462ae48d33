package stream

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

//
// event is the envelope of every frame exchanged with the push feed. Its data is usually a JSON
// document that has itself been encoded as a JSON string.
//
type event struct {
	Event   string          `json:"event"`
	Channel string          `json:"channel,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

//
// payload returns the event's data with one level of string encoding removed when present.
//
func (o *event) payload() ([]byte, error) {
	data := bytes.TrimSpace(o.Data)

	if len(data) == 0 || data[0] != '"' {
		return data, nil
	}

	var inner string

	if err := json.Unmarshal(data, &inner); err != nil {
		return nil, errors.Wrapf(err, "failed to unwrap %s payload", o.Event)
	}

	return []byte(inner), nil
}

//
// Trade is a single execution on a market.
//
type Trade struct {
	MarketID   string          `json:"marketid"`
	MarketName string          `json:"marketname"`
	Type       string          `json:"type"`
	Price      decimal.Decimal `json:"price"`
	Quantity   decimal.Decimal `json:"quantity"`
	Total      decimal.Decimal `json:"total"`
	Timestamp  int64           `json:"timestamp"`
	Datetime   string          `json:"datetime"`
}

func (o *Trade) Time() time.Time {
	return time.Unix(o.Timestamp, 0).UTC()
}

//
// Quote is one side of the top of a market's order book.
//
type Quote struct {
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

//
// Ticker is the top of a market's order book.
//
type Ticker struct {
	MarketID  string `json:"marketid"`
	Timestamp int64  `json:"timestamp"`
	Datetime  string `json:"datetime"`
	TopBuy    Quote  `json:"topbuy"`
	TopSell   Quote  `json:"topsell"`
}

func (o *Ticker) Time() time.Time {
	return time.Unix(o.Timestamp, 0).UTC()
}

//
// Spread returns the difference between the best ask and the best bid.
//
func (o *Ticker) Spread() decimal.Decimal {
	return o.TopSell.Price.Sub(o.TopBuy.Price)
}

//
// NOTE ~> The feed nests both trade and ticker bodies under a "trade" key.
//
type tradeMessage struct {
	Channel string `json:"channel"`
	Trade   Trade  `json:"trade"`
}

type tickerMessage struct {
	Channel string `json:"channel"`
	Trade   Ticker `json:"trade"`
}

type subscription struct {
	Channel string `json:"channel"`
}
