package writer

//
// Type is an enum that represents a type of data point to be written out.
//
type Type int

const (
	TradePrice Type = iota
	TradeQuantity
	TickerSpread
	CandleClose
	CandleVolume
)

func (o Type) String() string {
	return [...]string{"TradePrice", "TradeQuantity", "TickerSpread", "CandleClose", "CandleVolume"}[o]
}
