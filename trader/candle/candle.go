package candle

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var One = decimal.NewFromInt(1)

//
// Candle represents a snapshot of the trades executed on a market during a window of time.
//
type Candle struct {
	mu       *sync.Mutex
	start    time.Time
	duration time.Duration
	open     decimal.Decimal
	close    decimal.Decimal
	high     decimal.Decimal
	low      decimal.Decimal
	volume   decimal.Decimal
	cnt      decimal.Decimal
}

//
// CreateCandle instantiates a new candle from the first trade that falls into its window.
//
func CreateCandle(start time.Time, duration time.Duration, price decimal.Decimal, quantity decimal.Decimal) *Candle {
	return &Candle{
		mu:       &sync.Mutex{},
		start:    start,
		duration: duration,
		open:     price,
		close:    price,
		high:     price,
		low:      price,
		volume:   quantity,
		cnt:      One,
	}
}

//
// Append calculates a trade into the candle. The trade must have occurred within the window of
// time that the candle represents.
//
func (o *Candle) Append(at time.Time, price decimal.Decimal, quantity decimal.Decimal) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if at.Before(o.start) || !at.Before(o.start.Add(o.duration)) {
		return errors.Errorf("cannot append trade from %s to %s candle starting at %s", at, o.duration, o.start)
	}

	//
	// Update the necessary fields of the candle.
	//
	o.close = price

	if price.GreaterThan(o.high) {
		o.high = price
	}

	if price.LessThan(o.low) {
		o.low = price
	}

	o.volume = o.volume.Add(quantity)
	o.cnt = o.cnt.Add(One)

	return nil
}

func (o *Candle) Start() time.Time {
	return o.start
}

func (o *Candle) End() time.Time {
	return o.start.Add(o.duration)
}

func (o *Candle) Open() decimal.Decimal {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.open
}

func (o *Candle) Close() decimal.Decimal {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.close
}

func (o *Candle) High() decimal.Decimal {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.high
}

func (o *Candle) Low() decimal.Decimal {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.low
}

func (o *Candle) Volume() decimal.Decimal {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.volume
}

func (o *Candle) Count() decimal.Decimal {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.cnt
}
