package candle

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrClosedCandle = errors.New("cannot modify closed-out candles in candle store")

//
// Store aggregates the trades of one market into consecutive candles of a fixed interval. Candle
// windows are aligned to multiples of the interval since the zero time, so a one minute store
// produces candles starting on the minute.
//
type Store struct {
	mu       *sync.Mutex
	interval time.Duration
	current  *Candle
	closed   int
}

//
// CreateStore instantiates a new, empty candle store that will hold candles of the specified
// duration interval.
//
func CreateStore(interval time.Duration) (*Store, error) {
	if interval <= 0 {
		return nil, errors.Errorf("invalid candle interval %s", interval)
	}

	return &Store{
		mu:       &sync.Mutex{},
		interval: interval,
	}, nil
}

//
// Append calculates a new trade into the open candle. When the trade falls after the open candle's
// window, that candle is closed out and returned and a new one is opened with the trade. Trades
// older than the open candle are rejected.
//
func (o *Store) Append(at time.Time, price decimal.Decimal, quantity decimal.Decimal) (*Candle, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	start := at.Truncate(o.interval)

	//
	// Open the very first candle.
	//
	if o.current == nil {
		o.current = CreateCandle(start, o.interval, price, quantity)

		return nil, nil
	}

	if at.Before(o.current.Start()) {
		return nil, ErrClosedCandle
	}

	if at.Before(o.current.End()) {
		return nil, o.current.Append(at, price, quantity)
	}

	//
	// Close out the open candle and start the next one.
	//
	closed := o.current
	o.current = CreateCandle(start, o.interval, price, quantity)
	o.closed++

	return closed, nil
}

//
// Current returns the open candle, or nil when no trade has been appended yet.
//
func (o *Store) Current() *Candle {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.current
}

//
// Closed returns how many candles have been closed out.
//
func (o *Store) Closed() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.closed
}
