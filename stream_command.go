package main

import (
	"fmt"
	"os"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/cryptsy/exchange/cryptsy/stream"
	"github.com/lukehollenback/cryptsy/trader/candle"
	"github.com/lukehollenback/cryptsy/trader/writer"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

var streamCommand = &cli.Command{
	Name:      "stream",
	Usage:     "watches trades and ticker updates of markets on the push feed",
	ArgsUsage: "[marketid...]",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "csv", Usage: "directory to record data points to, one CSV file per market"},
		&cli.DurationFlag{Name: "candle", Usage: "also aggregate trades into candles of this interval (e.g. 1m)"},
	},
	Action: func(c *cli.Context) error {
		markets := c.Args().Slice()
		if len(markets) == 0 {
			markets = cfg.Stream.Markets
		}

		csvDir := c.String("csv")
		if csvDir == "" {
			csvDir = cfg.Stream.CSVDir
		}

		svc, err := stream.New(stream.Config{URL: cfg.Stream.URL, Markets: markets})
		if err != nil {
			return err
		}

		stores, err := candleStores(c.Duration("candle"), markets)
		if err != nil {
			return err
		}

		//
		// Either record the feed or print it.
		//
		if csvDir != "" {
			writers, err := startWriters(csvDir, markets)
			if err != nil {
				return err
			}

			defer stopWriters(writers)

			svc.RegisterTradeHandler(func(trade *stream.Trade) {
				w, ok := writers[trade.MarketID]
				if !ok {
					return
				}

				writeRecord(w, trade.MarketID, trade.Time(), writer.TradePrice, trade.Price)
				writeRecord(w, trade.MarketID, trade.Time(), writer.TradeQuantity, trade.Quantity)

				if closed := appendTrade(stores, trade); closed != nil {
					writeRecord(w, trade.MarketID, closed.End(), writer.CandleClose, closed.Close())
					writeRecord(w, trade.MarketID, closed.End(), writer.CandleVolume, closed.Volume())
				}
			})

			svc.RegisterTickerHandler(func(ticker *stream.Ticker) {
				if w, ok := writers[ticker.MarketID]; ok {
					writeRecord(w, ticker.MarketID, ticker.Time(), writer.TickerSpread, ticker.Spread())
				}
			})
		} else {
			svc.RegisterTradeHandler(func(trade *stream.Trade) {
				fmt.Fprintf(c.App.Writer, "%s %s %s %s @ %s\n",
					trade.Time().Format("15:04:05"), trade.MarketName, trade.Type,
					trade.Quantity, aurora.Yellow(trade.Price))

				if closed := appendTrade(stores, trade); closed != nil {
					fmt.Fprintf(c.App.Writer, "%s %s candle O %s H %s L %s C %s V %s\n",
						closed.End().Format("15:04:05"), trade.MarketName, closed.Open(), closed.High(),
						closed.Low(), aurora.Bold(closed.Close()), closed.Volume())
				}
			})

			svc.RegisterTickerHandler(func(ticker *stream.Ticker) {
				fmt.Fprintf(c.App.Writer, "%s market %s bid %s ask %s\n",
					ticker.Time().Format("15:04:05"), ticker.MarketID,
					aurora.Green(ticker.TopBuy.Price), aurora.Red(ticker.TopSell.Price))
			})
		}

		chStarted, err := svc.Start()
		if err != nil {
			return err
		}

		<-chStarted

		select {
		case <-c.Context.Done():
		case <-svc.Done():
			return errors.New("lost the connection to the push feed")
		}

		chStopped, err := svc.Stop()
		if err != nil {
			return err
		}

		<-chStopped

		return nil
	},
}

//
// candleStores builds one candle store per market, or none when interval is zero.
//
func candleStores(interval time.Duration, markets []string) (map[string]*candle.Store, error) {
	stores := make(map[string]*candle.Store)

	if interval == 0 {
		return stores, nil
	}

	for _, market := range markets {
		store, err := candle.CreateStore(interval)
		if err != nil {
			return nil, err
		}

		stores[market] = store
	}

	return stores, nil
}

//
// appendTrade feeds a trade into its market's candle store and returns the candle it closed out,
// if any.
//
func appendTrade(stores map[string]*candle.Store, trade *stream.Trade) *candle.Candle {
	store, ok := stores[trade.MarketID]
	if !ok {
		return nil
	}

	closed, err := store.Append(trade.Time(), trade.Price, trade.Quantity)
	if err != nil {
		log.WithError(err).Debugf("Dropped out of order trade on market %s.", trade.MarketID)

		return nil
	}

	return closed
}

func startWriters(dir string, markets []string) (map[string]*writer.Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", dir)
	}

	writers := make(map[string]*writer.Service, len(markets))

	for _, market := range markets {
		w := writer.New(dir, "market-"+market)

		chStarted, err := w.Start()
		if err != nil {
			stopWriters(writers)

			return nil, err
		}

		<-chStarted

		writers[market] = w
	}

	return writers, nil
}

//
// writeRecord writes a single record to a market's CSV file. Failures are logged and the stream
// carries on.
//
func writeRecord(w *writer.Service, market string, ts time.Time, category writer.Type, value decimal.Decimal) {
	if err := w.Write(ts, category, value); err != nil {
		log.WithError(err).Warnf("Failed to write a %s record for market %s.", category, market)
	}
}

func stopWriters(writers map[string]*writer.Service) {
	for market, w := range writers {
		chStopped, err := w.Stop()
		if err != nil {
			log.WithError(err).Warnf("Failed to stop the writer of market %s.", market)

			continue
		}

		<-chStopped
	}
}
