package main

import (
	"fmt"
	"strconv"

	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/cryptsy/constants"
	"github.com/lukehollenback/cryptsy/exchange"
	"github.com/lukehollenback/cryptsy/exchange/cryptsy"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var infoCommand = &cli.Command{
	Name:  "info",
	Usage: "shows balances and account information",
	Action: func(c *cli.Context) error {
		client, err := apiClient()
		if err != nil {
			return err
		}

		info, err := client.Info(c.Context)
		if err != nil {
			return err
		}

		return jsonOutput(c, info)
	},
}

var marketsCommand = &cli.Command{
	Name:  "markets",
	Usage: "lists every market",
	Action: func(c *cli.Context) error {
		client, err := apiClient()
		if err != nil {
			return err
		}

		markets, err := client.Markets(c.Context)
		if err != nil {
			return err
		}

		return jsonOutput(c, markets)
	},
}

var marketCommand = &cli.Command{
	Name:      "market",
	Usage:     "finds the market trading a pair of currencies",
	ArgsUsage: "<primary> <secondary>",
	Action: func(c *cli.Context) error {
		if err := requireArgs(c, 2); err != nil {
			return err
		}

		client, err := apiClient()
		if err != nil {
			return err
		}

		market, err := client.MarketByPair(c.Context, c.Args().Get(0), c.Args().Get(1))
		if err != nil {
			return err
		}

		if market == nil {
			return cli.Exit(fmt.Sprintf("no market trades %s/%s", c.Args().Get(0), c.Args().Get(1)), 1)
		}

		return jsonOutput(c, market)
	},
}

var depthCommand = &cli.Command{
	Name:      "depth",
	Usage:     "shows the order book depth of a market",
	ArgsUsage: "<marketid>",
	Action: func(c *cli.Context) error {
		if err := requireArgs(c, 1); err != nil {
			return err
		}

		client, err := apiClient()
		if err != nil {
			return err
		}

		depth, err := client.MarketDepth(c.Context, c.Args().First())
		if err != nil {
			return err
		}

		return jsonOutput(c, depth)
	},
}

var ordersCommand = &cli.Command{
	Name:      "orders",
	Usage:     "lists open orders of one market, or of every market when none is given",
	ArgsUsage: "[marketid]",
	Action: func(c *cli.Context) error {
		client, err := apiClient()
		if err != nil {
			return err
		}

		var orders []cryptsy.Order

		if c.NArg() > 0 {
			orders, err = client.Orders(c.Context, c.Args().First())
		} else {
			orders, err = client.AllOrders(c.Context)
		}

		if err != nil {
			return err
		}

		return jsonOutput(c, orders)
	},
}

var tradesCommand = &cli.Command{
	Name:      "trades",
	Usage:     "lists the account's trades in one market, or in every market when none is given",
	ArgsUsage: "[marketid]",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "limit",
			Value: constants.DefaultTradeLimit,
			Usage: "maximum number of trades returned for a single market",
		},
	},
	Action: func(c *cli.Context) error {
		client, err := apiClient()
		if err != nil {
			return err
		}

		var trades []cryptsy.Trade

		if c.NArg() > 0 {
			trades, err = client.Trades(c.Context, c.Args().First(), c.Int("limit"))
		} else {
			trades, err = client.AllTrades(c.Context)
		}

		if err != nil {
			return err
		}

		return jsonOutput(c, trades)
	},
}

var transactionsCommand = &cli.Command{
	Name:  "transactions",
	Usage: "lists deposits and withdrawals",
	Action: func(c *cli.Context) error {
		client, err := apiClient()
		if err != nil {
			return err
		}

		transactions, err := client.Transactions(c.Context)
		if err != nil {
			return err
		}

		return jsonOutput(c, transactions)
	},
}

var transfersCommand = &cli.Command{
	Name:  "transfers",
	Usage: "lists transfers to and from other accounts",
	Action: func(c *cli.Context) error {
		client, err := apiClient()
		if err != nil {
			return err
		}

		transfers, err := client.Transfers(c.Context)
		if err != nil {
			return err
		}

		return jsonOutput(c, transfers)
	},
}

var buyCommand = newOrderCommand(exchange.Buy)

var sellCommand = newOrderCommand(exchange.Sell)

func newOrderCommand(orderType exchange.OrderType) *cli.Command {
	return &cli.Command{
		Name:      map[exchange.OrderType]string{exchange.Buy: "buy", exchange.Sell: "sell"}[orderType],
		Usage:     fmt.Sprintf("places a limit %s order", orderType),
		ArgsUsage: "<marketid> <quantity> <price>",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 3); err != nil {
				return err
			}

			quantity, err := decimalArg(c, 1, "quantity")
			if err != nil {
				return err
			}

			price, err := decimalArg(c, 2, "price")
			if err != nil {
				return err
			}

			client, err := apiClient()
			if err != nil {
				return err
			}

			placed, err := client.CreateOrder(c.Context, c.Args().First(), orderType, quantity, price)
			if err != nil {
				return err
			}

			log.Infof("Placed %s order %s.", orderType, aurora.Green(placed.OrderID))

			return jsonOutput(c, placed)
		},
	}
}

var cancelCommand = &cli.Command{
	Name:      "cancel",
	Usage:     "cancels an order, every order in a market (--market), or every order (--all)",
	ArgsUsage: "[orderid]",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "market", Usage: "cancel every open order in this market"},
		&cli.BoolFlag{Name: "all", Usage: "cancel every open order"},
	},
	Action: func(c *cli.Context) error {
		client, err := apiClient()
		if err != nil {
			return err
		}

		var result cryptsy.Result

		switch {
		case c.Bool("all"):
			result, err = client.CancelAllOrders(c.Context)
		case c.String("market") != "":
			result, err = client.CancelOrders(c.Context, c.String("market"))
		default:
			if err := requireArgs(c, 1); err != nil {
				return err
			}

			result, err = client.CancelOrder(c.Context, c.Args().First())
		}

		if err != nil {
			return err
		}

		return jsonOutput(c, result)
	},
}

var feesCommand = &cli.Command{
	Name:      "fees",
	Usage:     "calculates the fee and net total of a hypothetical order",
	ArgsUsage: "<buy|sell> <quantity> <price>",
	Action: func(c *cli.Context) error {
		if err := requireArgs(c, 3); err != nil {
			return err
		}

		orderType, err := exchange.ParseOrderType(c.Args().First())
		if err != nil {
			return err
		}

		quantity, err := decimalArg(c, 1, "quantity")
		if err != nil {
			return err
		}

		price, err := decimalArg(c, 2, "price")
		if err != nil {
			return err
		}

		client, err := apiClient()
		if err != nil {
			return err
		}

		fees, err := client.CalculateFees(c.Context, orderType, quantity, price)
		if err != nil {
			return err
		}

		return jsonOutput(c, fees)
	},
}

var addressCommand = &cli.Command{
	Name:      "address",
	Usage:     "generates a new deposit address for a currency id or currency code",
	ArgsUsage: "<currency>",
	Action: func(c *cli.Context) error {
		if err := requireArgs(c, 1); err != nil {
			return err
		}

		client, err := apiClient()
		if err != nil {
			return err
		}

		var address string

		currency := c.Args().First()

		if id, convErr := strconv.Atoi(currency); convErr == nil {
			address, err = client.GenerateAddressByCurrencyID(c.Context, id)
		} else {
			address, err = client.GenerateAddressByCurrencyCode(c.Context, currency)
		}

		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(c.App.Writer, address)

		return err
	},
}

var withdrawCommand = &cli.Command{
	Name:      "withdraw",
	Usage:     "withdraws to a trusted address through the API",
	ArgsUsage: "<address> <amount>",
	Action: func(c *cli.Context) error {
		if err := requireArgs(c, 2); err != nil {
			return err
		}

		amount, err := decimalArg(c, 1, "amount")
		if err != nil {
			return err
		}

		client, err := apiClient()
		if err != nil {
			return err
		}

		result, err := client.MakeWithdrawal(c.Context, c.Args().First(), amount)
		if err != nil {
			return err
		}

		return jsonOutput(c, result)
	},
}

var callCommand = &cli.Command{
	Name:      "call",
	Usage:     "calls any API method and prints its raw result",
	ArgsUsage: "<method> [key=value...]",
	Action: func(c *cli.Context) error {
		if err := requireArgs(c, 1); err != nil {
			return err
		}

		params, err := keyValueArgs(c.Args().Tail())
		if err != nil {
			return err
		}

		client, err := apiClient()
		if err != nil {
			return err
		}

		raw, err := client.Call(c.Context, c.Args().First(), params)
		if err != nil {
			var apiErr exchange.APIError
			if errors.As(err, &apiErr) {
				return cli.Exit(fmt.Sprintf("%s: %s", cryptsy.Name, apiErr.ErrorMessage()), 2)
			}

			return err
		}

		return jsonOutput(c, raw)
	},
}
