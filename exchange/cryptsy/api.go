package cryptsy

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/lukehollenback/cryptsy/constants"
	"github.com/lukehollenback/cryptsy/exchange"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

//
// Info retrieves balances and server details for the account.
//
func (o *Client) Info(ctx context.Context) (*Info, error) {
	info := &Info{}

	if err := o.callInto(ctx, MethodGetInfo, nil, info); err != nil {
		return nil, err
	}

	return info, nil
}

//
// Markets retrieves every market listed on the exchange.
//
func (o *Client) Markets(ctx context.Context) ([]Market, error) {
	var markets []Market

	if err := o.callInto(ctx, MethodGetMarkets, nil, &markets); err != nil {
		return nil, err
	}

	return markets, nil
}

//
// MarketByPair fetches the full market list and returns the first market whose primary and
// secondary currency codes equal the provided ones, ignoring case. A nil market and nil error are
// returned if no market matches.
//
func (o *Client) MarketByPair(ctx context.Context, primaryCode string, secondaryCode string) (*Market, error) {
	markets, err := o.Markets(ctx)
	if err != nil {
		return nil, err
	}

	return findMarket(markets, primaryCode, secondaryCode), nil
}

func findMarket(markets []Market, primaryCode string, secondaryCode string) *Market {
	primary := NormalizeCurrencyCode(primaryCode)
	secondary := NormalizeCurrencyCode(secondaryCode)

	for i := range markets {
		if NormalizeCurrencyCode(markets[i].PrimaryCurrencyCode) == primary &&
			NormalizeCurrencyCode(markets[i].SecondaryCurrencyCode) == secondary {
			return &markets[i]
		}
	}

	return nil
}

//
// Orders retrieves the account's open orders in the specified market.
//
func (o *Client) Orders(ctx context.Context, marketID string) ([]Order, error) {
	var orders []Order

	if err := o.callInto(ctx, MethodMyOrders, marketParams(marketID), &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

//
// AllOrders retrieves the account's open orders across all markets.
//
func (o *Client) AllOrders(ctx context.Context) ([]Order, error) {
	var orders []Order

	if err := o.callInto(ctx, MethodAllMyOrders, nil, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

//
// Trades retrieves up to limit of the account's trades in the specified market. A non-positive
// limit falls back to the API's default of 200.
//
func (o *Client) Trades(ctx context.Context, marketID string, limit int) ([]Trade, error) {
	if limit <= 0 {
		limit = constants.DefaultTradeLimit
	}

	params := marketParams(marketID)
	params.Set("limit", strconv.Itoa(limit))

	var trades []Trade

	if err := o.callInto(ctx, MethodMyTrades, params, &trades); err != nil {
		return nil, err
	}

	return trades, nil
}

//
// AllTrades retrieves the account's trades across all markets.
//
func (o *Client) AllTrades(ctx context.Context) ([]Trade, error) {
	var trades []Trade

	if err := o.callInto(ctx, MethodAllMyTrades, nil, &trades); err != nil {
		return nil, err
	}

	return trades, nil
}

//
// Transactions retrieves the account's deposits and withdrawals.
//
func (o *Client) Transactions(ctx context.Context) ([]Transaction, error) {
	var transactions []Transaction

	if err := o.callInto(ctx, MethodMyTransactions, nil, &transactions); err != nil {
		return nil, err
	}

	return transactions, nil
}

//
// Transfers retrieves the account's transfers to and from other accounts.
//
func (o *Client) Transfers(ctx context.Context) ([]Transfer, error) {
	var transfers []Transfer

	if err := o.callInto(ctx, MethodMyTransfers, nil, &transfers); err != nil {
		return nil, err
	}

	return transfers, nil
}

func (o *Client) MarketDepth(ctx context.Context, marketID string) (*Depth, error) {
	depth := &Depth{}

	if err := o.callInto(ctx, MethodDepth, marketParams(marketID), depth); err != nil {
		return nil, err
	}

	return depth, nil
}

func (o *Client) MarketOrders(ctx context.Context, marketID string) (*MarketOrders, error) {
	orders := &MarketOrders{}

	if err := o.callInto(ctx, MethodMarketOrders, marketParams(marketID), orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (o *Client) MarketTrades(ctx context.Context, marketID string) ([]MarketTrade, error) {
	var trades []MarketTrade

	if err := o.callInto(ctx, MethodMarketTrades, marketParams(marketID), &trades); err != nil {
		return nil, err
	}

	return trades, nil
}

func (o *Client) CreateBuyOrder(ctx context.Context, marketID string, quantity decimal.Decimal, price decimal.Decimal) (*PlacedOrder, error) {
	return o.CreateOrder(ctx, marketID, exchange.Buy, quantity, price)
}

func (o *Client) CreateSellOrder(ctx context.Context, marketID string, quantity decimal.Decimal, price decimal.Decimal) (*PlacedOrder, error) {
	return o.CreateOrder(ctx, marketID, exchange.Sell, quantity, price)
}

//
// CreateOrder places a limit order. The exchange reports the new order's identifier alongside the
// success flag rather than inside the result payload.
//
func (o *Client) CreateOrder(
	ctx context.Context,
	marketID string,
	orderType exchange.OrderType,
	quantity decimal.Decimal,
	price decimal.Decimal,
) (*PlacedOrder, error) {
	params := marketParams(marketID)
	params.Set("ordertype", orderType.String())
	params.Set("quantity", quantity.String())
	params.Set("price", price.String())

	body, err := o.call(ctx, MethodCreateOrder, params)
	if err != nil {
		return nil, err
	}

	envelope := NewResult(body)
	placed := &PlacedOrder{}

	if placed.OrderID, err = envelope.String("orderid"); err != nil && !errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return nil, errors.Wrap(err, "failed to parse order id")
	}

	placed.MoreInfo, _ = envelope.String("moreinfo")

	return placed, nil
}

func (o *Client) CancelOrder(ctx context.Context, orderID string) (Result, error) {
	params := url.Values{}
	params.Set("orderid", orderID)

	return o.callResult(ctx, MethodCancelOrder, params)
}

//
// CancelOrders cancels all of the account's open orders in the specified market.
//
func (o *Client) CancelOrders(ctx context.Context, marketID string) (Result, error) {
	return o.callResult(ctx, MethodCancelMarketOrders, marketParams(marketID))
}

func (o *Client) CancelAllOrders(ctx context.Context) (Result, error) {
	return o.callResult(ctx, MethodCancelAllOrders, nil)
}

func (o *Client) CalculateBuyFees(ctx context.Context, quantity decimal.Decimal, price decimal.Decimal) (*Fees, error) {
	return o.CalculateFees(ctx, exchange.Buy, quantity, price)
}

func (o *Client) CalculateSellFees(ctx context.Context, quantity decimal.Decimal, price decimal.Decimal) (*Fees, error) {
	return o.CalculateFees(ctx, exchange.Sell, quantity, price)
}

//
// CalculateFees asks the exchange for the fee and net total of a hypothetical order.
//
func (o *Client) CalculateFees(
	ctx context.Context,
	orderType exchange.OrderType,
	quantity decimal.Decimal,
	price decimal.Decimal,
) (*Fees, error) {
	params := url.Values{}
	params.Set("ordertype", orderType.String())
	params.Set("quantity", quantity.String())
	params.Set("price", price.String())

	fees := &Fees{}

	if err := o.callInto(ctx, MethodCalculateFees, params, fees); err != nil {
		return nil, err
	}

	return fees, nil
}

//
// GenerateAddressByCurrencyID generates a new deposit address for the currency with the provided
// numeric identifier.
//
func (o *Client) GenerateAddressByCurrencyID(ctx context.Context, currencyID int) (string, error) {
	params := url.Values{}
	params.Set("currencyid", strconv.Itoa(currencyID))

	return o.generateAddress(ctx, params)
}

//
// GenerateAddressByCurrencyCode generates a new deposit address for the currency with the provided
// code (e.g. "doge"), which is upper-cased before it is sent.
//
func (o *Client) GenerateAddressByCurrencyCode(ctx context.Context, currencyCode string) (string, error) {
	params := url.Values{}
	params.Set("currencycode", NormalizeCurrencyCode(currencyCode))

	return o.generateAddress(ctx, params)
}

func (o *Client) generateAddress(ctx context.Context, params url.Values) (string, error) {
	result, err := o.callResult(ctx, MethodGenerateNewAddress, params)
	if err != nil {
		return "", err
	}

	address, err := result.String("address")
	if err != nil {
		return "", errors.Wrap(err, "response did not contain an address")
	}

	return address, nil
}

//
// MakeWithdrawal withdraws the provided amount to an address. The API only permits withdrawals to
// addresses that have previously been marked as trusted; see the web package for the alternative.
//
func (o *Client) MakeWithdrawal(ctx context.Context, address string, amount decimal.Decimal) (Result, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("amount", amount.String())

	return o.callResult(ctx, MethodMakeWithdrawal, params)
}

//
// NormalizeCurrencyCode returns the canonical (upper-case) form of a currency code.
//
func NormalizeCurrencyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func marketParams(marketID string) url.Values {
	params := url.Values{}
	params.Set("marketid", marketID)

	return params
}

func (o *Client) callResult(ctx context.Context, method string, params url.Values) (Result, error) {
	payload, err := o.Call(ctx, method, params)
	if err != nil {
		return Result{}, err
	}

	return NewResult(payload), nil
}

func (o *Client) callInto(ctx context.Context, method string, params url.Values, v interface{}) error {
	result, err := o.callResult(ctx, method, params)
	if err != nil {
		return err
	}

	return result.Decode(v)
}
