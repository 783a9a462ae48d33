package constants

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	//
	// Exchange endpoints.
	//
	APIBaseURL = "https://api.cryptsy.com"
	WebBaseURL = "https://www.cryptsy.com"

	//
	// Sender of every confirmation e-mail the exchange issues.
	//
	ConfirmationSender = "support@cryptsy.com"

	DefaultPollInterval = 3 * time.Second
	DefaultTimeout      = 30 * time.Second
	DefaultTradeLimit   = 200
)

var (
	withdrawalFee = decimal.RequireFromString("1.00000000")
)

//
// WithdrawalFee returns the fixed fee the web front end submits alongside a withdrawal request.
//
func WithdrawalFee() decimal.Decimal {
	return withdrawalFee
}
