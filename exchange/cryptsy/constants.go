package cryptsy

const (
	Name = "≪cryptsy-api≫"

	KeyHeader         = "Key"
	SignHeader        = "Sign"
	ContentTypeHeader = "Content-Type"
	FormContentType   = "application/x-www-form-urlencoded"

	APIPath = "/api"
)

//
// Method identifiers understood by the authenticated API endpoint.
//
const (
	MethodGetInfo            = "getinfo"
	MethodGetMarkets         = "getmarkets"
	MethodMyOrders           = "myorders"
	MethodAllMyOrders        = "allmyorders"
	MethodMyTrades           = "mytrades"
	MethodAllMyTrades        = "allmytrades"
	MethodMyTransactions     = "mytransactions"
	MethodMyTransfers        = "mytransfers"
	MethodDepth              = "depth"
	MethodMarketOrders       = "marketorders"
	MethodMarketTrades       = "markettrades"
	MethodCreateOrder        = "createorder"
	MethodCancelOrder        = "cancelorder"
	MethodCancelMarketOrders = "cancelmarketorders"
	MethodCancelAllOrders    = "cancelallorders"
	MethodCalculateFees      = "calculatefees"
	MethodGenerateNewAddress = "generatenewaddress"
	MethodMakeWithdrawal     = "makewithdrawal"
)
