package web

const (
	Name = "≪cryptsy-web≫"

	LoginPath             = "/users/login"
	PincodePath           = "/users/pincode"
	AddTrustedAddressPath = "/users/addtrustedaddress"
	MakeWithdrawalPathFmt = "/users/makewithdrawal/%d"

	FormContentType = "application/x-www-form-urlencoded"

	MethodOverrideField = "_method"

	// DefaultTokenPattern matches the names of the hidden inputs that carry CSRF tokens, such as
	// "data[_Token][key]" and "csrfToken_abc".
	DefaultTokenPattern = `_Token|(?i)csrf`
)

//
// Form field names submitted by the web front end.
//
const (
	UsernameField = "data[User][username]"
	PasswordField = "data[User][password]"
	PincodeField  = "data[User][pincode]"

	CurrencyIDField       = "data[Withdrawal][currency_id]"
	AddressField          = "data[Withdrawal][address]"
	ExistingPasswordField = "data[Withdrawal][existing_password]"
	WithdrawalPinField    = "data[Withdrawal][pincode]"
	FeeField              = "data[Withdrawal][fee]"
	AmountField           = "data[Withdrawal][wdamount]"
	ApprovedAddressField  = "data[Withdrawal][approvedaddress]"
)
