package confirmation

import "regexp"

//
// Patterns matching the confirmation links the exchange e-mails out. The single capture group
// holds the path that must be visited within a logged in session.
//
var (
	ConfirmTrustedAddressPattern = regexp.MustCompile(`^https://www\.cryptsy\.com(/users/confirmtrustedaddress/.*)`)
	ConfirmWithdrawalPattern     = regexp.MustCompile(`^https://www\.cryptsy\.com(/users/confirmwithdrawal/.*)`)
)

//
// PatternFor returns the link pattern for a kind of confirmation ("trusted" or "withdrawal").
//
func PatternFor(kind string) (*regexp.Regexp, bool) {
	switch kind {
	case "trusted", "trustedaddress":
		return ConfirmTrustedAddressPattern, true
	case "withdrawal":
		return ConfirmWithdrawalPattern, true
	}

	return nil, false
}
