package payment

import "errors"

// Rejection reasons. Each is a terminal, non-retryable verdict on a claimed
// transaction: the claim is wrong, not the infrastructure. Oracle outages are
// NOT rejections; those surface as chain.ErrUnavailable and a caller may
// safely retry the identical claim.
var (
	ErrUnknownTariff       = errors.New("no tariff configured for chain and purpose")
	ErrUnsupportedChain    = errors.New("no oracle configured for chain")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNotConfirmed        = errors.New("transaction not confirmed")
	ErrWrongRecipient      = errors.New("transaction recipient does not match tariff")
	ErrAmountMismatch      = errors.New("transferred amount does not match tariff")
)

// IsRejection reports whether err is a verification rejection (the caller's
// claim is invalid) as opposed to an infrastructure failure.
func IsRejection(err error) bool {
	for _, r := range []error{
		ErrUnknownTariff,
		ErrUnsupportedChain,
		ErrTransactionNotFound,
		ErrNotConfirmed,
		ErrWrongRecipient,
		ErrAmountMismatch,
	} {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}
