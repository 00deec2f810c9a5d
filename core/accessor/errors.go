package accessor

import "errors"

// errors
var (
	ErrUnknownContract = errors.New("unknown contract")
	ErrUnknownMethod   = errors.New("unknown method")
	ErrNotReadMethod   = errors.New("not a read method")
	ErrNoSigner        = errors.New("no signer configured")
	ErrTxReverted      = errors.New("transaction reverted")
	ErrQueryClosed     = errors.New("query closed")
)
