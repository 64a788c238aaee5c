package receiver

import "errors"

var (
	ErrUnauthorizedCaller    = errors.New("only supports the one non-fungible token contract")
	ErrInsufficientResources = errors.New("insufficient gas for deferred call")
	ErrDoubleInitialization  = errors.New("receiver already initialized")
	ErrUninitializedUse      = errors.New("receiver not initialized")
)
