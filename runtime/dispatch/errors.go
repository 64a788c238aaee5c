package dispatch

import "errors"

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrMethodNotFound  = errors.New("method not found in service")
	ErrShutdown        = errors.New("dispatcher shut down")
)
