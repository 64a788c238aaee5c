// Package extension provides the run-time registry of addressable services.
// A deferred call names its receiver by account id; the registry resolves
// that id to the types.Service that executes it.
package extension
