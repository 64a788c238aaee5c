package types

// Service is an addressable set of methods, registered under an account id.
type Service interface {
	Name() string
	Methods() Signatures
	Method(name string) (Executable, error)
}
