package receiver

import "github.com/viant/nftstub/service/diagnostic"

type Option func(*Service)

// WithSink sets the diagnostic sink, slog.Default based when not set.
func WithSink(sink diagnostic.Sink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithTokenAccount initializes the receiver at construction.
func WithTokenAccount(id string) Option {
	return func(s *Service) { s.tokenAccountID = id }
}
