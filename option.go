package nftstub

import (
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/nftstub/runtime/dispatch"
	"github.com/viant/nftstub/service/diagnostic"
	"github.com/viant/nftstub/service/messaging"
	"github.com/viant/nftstub/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the Service.
type Option func(s *Service)

// WithConfig replaces the default configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithSink sets the diagnostic sink receiving receiver log records.
func WithSink(sink diagnostic.Sink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithLogger sets the logger used by the platform and, without WithSink, the receiver.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithQueue overrides the configured deferred-call queue.
func WithQueue(queue messaging.Queue[dispatch.Call]) Option {
	return func(s *Service) { s.queue = queue }
}

// WithFs sets the storage service used by the fs queue vendor.
func WithFs(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}

// WithTracingExporter configures OpenTelemetry tracing with a custom exporter.
// The first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
