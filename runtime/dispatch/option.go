package dispatch

import (
	"log/slog"
	"time"

	"github.com/viant/nftstub/service/dao"
	"github.com/viant/nftstub/service/messaging"
)

type Option func(*Service)

// WithQueue sets the queue deferred calls travel on.
func WithQueue(queue messaging.Queue[Call]) Option {
	return func(s *Service) { s.queue = queue }
}

// WithReceipts sets the receipt store.
func WithReceipts(receipts dao.Service[string, Receipt]) Option {
	return func(s *Service) { s.receipts = receipts }
}

// WithWorkers sets the number of worker goroutines
func WithWorkers(count int) Option {
	return func(s *Service) { s.config.Workers = count }
}

// WithPollInterval sets the idle delay for queues that do not block on Consume.
func WithPollInterval(interval time.Duration) Option {
	return func(s *Service) { s.config.PollInterval = interval }
}

// WithConfig sets the configuration for the service
func WithConfig(config Config) Option {
	return func(s *Service) { s.config = config }
}

// WithLogger sets the logger for worker failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}
