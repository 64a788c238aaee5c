package nftstub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/nftstub/extension"
	"github.com/viant/nftstub/internal/clock"
	"github.com/viant/nftstub/internal/idgen"
	"github.com/viant/nftstub/model/account"
	"github.com/viant/nftstub/runtime/dispatch"
	"github.com/viant/nftstub/runtime/gas"
	"github.com/viant/nftstub/service/diagnostic"
	"github.com/viant/nftstub/service/messaging"
	"github.com/viant/nftstub/service/messaging/fs"
	"github.com/viant/nftstub/service/messaging/memory"
	"github.com/viant/nftstub/service/receiver"
	"github.com/viant/nftstub/tracing"
)

// Service hosts the approval receiver on an in-process execution platform.
type Service struct {
	config     *Config
	services   *extension.Services
	dispatcher *dispatch.Service
	receiver   *receiver.Service
	queue      messaging.Queue[dispatch.Call]
	sink       diagnostic.Sink
	logger     *slog.Logger
	fs         afs.Service
}

// New wires the platform, registers the receiver under Config.AccountID and
// starts the dispatcher workers.
func New(options ...Option) (*Service, error) {
	ret := &Service{config: DefaultConfig(), services: extension.NewServices()}
	for _, option := range options {
		option(ret)
	}
	if err := ret.init(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) init() error {
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.logger == nil {
		s.logger = diagnostic.NewLogger(s.config.Log, nil)
	}
	if s.sink == nil {
		s.sink = diagnostic.NewSlog(s.logger)
	}
	if s.config.Tracing.Enabled {
		if err := tracing.Init(s.config.Tracing.Service, s.config.Tracing.Version, s.config.Tracing.Output); err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
	}
	if s.queue == nil {
		queue, err := s.newQueue()
		if err != nil {
			return err
		}
		s.queue = queue
	}

	var err error
	if s.dispatcher, err = dispatch.New(s.services,
		dispatch.WithConfig(s.config.Dispatch),
		dispatch.WithQueue(s.queue),
		dispatch.WithLogger(s.logger)); err != nil {
		return err
	}
	options := []receiver.Option{receiver.WithSink(s.sink)}
	if s.config.TokenAccountID != "" {
		options = append(options, receiver.WithTokenAccount(s.config.TokenAccountID))
	}
	if s.receiver, err = receiver.New(s.dispatcher, options...); err != nil {
		return err
	}
	s.services.Register(s.AccountID(), s.receiver)
	return s.dispatcher.Start(context.Background())
}

func (s *Service) newQueue() (messaging.Queue[dispatch.Call], error) {
	switch s.config.Queue.Vendor {
	case messaging.VendorFs:
		if s.fs == nil {
			s.fs = afs.New()
		}
		return fs.NewQueue[dispatch.Call](s.fs, s.config.Queue.Fs)
	default:
		config := memory.DefaultConfig()
		if s.config.Queue.Buffer > 0 {
			config.QueueBuffer = s.config.Queue.Buffer
		}
		return memory.NewQueue[dispatch.Call](config), nil
	}
}

// AccountID returns the receiver's own account id.
func (s *Service) AccountID() account.ID {
	return account.ID(s.config.AccountID)
}

// Config returns the active configuration.
func (s *Service) Config() *Config { return s.config }

// Receiver returns the approval receiver.
func (s *Service) Receiver() *receiver.Service { return s.receiver }

// Dispatcher returns the deferred-call dispatcher.
func (s *Service) Dispatcher() *dispatch.Service { return s.dispatcher }

// Invoke simulates a top-level call of method on the receiver by caller with
// prepaid gas, waiting for deferred results.
func (s *Service) Invoke(ctx context.Context, caller account.ID, method string, args interface{}, prepaid gas.Gas) (string, error) {
	data, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s args: %w", method, err)
	}
	call := &dispatch.Call{
		ID:          idgen.New(),
		Receiver:    s.AccountID(),
		Method:      method,
		Args:        data,
		Gas:         prepaid,
		Predecessor: caller,
		CreatedAt:   clock.Now(),
	}
	value, err := s.dispatcher.Execute(ctx, call)
	if err != nil {
		return "", err
	}
	return value.Await(ctx)
}

// Shutdown stops the dispatcher; pending deferred calls fail.
func (s *Service) Shutdown() {
	s.dispatcher.Shutdown()
}
