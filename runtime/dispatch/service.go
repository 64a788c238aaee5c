package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/viant/nftstub/extension"
	"github.com/viant/nftstub/internal/clock"
	"github.com/viant/nftstub/internal/idgen"
	"github.com/viant/nftstub/model/account"
	"github.com/viant/nftstub/model/promise"
	"github.com/viant/nftstub/runtime/env"
	"github.com/viant/nftstub/runtime/gas"
	"github.com/viant/nftstub/service/dao"
	"github.com/viant/nftstub/service/dao/criteria"
	"github.com/viant/nftstub/service/dao/store"
	"github.com/viant/nftstub/service/messaging"
	"github.com/viant/nftstub/service/messaging/memory"
	"github.com/viant/nftstub/tracing"
)

// Resulter is implemented by method outputs that carry a string result.
type Resulter interface {
	Result() promise.Value[string]
}

// Config represents dispatcher configuration
type Config struct {
	Workers      int           `json:"workers" yaml:"workers"`
	PollInterval time.Duration `json:"pollInterval" yaml:"pollInterval"`
}

// DefaultConfig returns the default dispatcher configuration
func DefaultConfig() Config {
	return Config{Workers: 2, PollInterval: 10 * time.Millisecond}
}

// Service schedules deferred calls, executes them on a worker pool and binds
// their results to the futures handed out by Schedule.
type Service struct {
	config   Config
	services *extension.Services
	queue    messaging.Queue[Call]
	receipts dao.Service[string, Receipt]
	logger   *slog.Logger

	mux     sync.Mutex
	pending map[string]*promise.Future[string]
	closed  bool

	cancel   context.CancelFunc
	workerWg sync.WaitGroup
}

// New creates a dispatcher routing calls to services.
func New(services *extension.Services, options ...Option) (*Service, error) {
	if services == nil {
		return nil, fmt.Errorf("services registry is required")
	}
	s := &Service{
		config:   DefaultConfig(),
		services: services,
		pending:  make(map[string]*promise.Future[string]),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.config.Workers <= 0 {
		return nil, fmt.Errorf("workers must be > 0")
	}
	if s.config.PollInterval <= 0 {
		s.config.PollInterval = DefaultConfig().PollInterval
	}
	if s.queue == nil {
		s.queue = memory.NewQueue[Call](memory.DefaultConfig())
	}
	if s.receipts == nil {
		s.receipts = NewReceipts()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// NewReceipts returns an in-memory receipt store filterable by status.
func NewReceipts() dao.Service[string, Receipt] {
	return store.NewMemoryStore[string, Receipt](func(r *Receipt) string { return r.ID },
		func(r *Receipt, parameters []*dao.Parameter) bool {
			return criteria.FilterByStatus(string(r.Status), parameters)
		})
}

// Receipts returns the receipt store.
func (s *Service) Receipts() dao.Service[string, Receipt] { return s.receipts }

// Schedule publishes a deferred call of method on receiver. The predecessor is
// the service executing in ctx; attached gas is burnt from the ctx meter and
// refunded when the call cannot be scheduled.
func (s *Service) Schedule(ctx context.Context, receiver account.ID, method string, args interface{}, deposit account.Balance, attached gas.Gas) (future *promise.Future[string], err error) {
	if meter := gas.FromContext(ctx); meter != nil {
		if err = meter.Burn(attached); err != nil {
			return nil, err
		}
		defer func() {
			if err != nil {
				meter.Refund(attached)
			}
		}()
	}
	data, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s args: %w", method, err)
	}
	call := &Call{
		ID:          idgen.New(),
		Receiver:    receiver,
		Method:      method,
		Args:        data,
		Deposit:     deposit,
		Gas:         attached,
		Predecessor: env.Current(ctx),
		CreatedAt:   clock.Now(),
	}

	future = promise.NewFuture[string]()
	s.mux.Lock()
	if s.closed {
		s.mux.Unlock()
		return nil, ErrShutdown
	}
	s.pending[call.ID] = future
	s.mux.Unlock()

	if err = s.receipts.Save(ctx, newReceipt(call)); err == nil {
		err = s.queue.Publish(ctx, call)
	}
	if err != nil {
		s.mux.Lock()
		delete(s.pending, call.ID)
		s.mux.Unlock()
		_ = s.receipts.Delete(ctx, call.ID)
		return nil, fmt.Errorf("failed to schedule %s.%s: %w", receiver, method, err)
	}
	return future, nil
}

// Execute runs call in the current goroutine with its own environment and a
// meter prepaid with the call's attached gas; only calls the method schedules
// are charged against it.
func (s *Service) Execute(ctx context.Context, call *Call) (ret promise.Value[string], err error) {
	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("dispatch.%s", call.Method), "CONSUMER")
	span.WithAttributes(map[string]string{
		"call.id":          call.ID,
		"call.receiver":    call.Receiver.String(),
		"call.predecessor": call.Predecessor.String(),
		"call.gas":         call.Gas.String(),
	})
	defer func() { tracing.EndSpan(span, err) }()

	service := s.services.Lookup(call.Receiver)
	if service == nil {
		return ret, fmt.Errorf("%w: %s", ErrServiceNotFound, call.Receiver)
	}
	signature := service.Methods().Lookup(call.Method)
	if signature == nil {
		return ret, fmt.Errorf("%w: %s.%s", ErrMethodNotFound, call.Receiver, call.Method)
	}
	method, err := service.Method(call.Method)
	if err != nil {
		return ret, fmt.Errorf("%w: %s.%s: %v", ErrMethodNotFound, call.Receiver, call.Method, err)
	}

	input, output := signature.NewInput(), signature.NewOutput()
	if len(call.Args) > 0 && input != nil {
		if err = json.Unmarshal(call.Args, input); err != nil {
			return ret, fmt.Errorf("failed to decode %s args: %w", call.Method, err)
		}
	}

	ctx = env.WithCurrent(ctx, call.Receiver)
	ctx = env.WithPredecessor(ctx, call.Predecessor)
	ctx = gas.WithMeter(ctx, gas.NewMeter(call.Gas))
	if err = method(ctx, input, output); err != nil {
		return ret, err
	}
	if resulter, ok := output.(Resulter); ok {
		return resulter.Result(), nil
	}
	return promise.Immediate(""), nil
}

// Start launches the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.cancel != nil {
		return fmt.Errorf("dispatcher already started")
	}
	if s.closed {
		return ErrShutdown
	}
	ctx, s.cancel = context.WithCancel(ctx)
	for i := 0; i < s.config.Workers; i++ {
		s.workerWg.Add(1)
		go s.run(ctx, i)
	}
	return nil
}

// Shutdown stops workers and fails calls still pending.
func (s *Service) Shutdown() {
	s.mux.Lock()
	if s.closed {
		s.mux.Unlock()
		return
	}
	s.closed = true
	cancel := s.cancel
	s.mux.Unlock()
	if cancel != nil {
		cancel()
	}
	s.workerWg.Wait()

	s.mux.Lock()
	pending := s.pending
	s.pending = map[string]*promise.Future[string]{}
	s.mux.Unlock()
	for _, future := range pending {
		future.Resolve("", ErrShutdown)
	}
}

// Pending returns the number of scheduled calls not yet resolved.
func (s *Service) Pending() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	return len(s.pending)
}

func (s *Service) run(ctx context.Context, id int) {
	defer s.workerWg.Done()
	for {
		msg, err := s.queue.Consume(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			s.logger.Error("failed to consume call", slog.Int("worker", id), slog.Any("error", err))
			time.Sleep(s.config.PollInterval)
			continue
		}
		if msg == nil {
			time.Sleep(s.config.PollInterval)
			continue
		}
		s.process(ctx, id, msg)
	}
}

func (s *Service) process(ctx context.Context, workerID int, msg messaging.Message[Call]) {
	call := msg.T()
	value, err := s.Execute(ctx, call)
	if err != nil {
		s.logger.Error("deferred call failed", slog.Int("worker", workerID), slog.String("call", call.ID),
			slog.String("method", call.Method), slog.Any("error", err))
		disposition, nErr := msg.Nack(err)
		if nErr != nil {
			s.logger.Error("failed to nack call", slog.String("call", call.ID), slog.Any("error", nErr))
		}
		if nErr == nil && !disposition.Terminal() {
			return
		}
		s.complete(ctx, call.ID, "", err)
		return
	}
	if aErr := msg.Ack(); aErr != nil {
		s.logger.Error("failed to ack call", slog.String("call", call.ID), slog.Any("error", aErr))
	}
	callID := call.ID
	value.Then(func(result string, err error) {
		s.complete(ctx, callID, result, err)
	})
}

func (s *Service) complete(ctx context.Context, callID string, result string, err error) {
	s.mux.Lock()
	future := s.pending[callID]
	delete(s.pending, callID)
	s.mux.Unlock()

	if receipt, lErr := s.receipts.Load(ctx, callID); lErr == nil && receipt != nil {
		updated := *receipt
		updated.Status, updated.Result = StatusResolved, result
		if err != nil {
			updated.Status, updated.Error = StatusFailed, err.Error()
		}
		updated.UpdatedAt = clock.Now()
		_ = s.receipts.Save(context.WithoutCancel(ctx), &updated)
	} else if lErr != nil && !errors.Is(lErr, dao.ErrNotFound) {
		s.logger.Error("failed to load receipt", slog.String("call", callID), slog.Any("error", lErr))
	}
	if future != nil {
		future.Resolve(result, err)
	}
}
