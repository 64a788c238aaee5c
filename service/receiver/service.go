package receiver

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"sync/atomic"

	"github.com/viant/nftstub/model/account"
	"github.com/viant/nftstub/model/promise"
	"github.com/viant/nftstub/model/types"
	"github.com/viant/nftstub/runtime/env"
	"github.com/viant/nftstub/runtime/gas"
	"github.com/viant/nftstub/service/diagnostic"
	"github.com/viant/nftstub/tracing"
)

const name = "receiver"

const (
	MethodInit      = "new"
	MethodOnApprove = "nft_on_approve"
	MethodEcho      = "echo"
)

const (
	// ReturnNow selects the synchronous path.
	ReturnNow = "return-now"
	// ImmediateResult is returned on the synchronous path.
	ImmediateResult = "cool"

	NoDeposit account.Balance = 0
	// GasForOnApprove is kept back from the allowance forwarded to echo.
	GasForOnApprove = gas.BaseGas + gas.PromiseCallGas
)

// Scheduler dispatches deferred calls.
type Scheduler interface {
	Schedule(ctx context.Context, receiver account.ID, method string, args interface{}, deposit account.Balance, attached gas.Gas) (*promise.Future[string], error)
}

// Config is the write-once receiver state.
type Config struct {
	TokenAccountID account.ID
}

// Service is the approval receiver.
type Service struct {
	config         atomic.Pointer[Config]
	scheduler      Scheduler
	sink           diagnostic.Sink
	tokenAccountID string
}

// New creates a receiver; it stays uninitialized until Init unless
// WithTokenAccount is given.
func New(scheduler Scheduler, options ...Option) (*Service, error) {
	if scheduler == nil {
		return nil, fmt.Errorf("scheduler is required")
	}
	s := &Service{scheduler: scheduler}
	for _, opt := range options {
		opt(s)
	}
	if s.sink == nil {
		s.sink = diagnostic.NewSlog(nil)
	}
	if s.tokenAccountID != "" {
		if err := s.Init(context.Background(), &InitInput{TokenAccountID: s.tokenAccountID}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Config returns the receiver configuration, nil before Init.
func (s *Service) Config() *Config {
	return s.config.Load()
}

// Init sets the only account allowed to call OnApprove. It succeeds once.
func (s *Service) Init(ctx context.Context, input *InitInput) error {
	tokenAccountID, err := account.Parse(input.TokenAccountID)
	if err != nil {
		return err
	}
	if !s.config.CompareAndSwap(nil, &Config{TokenAccountID: tokenAccountID}) {
		return ErrDoubleInitialization
	}
	return nil
}

// OnApprove handles an approval notification. Only the configured token
// account may call it. "return-now" resolves to "cool"; any other message
// resolves to itself through a deferred echo call.
func (s *Service) OnApprove(ctx context.Context, input *OnApproveInput) (ret promise.Value[string], err error) {
	config := s.config.Load()
	if config == nil {
		return ret, ErrUninitializedUse
	}
	if caller := env.Predecessor(ctx); caller != config.TokenAccountID {
		return ret, fmt.Errorf("%w: caller %q", ErrUnauthorizedCaller, caller)
	}

	ctx, span := tracing.StartSpan(ctx, "receiver."+MethodOnApprove, "SERVER")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{
		"token.id":    input.TokenID,
		"approval.id": strconv.FormatUint(input.ApprovalID, 10),
	})

	s.sink.Log(ctx, "in "+MethodOnApprove,
		slog.String("token_id", input.TokenID),
		slog.String("owner_id", input.OwnerID.String()),
		slog.Uint64("approval_id", input.ApprovalID),
		slog.String("message", input.Msg))

	if input.Msg == ReturnNow {
		return promise.Immediate(ImmediateResult), nil
	}

	attached, err := gas.Reserve(gas.Remaining(ctx), GasForOnApprove)
	if err != nil {
		return ret, fmt.Errorf("%w: %w", ErrInsufficientResources, err)
	}
	self := env.Current(ctx)
	if self == "" {
		return ret, fmt.Errorf("current account is unknown")
	}
	future, err := s.scheduler.Schedule(ctx, self, MethodEcho, &EchoInput{Msg: input.Msg}, NoDeposit, attached)
	if err != nil {
		return ret, err
	}
	return promise.Pending(future), nil
}

// Echo returns msg unchanged. Any account may call it.
func (s *Service) Echo(ctx context.Context, input *EchoInput) promise.Value[string] {
	s.sink.Log(ctx, "in "+MethodEcho, slog.String("message", input.Msg))
	return promise.Immediate(input.Msg)
}

// Name returns the service name
func (s *Service) Name() string {
	return name
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        MethodInit,
			Description: "Sets the token account allowed to send approval notifications.",
			Input:       reflect.TypeOf(&InitInput{}),
			Output:      reflect.TypeOf(&InitOutput{}),
		},
		{
			Name:        MethodOnApprove,
			Description: "Handles an approval notification from the token account.",
			Input:       reflect.TypeOf(&OnApproveInput{}),
			Output:      reflect.TypeOf(&Output{}),
		},
		{
			Name:        MethodEcho,
			Description: "Returns the given message unchanged.",
			Input:       reflect.TypeOf(&EchoInput{}),
			Output:      reflect.TypeOf(&Output{}),
		},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch name {
	case MethodInit:
		return s.init, nil
	case MethodOnApprove:
		return s.onApprove, nil
	case MethodEcho:
		return s.echo, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) init(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*InitInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	return s.Init(ctx, input)
}

func (s *Service) onApprove(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*OnApproveInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	value, err := s.OnApprove(ctx, input)
	if err != nil {
		return err
	}
	output.Value = value
	return nil
}

func (s *Service) echo(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*EchoInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	output.Value = s.Echo(ctx, input)
	return nil
}

var _ types.Service = (*Service)(nil)
