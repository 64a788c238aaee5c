package dispatch

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	"github.com/viant/nftstub/extension"
	"github.com/viant/nftstub/model/account"
	"github.com/viant/nftstub/model/promise"
	"github.com/viant/nftstub/model/types"
	"github.com/viant/nftstub/runtime/env"
	"github.com/viant/nftstub/runtime/gas"
	"github.com/viant/nftstub/service/dao"
	"github.com/viant/nftstub/service/dao/criteria"
	"github.com/viant/nftstub/service/messaging"
	"github.com/viant/nftstub/service/messaging/fs"
	"github.com/viant/nftstub/service/messaging/memory"
)

type msgInput struct {
	Msg string `json:"msg"`
}

type msgOutput struct {
	value promise.Value[string]
}

func (o *msgOutput) Result() promise.Value[string] { return o.value }

// stubService echoes, fails or chains an echo to itself; flaky fails on its
// first run only.
type stubService struct {
	dispatcher *Service
	callers    chan account.ID
	flakyRuns  atomic.Int32
	failRuns   atomic.Int32
}

func (s *stubService) Name() string { return "stub" }

func (s *stubService) Methods() types.Signatures {
	var sigs types.Signatures
	for _, name := range []string{"echo", "fail", "chain", "flaky", "remaining"} {
		sigs = append(sigs, types.Signature{Name: name, Input: reflect.TypeOf(&msgInput{}), Output: reflect.TypeOf(&msgOutput{})})
	}
	return sigs
}

func (s *stubService) Method(name string) (types.Executable, error) {
	switch name {
	case "echo":
		return func(ctx context.Context, in, out interface{}) error {
			if s.callers != nil {
				s.callers <- env.Predecessor(ctx)
			}
			out.(*msgOutput).value = promise.Immediate(in.(*msgInput).Msg)
			return nil
		}, nil
	case "fail":
		return func(ctx context.Context, in, out interface{}) error {
			s.failRuns.Add(1)
			return errors.New("boom")
		}, nil
	case "flaky":
		return func(ctx context.Context, in, out interface{}) error {
			if s.flakyRuns.Add(1) == 1 {
				return errors.New("transient")
			}
			out.(*msgOutput).value = promise.Immediate(in.(*msgInput).Msg)
			return nil
		}, nil
	case "remaining":
		return func(ctx context.Context, in, out interface{}) error {
			out.(*msgOutput).value = promise.Immediate(gas.Remaining(ctx).String())
			return nil
		}, nil
	case "chain":
		return func(ctx context.Context, in, out interface{}) error {
			future, err := s.dispatcher.Schedule(ctx, env.Current(ctx), "echo", in, 0, gas.Remaining(ctx))
			if err != nil {
				return err
			}
			out.(*msgOutput).value = promise.Pending(future)
			return nil
		}, nil
	}
	return nil, types.NewMethodNotFoundError(name)
}

func newTestDispatcher(t *testing.T, options ...Option) (*Service, *stubService) {
	services := extension.NewServices()
	stub := &stubService{}
	services.Register("stub.near", stub)
	dispatcher, err := New(services, options...)
	if err != nil {
		t.Fatalf("failed to create dispatcher: %v", err)
	}
	stub.dispatcher = dispatcher
	assert.NoError(t, dispatcher.Start(context.Background()))
	t.Cleanup(dispatcher.Shutdown)
	return dispatcher, stub
}

func TestService_Schedule(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var testCases = []struct {
		description string
		method      string
		receiver    account.ID
		msg         string
		expect      string
		expectErr   error
		status      Status
	}{
		{description: "echo", method: "echo", receiver: "stub.near", msg: "hello-world", expect: "hello-world", status: StatusResolved},
		{description: "empty message", method: "echo", receiver: "stub.near", msg: "", expect: "", status: StatusResolved},
		{description: "nested continuation", method: "chain", receiver: "stub.near", msg: "again", expect: "again", status: StatusResolved},
		{description: "method failure", method: "fail", receiver: "stub.near", status: StatusFailed},
		{description: "unknown method", method: "missing", receiver: "stub.near", expectErr: ErrMethodNotFound, status: StatusFailed},
		{description: "unknown receiver", method: "echo", receiver: "nobody.near", expectErr: ErrServiceNotFound, status: StatusFailed},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			dispatcher, _ := newTestDispatcher(t)
			callerCtx := gas.WithMeter(env.WithCurrent(ctx, "caller.near"), gas.NewMeter(100*gas.Tera))
			future, err := dispatcher.Schedule(callerCtx, testCase.receiver, testCase.method, &msgInput{Msg: testCase.msg}, 0, 50*gas.Tera)
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, 50*gas.Tera, gas.Remaining(callerCtx))

			actual, err := future.Wait(ctx)
			receipts, _ := dispatcher.Receipts().List(ctx, dao.NewParameter(criteria.StatusParameter, string(testCase.status)))
			assert.NotEmpty(t, receipts)
			assert.Equal(t, 0, dispatcher.Pending())
			if testCase.status == StatusFailed {
				assert.Error(t, err)
				if testCase.expectErr != nil {
					assert.ErrorIs(t, err, testCase.expectErr)
				}
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, testCase.expect, actual)
		})
	}
}

func TestService_ScheduleExceedsGas(t *testing.T) {
	dispatcher, _ := newTestDispatcher(t)
	ctx := gas.WithMeter(context.Background(), gas.NewMeter(gas.BaseGas))
	_, err := dispatcher.Schedule(ctx, "stub.near", "echo", &msgInput{}, 0, 6*gas.Tera)
	assert.ErrorIs(t, err, gas.ErrExceeded)
	receipts, _ := dispatcher.Receipts().List(ctx)
	assert.Empty(t, receipts)
}

func TestService_ScheduleRefundsGas(t *testing.T) {
	dispatcher, _ := newTestDispatcher(t)
	ctx := gas.WithMeter(context.Background(), gas.NewMeter(20*gas.Tera))

	_, err := dispatcher.Schedule(ctx, "stub.near", "echo", make(chan int), 0, 10*gas.Tera)
	assert.Error(t, err)
	assert.Equal(t, 20*gas.Tera, gas.Remaining(ctx))

	dispatcher.Shutdown()
	_, err = dispatcher.Schedule(ctx, "stub.near", "echo", &msgInput{}, 0, 10*gas.Tera)
	assert.ErrorIs(t, err, ErrShutdown)
	assert.Equal(t, 20*gas.Tera, gas.Remaining(ctx))
}

func TestService_ExecuteMeter(t *testing.T) {
	dispatcher, _ := newTestDispatcher(t)
	value, err := dispatcher.Execute(context.Background(), &Call{ID: "c1", Receiver: "stub.near", Method: "remaining", Gas: 42 * gas.Tera})
	if !assert.NoError(t, err) {
		return
	}
	actual, err := value.Await(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "42Tgas", actual)
}

func TestService_Retries(t *testing.T) {
	var testCases = []struct {
		description string
		queue       func(t *testing.T) messaging.Queue[Call]
		method      string
		expect      string
		expectErr   bool
		runs        func(stub *stubService) int32
		status      Status
	}{
		{
			description: "memory queue retry succeeds",
			queue:       newRetryMemoryQueue,
			method:      "flaky",
			expect:      "again",
			runs:        func(stub *stubService) int32 { return stub.flakyRuns.Load() },
			status:      StatusResolved,
		},
		{
			description: "fs queue retry succeeds",
			queue:       newRetryFsQueue,
			method:      "flaky",
			expect:      "again",
			runs:        func(stub *stubService) int32 { return stub.flakyRuns.Load() },
			status:      StatusResolved,
		},
		{
			description: "memory queue retries exhausted",
			queue:       newRetryMemoryQueue,
			method:      "fail",
			expectErr:   true,
			runs:        func(stub *stubService) int32 { return stub.failRuns.Load() },
			status:      StatusFailed,
		},
		{
			description: "fs queue retries exhausted",
			queue:       newRetryFsQueue,
			method:      "fail",
			expectErr:   true,
			runs:        func(stub *stubService) int32 { return stub.failRuns.Load() },
			status:      StatusFailed,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			dispatcher, stub := newTestDispatcher(t, WithQueue(testCase.queue(t)), WithPollInterval(time.Millisecond))

			future, err := dispatcher.Schedule(ctx, "stub.near", testCase.method, &msgInput{Msg: "again"}, 0, gas.Tera)
			if !assert.NoError(t, err) {
				return
			}
			actual, err := future.Wait(ctx)
			assert.Equal(t, int32(2), testCase.runs(stub))
			assert.False(t, future.Resolve("late", nil))
			if testCase.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, testCase.expect, actual)
			}

			time.Sleep(20 * time.Millisecond)
			assert.Equal(t, int32(2), testCase.runs(stub))
			receipts, _ := dispatcher.Receipts().List(ctx)
			if assert.Len(t, receipts, 1) {
				assert.Equal(t, testCase.status, receipts[0].Status)
			}
		})
	}
}

func newRetryMemoryQueue(t *testing.T) messaging.Queue[Call] {
	config := memory.DefaultConfig()
	config.MaxRetries = 1
	config.RetryDelay = time.Millisecond
	return memory.NewQueue[Call](config)
}

func newRetryFsQueue(t *testing.T) messaging.Queue[Call] {
	queue, err := fs.NewQueue[Call](afs.New(), fs.Config{BasePath: t.TempDir(), MaxRetries: 1})
	if err != nil {
		t.Fatalf("failed to create queue: %v", err)
	}
	return queue
}

func TestService_Predecessor(t *testing.T) {
	dispatcher, stub := newTestDispatcher(t)
	stub.callers = make(chan account.ID, 1)
	ctx := env.WithCurrent(context.Background(), "stub.near")
	future, err := dispatcher.Schedule(ctx, "stub.near", "echo", &msgInput{Msg: "x"}, 0, gas.Tera)
	assert.NoError(t, err)
	_, err = future.Wait(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, account.ID("stub.near"), <-stub.callers)
}

func TestService_FsQueue(t *testing.T) {
	queue, err := fs.NewQueue[Call](afs.New(), fs.Config{BasePath: t.TempDir()})
	if !assert.NoError(t, err) {
		return
	}
	dispatcher, _ := newTestDispatcher(t, WithQueue(queue), WithPollInterval(time.Millisecond))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	future, err := dispatcher.Schedule(ctx, "stub.near", "chain", &msgInput{Msg: "persisted"}, 0, 20*gas.Tera)
	if !assert.NoError(t, err) {
		return
	}
	actual, err := future.Wait(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "persisted", actual)
}

func TestService_Shutdown(t *testing.T) {
	services := extension.NewServices()
	dispatcher, err := New(services, WithWorkers(1))
	if !assert.NoError(t, err) {
		return
	}
	future, err := dispatcher.Schedule(context.Background(), "stub.near", "echo", &msgInput{}, 0, 0)
	assert.NoError(t, err)
	dispatcher.Shutdown()
	_, err = future.Wait(context.Background())
	assert.ErrorIs(t, err, ErrShutdown)

	_, err = dispatcher.Schedule(context.Background(), "stub.near", "echo", &msgInput{}, 0, 0)
	assert.ErrorIs(t, err, ErrShutdown)
	assert.ErrorIs(t, dispatcher.Start(context.Background()), ErrShutdown)
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
	_, err = New(extension.NewServices(), WithWorkers(0))
	assert.Error(t, err)
}
