package dispatch

import (
	"encoding/json"
	"time"

	"github.com/viant/nftstub/model/account"
	"github.com/viant/nftstub/runtime/gas"
)

// Call is a deferred method invocation on an addressable service.
type Call struct {
	ID          string          `json:"id"`
	Receiver    account.ID      `json:"receiver"`
	Method      string          `json:"method"`
	Args        json.RawMessage `json:"args,omitempty"`
	Deposit     account.Balance `json:"deposit"`
	Gas         gas.Gas         `json:"gas"`
	Predecessor account.ID      `json:"predecessor"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Status of a dispatched call.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusResolved  Status = "resolved"
	StatusFailed    Status = "failed"
)

// Receipt records a dispatched call and its outcome.
type Receipt struct {
	ID          string          `json:"id"`
	Receiver    account.ID      `json:"receiver"`
	Method      string          `json:"method"`
	Args        json.RawMessage `json:"args,omitempty"`
	Deposit     account.Balance `json:"deposit"`
	Gas         gas.Gas         `json:"gas"`
	Predecessor account.ID      `json:"predecessor"`
	Status      Status          `json:"status"`
	Result      string          `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func newReceipt(call *Call) *Receipt {
	return &Receipt{
		ID:          call.ID,
		Receiver:    call.Receiver,
		Method:      call.Method,
		Args:        call.Args,
		Deposit:     call.Deposit,
		Gas:         call.Gas,
		Predecessor: call.Predecessor,
		Status:      StatusScheduled,
		CreatedAt:   call.CreatedAt,
		UpdatedAt:   call.CreatedAt,
	}
}
