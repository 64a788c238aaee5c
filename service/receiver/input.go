package receiver

import (
	"github.com/viant/nftstub/model/account"
	"github.com/viant/nftstub/model/promise"
)

// InitInput configures the receiver.
type InitInput struct {
	TokenAccountID string `json:"non_fungible_token_account_id"`
}

// InitOutput is empty.
type InitOutput struct{}

// OnApproveInput is an approval notification.
type OnApproveInput struct {
	TokenID    string     `json:"token_id"`
	OwnerID    account.ID `json:"owner_id"`
	ApprovalID uint64     `json:"approval_id"`
	Msg        string     `json:"msg"`
}

// EchoInput carries the message echoed by the continuation.
type EchoInput struct {
	Msg string `json:"msg"`
}

// Output holds a string result that may still be pending.
type Output struct {
	Value promise.Value[string] `json:"-"`
}

// Result returns the output value.
func (o *Output) Result() promise.Value[string] { return o.Value }
