package main

import (
	"context"
	"fmt"

	"github.com/viant/nftstub/model/account"
	"github.com/viant/nftstub/runtime/gas"
	"github.com/viant/nftstub/service/receiver"
)

// ApproveCmd sends nft_on_approve on behalf of the caller.
type ApproveCmd struct {
	base
	Caller     string `short:"c" long:"caller" description:"calling account, defaults to the token account"`
	TokenID    string `long:"token-id" required:"true" description:"approved token id"`
	OwnerID    string `long:"owner" required:"true" description:"token owner account"`
	ApprovalID uint64 `long:"approval-id" description:"approval id"`
	Msg        string `short:"m" long:"msg" default:"return-now" description:"approval message"`
	Tgas       uint64 `long:"tgas" default:"300" description:"prepaid gas in Tgas"`
}

func (c *ApproveCmd) Execute(_ []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.Timeout)
	defer cancel()
	srv, err := c.service(ctx)
	if err != nil {
		return err
	}
	defer srv.Shutdown()

	caller := c.Caller
	if caller == "" && srv.Receiver().Config() != nil {
		caller = srv.Receiver().Config().TokenAccountID.String()
	}
	input := &receiver.OnApproveInput{
		TokenID:    c.TokenID,
		OwnerID:    account.ID(c.OwnerID),
		ApprovalID: c.ApprovalID,
		Msg:        c.Msg,
	}
	result, err := srv.Invoke(ctx, account.ID(caller), receiver.MethodOnApprove, input, gas.Gas(c.Tgas)*gas.Tera)
	if err != nil {
		return err
	}
	fmt.Println(result)
	return nil
}
