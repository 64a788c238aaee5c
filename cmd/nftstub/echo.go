package main

import (
	"context"
	"fmt"

	"github.com/viant/nftstub/model/account"
	"github.com/viant/nftstub/service/receiver"
)

// EchoCmd calls the continuation method directly.
type EchoCmd struct {
	base
	Caller string `short:"c" long:"caller" default:"anyone.near" description:"calling account"`
	Msg    string `short:"m" long:"msg" description:"message to echo"`
}

func (c *EchoCmd) Execute(_ []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.Timeout)
	defer cancel()
	srv, err := c.service(ctx)
	if err != nil {
		return err
	}
	defer srv.Shutdown()
	result, err := srv.Invoke(ctx, account.ID(c.Caller), receiver.MethodEcho, &receiver.EchoInput{Msg: c.Msg}, 0)
	if err != nil {
		return err
	}
	fmt.Println(result)
	return nil
}
