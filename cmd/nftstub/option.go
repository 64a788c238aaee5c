package main

import (
	"context"
	"time"

	"github.com/viant/nftstub"
)

// Options is the root command; struct tags are interpreted by
// github.com/jessevdk/go-flags.
type Options struct {
	Config       string        `short:"f" long:"config" description:"receiver config YAML/JSON URL"`
	AccountID    string        `short:"a" long:"account" description:"receiver account id"`
	TokenAccount string        `short:"t" long:"token-account" description:"token account allowed to call nft_on_approve"`
	Timeout      time.Duration `long:"timeout" default:"30s" description:"deferred result timeout"`
	Approve      *ApproveCmd   `command:"approve" description:"Send an approval notification to the receiver"`
	Echo         *EchoCmd      `command:"echo" description:"Call the receiver echo method"`
}

type optionsAware interface {
	setOptions(opts *Options)
}

type base struct {
	opts *Options
}

func (b *base) setOptions(opts *Options) { b.opts = opts }

func (b *base) service(ctx context.Context) (*nftstub.Service, error) {
	config := nftstub.DefaultConfig()
	if b.opts.Config != "" {
		var err error
		if config, err = nftstub.LoadConfig(ctx, b.opts.Config, nil); err != nil {
			return nil, err
		}
	}
	if b.opts.AccountID != "" {
		config.AccountID = b.opts.AccountID
	}
	if b.opts.TokenAccount != "" {
		config.TokenAccountID = b.opts.TokenAccount
	}
	return nftstub.New(nftstub.WithConfig(config))
}
