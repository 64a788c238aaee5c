package nftstub

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/nftstub/model/account"
	"github.com/viant/nftstub/runtime/dispatch"
	"github.com/viant/nftstub/service/diagnostic"
	"github.com/viant/nftstub/service/messaging"
	"github.com/viant/nftstub/service/messaging/fs"
	"github.com/viant/nftstub/service/messaging/memory"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the receiver setup. The
// zero-value of nested sections falls back to package defaults.
type Config struct {
	// AccountID is the receiver's own account; deferred calls target it.
	AccountID string `json:"accountId" yaml:"accountId"`
	// TokenAccountID, when set, initializes the receiver at startup.
	TokenAccountID string            `json:"tokenAccountId" yaml:"tokenAccountId"`
	Dispatch       dispatch.Config   `json:"dispatch" yaml:"dispatch"`
	Queue          QueueConfig       `json:"queue" yaml:"queue"`
	Log            diagnostic.Config `json:"log" yaml:"log"`
	Tracing        TracingConfig     `json:"tracing" yaml:"tracing"`
}

type QueueConfig struct {
	Vendor messaging.Vendor `json:"vendor" yaml:"vendor"`
	Buffer int              `json:"buffer" yaml:"buffer"`
	Fs     fs.Config        `json:"fs" yaml:"fs"`
}

type TracingConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Service string `json:"service" yaml:"service"`
	Version string `json:"version" yaml:"version"`
	Output  string `json:"output" yaml:"output"`
}

// DefaultConfig returns a Config with the package defaults.
func DefaultConfig() *Config {
	return &Config{
		AccountID: "receiver.test.near",
		Dispatch:  dispatch.DefaultConfig(),
		Queue: QueueConfig{
			Vendor: messaging.VendorMemory,
			Buffer: memory.DefaultConfig().QueueBuffer,
			Fs:     fs.DefaultConfig(),
		},
		Log:     diagnostic.Config{Level: "info", Format: "text"},
		Tracing: TracingConfig{Service: "nftstub", Version: "0.1.0"},
	}
}

// Validate returns an error describing the first invalid setting.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config was nil")
	}
	if err := account.Validate(c.AccountID); err != nil {
		return fmt.Errorf("accountId: %w", err)
	}
	if c.TokenAccountID != "" {
		if err := account.Validate(c.TokenAccountID); err != nil {
			return fmt.Errorf("tokenAccountId: %w", err)
		}
	}
	if c.Dispatch.Workers <= 0 {
		return fmt.Errorf("dispatch.workers must be > 0")
	}
	switch c.Queue.Vendor {
	case messaging.VendorMemory:
	case messaging.VendorFs:
		if c.Queue.Fs.BasePath == "" {
			return fmt.Errorf("queue.fs.basePath is required for fs vendor")
		}
	default:
		return fmt.Errorf("unsupported queue vendor: %s", c.Queue.Vendor)
	}
	return nil
}

// LoadConfig reads a YAML (or JSON) config from URL over defaults.
func LoadConfig(ctx context.Context, URL string, fsService afs.Service) (*Config, error) {
	if fsService == nil {
		fsService = afs.New()
	}
	data, err := fsService.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", URL, err)
	}
	return ret, ret.Validate()
}
