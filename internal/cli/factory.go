package cli

import (
	"context"
	"sync"

	"github.com/logrusorgru/aurora"

	"phototag/internal/bootstrap"
	"phototag/internal/config"
)

// Factory is used by commands to share configuration and the lazily opened runtime.
type Factory struct {
	Context context.Context
	Config  config.Config
	NoColor bool

	mu   sync.Mutex
	rt   *bootstrap.Runtime
	open func(context.Context, config.Config) (*bootstrap.Runtime, error)
}

// Option is a Factory option.
type Option func(*Factory)

// Context returns an Option that sets the Context of a Factory.
func Context(ctx context.Context) Option {
	return func(f *Factory) {
		f.Context = ctx
	}
}

// Runtime returns an Option that provides an already opened runtime.
func Runtime(rt *bootstrap.Runtime) Option {
	return func(f *Factory) {
		f.rt = rt
	}
}

// NewFactory returns a Factory configured from the environment.
func NewFactory(opts ...Option) *Factory {
	f := Factory{
		Config: config.FromEnv(),
		open:   bootstrap.Open,
	}
	f.Config.LogLevel = "warn"
	f.Config.LogFormat = "text"
	for _, opt := range opts {
		opt(&f)
	}
	if f.Context == nil {
		f.Context = context.Background()
	}
	return &f
}

// Runtime opens the runtime on first use.
func (f *Factory) Runtime() (*bootstrap.Runtime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rt != nil {
		return f.rt, nil
	}
	if err := f.Config.Validate(); err != nil {
		return nil, err
	}
	rt, err := f.open(f.Context, f.Config)
	if err != nil {
		return nil, err
	}
	f.rt = rt
	return rt, nil
}

// Close releases the runtime if one was opened.
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rt == nil {
		return nil
	}
	err := f.rt.Close()
	f.rt = nil
	return err
}

// Colors returns the aurora instance honoring --no-color.
func (f *Factory) Colors() aurora.Aurora {
	return aurora.NewAurora(!f.NoColor)
}
