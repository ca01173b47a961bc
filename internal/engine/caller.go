package engine

import (
	"context"
	"slices"
	"time"

	"k8s.io/utils/clock"
)

const DefaultDebounce = 200 * time.Millisecond

// Caller holds everything collection clients and handles need to talk to the engine.
type Caller struct {
	runner   Runner
	prefix   []string
	clock    clock.PassiveClock
	debounce time.Duration
}

type CallerOption func(caller *Caller)

func WithClock(clock clock.PassiveClock) CallerOption {
	return func(caller *Caller) {
		caller.clock = clock
	}
}

// WithDebounce sets the period during which inspect results are considered fresh.
func WithDebounce(debounce time.Duration) CallerOption {
	return func(caller *Caller) {
		caller.debounce = debounce
	}
}

func NewCaller(runner Runner, prefix []string, options ...CallerOption) *Caller {
	caller := &Caller{
		runner:   runner,
		prefix:   slices.Clone(prefix),
		clock:    clock.RealClock{},
		debounce: DefaultDebounce,
	}
	for _, option := range options {
		option(caller)
	}
	return caller
}

func (c *Caller) Command(args ...string) Command {
	return Command{
		Prefix: slices.Clone(c.prefix),
		Args:   slices.Clone(args),
	}
}

func (c *Caller) Run(ctx context.Context, command Command) (string, error) {
	return c.runner.Run(ctx, command)
}

// RunLines runs the command and splits its output into non-empty lines.
func (c *Caller) RunLines(ctx context.Context, command Command) ([]string, error) {
	output, err := c.Run(ctx, command)
	if err != nil {
		return nil, err
	}
	return SplitLines(output), nil
}

func (c *Caller) Clock() clock.PassiveClock {
	return c.clock
}

func (c *Caller) Debounce() time.Duration {
	return c.debounce
}
