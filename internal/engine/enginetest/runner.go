// Package enginetest provides engine runners for tests.
package enginetest

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/xerrors"

	"github.com/KonishchevDmitry/whales/internal/engine"
)

var Prefix = []string{"docker"}

type response struct {
	output string
	err    error
}

// Runner is a fake engine runner which replies with preconfigured responses and records all invocations.
// Responses are matched by the space-joined command arguments (without prefix). When several responses are
// configured for the same arguments, they are returned in order and the last one is repeated.
type Runner struct {
	lock      sync.Mutex
	responses map[string][]response
	calls     []engine.Command
}

var _ engine.Runner = &Runner{}

func NewRunner() *Runner {
	return &Runner{responses: make(map[string][]response)}
}

// NewCaller returns a caller which uses the runner with the default prefix.
func (r *Runner) NewCaller(options ...engine.CallerOption) *engine.Caller {
	return engine.NewCaller(r, Prefix, options...)
}

func (r *Runner) On(args string, output string) *Runner {
	return r.add(args, response{output: output})
}

func (r *Runner) OnError(args string, err error) *Runner {
	return r.add(args, response{err: err})
}

// OnFailure emulates a non-zero engine exit with the specified stderr.
func (r *Runner) OnFailure(args string, stderr string) *Runner {
	return r.add(args, response{err: &engine.InvocationError{
		Command:  engine.Command{Prefix: Prefix, Args: strings.Fields(args)},
		ExitCode: 1,
		Stderr:   stderr,
		Err:      xerrors.New("exit status 1"),
	}})
}

func (r *Runner) add(args string, response response) *Runner {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.responses[args] = append(r.responses[args], response)
	return r
}

func (r *Runner) Run(ctx context.Context, command engine.Command) (string, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.calls = append(r.calls, command)

	args := strings.Join(command.Args, " ")
	responses := r.responses[args]
	if len(responses) == 0 {
		return "", xerrors.Errorf("Unexpected command: %s", command)
	}

	response := responses[0]
	if len(responses) > 1 {
		r.responses[args] = responses[1:]
	}

	return response.output, response.err
}

func (r *Runner) Calls() []engine.Command {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]engine.Command(nil), r.calls...)
}

// Args returns space-joined arguments of all recorded calls.
func (r *Runner) Args() []string {
	var args []string
	for _, call := range r.Calls() {
		args = append(args, strings.Join(call.Args, " "))
	}
	return args
}

func (r *Runner) Count(args string) int {
	var count int
	for _, call := range r.Args() {
		if call == args {
			count++
		}
	}
	return count
}

func (r *Runner) Reset() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.calls = nil
}
