package engine

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/xerrors"

	"github.com/KonishchevDmitry/whales/internal/logging"
)

//go:generate go tool mockgen -destination=enginetest/mock_runner.go -package=enginetest . Runner

// Runner executes engine commands and returns their stdout.
type Runner interface {
	Run(ctx context.Context, command Command) (string, error)
}

type execRunner struct{}

var _ Runner = execRunner{}

func NewRunner() Runner {
	return execRunner{}
}

func (r execRunner) Run(ctx context.Context, command Command) (string, error) {
	argv := command.Argv()
	if len(argv) == 0 {
		return "", &ArgumentError{Err: xerrors.New("Empty engine command")}
	}

	logging.L(ctx).Debugf("Running `%s`...", command)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	startTime := time.Now()
	err := cmd.Run()
	observeInvocation(command.Subcommand(), time.Since(startTime), err)

	if err != nil {
		exitCode := -1

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.Exited() {
			exitCode = exitErr.ExitCode()
		}

		return "", &InvocationError{
			Command:  command,
			ExitCode: exitCode,
			Stderr:   stderr.String(),
			Err:      err,
		}
	}

	return strings.TrimSpace(stdout.String()), nil
}
