package engine

import (
	"github.com/mattn/go-shellwords"
	"golang.org/x/xerrors"
)

const DefaultBinary = "docker"

// GlobalOptions are engine flags which precede any subcommand.
type GlobalOptions struct {
	Host    string
	Context string
	Config  string
}

// ParsePrefix builds an invocation prefix from a shell-like engine command ("docker", "sudo podman") and the global
// engine options.
func ParsePrefix(engine string, options GlobalOptions) ([]string, error) {
	prefix, err := shellwords.Parse(engine)
	if err != nil {
		return nil, xerrors.Errorf("Invalid engine command %q: %w", engine, err)
	} else if len(prefix) == 0 {
		return nil, xerrors.New("Engine command is not specified")
	}

	command := Command{Prefix: prefix}
	command.AddSimpleArg("--config", options.Config)
	command.AddSimpleArg("--context", options.Context)
	command.AddSimpleArg("--host", options.Host)

	return command.Argv(), nil
}
