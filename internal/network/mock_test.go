package network

import (
	"fmt"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/KonishchevDmitry/whales/internal/engine"
)

func gomockController(t *testing.T) *gomock.Controller {
	return gomock.NewController(t)
}

type subcommandMatcher string

func matchSubcommand(subcommand string) gomock.Matcher {
	return subcommandMatcher(subcommand)
}

func (m subcommandMatcher) Matches(x any) bool {
	command, ok := x.(engine.Command)
	return ok && command.Subcommand() == string(m)
}

func (m subcommandMatcher) String() string {
	return fmt.Sprintf("is %q command", string(m))
}
