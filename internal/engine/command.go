package engine

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Command is an engine invocation: the invocation prefix followed by the subcommand arguments.
type Command struct {
	Prefix []string
	Args   []string
}

func (c *Command) Add(args ...string) {
	c.Args = append(c.Args, args...)
}

// AddFlag adds a presence flag when value is true.
func (c *Command) AddFlag(name string, value bool) {
	if value {
		c.Add(name)
	}
}

// AddSimpleArg adds `name value` unless value is empty.
func (c *Command) AddSimpleArg(name string, value string) {
	if value != "" {
		c.Add(name, value)
	}
}

// AddArgsList repeats `name value` for every value in order.
func (c *Command) AddArgsList(name string, values []string) {
	for _, value := range values {
		c.Add(name, value)
	}
}

// AddMapping repeats `name key=value` for every mapping entry sorted by key.
func (c *Command) AddMapping(name string, mapping map[string]string) {
	c.AddArgsList(name, FormatMapping(mapping))
}

func (c Command) Argv() []string {
	argv := make([]string, 0, len(c.Prefix)+len(c.Args))
	argv = append(argv, c.Prefix...)
	return append(argv, c.Args...)
}

// Subcommand returns the leading non-flag arguments (at most two of them): "volume inspect", "version".
func (c Command) Subcommand() string {
	var subcommand []string

	for _, arg := range c.Args {
		if len(subcommand) == 2 || strings.HasPrefix(arg, "-") {
			break
		}
		subcommand = append(subcommand, arg)
	}

	return strings.Join(subcommand, " ")
}

func (c Command) String() string {
	argv := c.Argv()

	quoted := make([]string, 0, len(argv))
	for _, arg := range argv {
		if arg == "" || strings.ContainsAny(arg, " \t\n\"'`$\\{}|&;<>()*?[]#~") {
			arg = strconv.Quote(arg)
		}
		quoted = append(quoted, arg)
	}

	return strings.Join(quoted, " ")
}

func FormatMapping(mapping map[string]string) []string {
	formatted := make([]string, 0, len(mapping))
	for _, key := range slices.Sorted(maps.Keys(mapping)) {
		formatted = append(formatted, key+"="+mapping[key])
	}
	return formatted
}
