// Package commands runs "cmd <name> [flags]" lines typed into the debug console.
package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
)

const prefix = "cmd "

// ErrUnknown is returned for a subcommand that was never registered.
var ErrUnknown = errors.New("unknown command")

// Command is a subcommand with its own flags and a Run function.
// Run is called after the FlagSet has parsed the arguments and receives the positional rest.
type Command struct {
	Name    string
	Usage   string
	FlagSet *flag.FlagSet
	Run     func(args []string) error
}

// Registry holds subcommands by name.
type Registry struct {
	cmds map[string]*Command
}

// NewRegistry returns an empty command registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]*Command)}
}

// Register adds a subcommand. A nil fs gets an empty FlagSet. Flag errors are returned, not printed.
func (r *Registry) Register(name, usage string, fs *flag.FlagSet, run func(args []string) error) {
	if fs == nil {
		fs = flag.NewFlagSet(name, flag.ContinueOnError)
	}
	fs.SetOutput(io.Discard)
	r.cmds[name] = &Command{Name: name, Usage: usage, FlagSet: fs, Run: run}
}

// Names returns the registered subcommands, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cmds))
	for n := range r.cmds {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Help returns one usage line per command.
func (r *Registry) Help() []string {
	var out []string
	for _, n := range r.Names() {
		out = append(out, prefix+n+" "+r.cmds[n].Usage)
	}
	return out
}

// Parse interprets line as a console line. If line starts with "cmd " the rest is split on
// spaces and returned with ok true. Otherwise nil, false.
func Parse(line string) (args []string, ok bool) {
	if !strings.HasPrefix(line, prefix) {
		return nil, false
	}
	rest := strings.TrimSpace(line[len(prefix):])
	if rest == "" {
		return nil, true
	}
	return strings.Fields(rest), true
}

// Execute runs the subcommand in args[0] with args[1:] as flag/positional arguments.
func (r *Registry) Execute(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("commands: missing subcommand (have %s)", strings.Join(r.Names(), ", "))
	}
	cmd, ok := r.cmds[args[0]]
	if !ok {
		return fmt.Errorf("commands: %s: %w", args[0], ErrUnknown)
	}
	fs := cmd.FlagSet
	nflags := 0
	fs.VisitAll(func(*flag.Flag) { nflags++ })
	if nflags == 0 {
		// Positional only, so negative numbers are not mistaken for flags.
		return cmd.Run(args[1:])
	}
	// Flags start from their defaults on every run.
	defer fs.VisitAll(func(f *flag.Flag) { _ = f.Value.Set(f.DefValue) })
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("commands: %s: %w", cmd.Name, err)
	}
	return cmd.Run(fs.Args())
}
