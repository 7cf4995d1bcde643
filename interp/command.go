package interp

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("incorrect usage")
)

// ---------------------------------------------------------------------------
// Command registry and dispatch
// ---------------------------------------------------------------------------

// Command is one entry in the dispatch table.
type Command struct {
	Name    string
	Usage   string
	MinArgs int
	MaxArgs int // -1 for unlimited
	Exec    func(e *Engine, args []string) error
}

// Registry maps command names to implementations.
type Registry struct {
	commands map[string]*Command
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Command)}
}

// Register adds cmd to the table, replacing any command of the same
// name.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
}

// Lookup finds a command by name.
func (r *Registry) Lookup(name string) (*Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// ExecLine tokenizes line and dispatches it. Empty lines and comment
// lines are successful no-ops. A nil return means success; the engine
// does not interpret command errors beyond that.
func (r *Registry) ExecLine(e *Engine, line string) error {
	args, err := Tokenize(line)
	if err != nil {
		fmt.Fprintf(e.Console, "%v\n", err)
		return err
	}
	if len(args) == 0 {
		return nil
	}

	cmd, ok := r.commands[args[0]]
	if !ok {
		fmt.Fprintf(e.Console, "%s: command not found\n", args[0])
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}

	args = args[1:]
	if len(args) < cmd.MinArgs || (cmd.MaxArgs >= 0 && len(args) > cmd.MaxArgs) {
		fmt.Fprintf(e.Console, "Usage: %s %s\n", cmd.Name, cmd.Usage)
		return fmt.Errorf("%w: %s", ErrUsage, cmd.Name)
	}

	return cmd.Exec(e, args)
}
