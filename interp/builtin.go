package interp

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
)

// ExitError carries the status of an "exit" command out of the script
// walk. The executor terminates on it like any other non-success
// status, but without echoing an abort message; the CLI unwraps it for
// the process exit code.
type ExitError struct {
	Status int
}

func (e ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Status)
}

// ---------------------------------------------------------------------------
// Builtin commands
// ---------------------------------------------------------------------------

func registerBuiltins(r *Registry) {
	r.Register(&Command{
		Name:    "echo",
		Usage:   "[<text>...]",
		MinArgs: 0,
		MaxArgs: -1,
		Exec:    echoExec,
	})
	r.Register(&Command{
		Name:    "sleep",
		Usage:   "<seconds>",
		MinArgs: 1,
		MaxArgs: 1,
		Exec:    sleepExec,
	})
	r.Register(&Command{
		Name:    "exit",
		Usage:   "[<status>]",
		MinArgs: 0,
		MaxArgs: 1,
		Exec:    exitExec,
	})
	r.Register(&Command{
		Name:    "imgstat",
		Usage:   "",
		MinArgs: 0,
		MaxArgs: 0,
		Exec:    imgstatExec,
	})
	r.Register(&Command{
		Name:    "imgexec",
		Usage:   "<name>",
		MinArgs: 1,
		MaxArgs: 1,
		Exec:    imgexecExec,
	})
	r.Register(&Command{
		Name:    "goto",
		Usage:   "<label>",
		MinArgs: 1,
		MaxArgs: 1,
		Exec:    gotoExec,
	})
	r.Register(&Command{
		Name:    "prompt",
		Usage:   "[<text>...]",
		MinArgs: 0,
		MaxArgs: -1,
		Exec:    promptExec,
	})
	r.Register(&Command{
		Name:    "shell",
		Usage:   "",
		MinArgs: 0,
		MaxArgs: 0,
		Exec:    shellExec,
	})
}

func echoExec(e *Engine, args []string) error {
	fmt.Fprintln(e.Console, strings.Join(args, " "))
	return nil
}

func sleepExec(e *Engine, args []string) error {
	secs, err := strconv.Atoi(args[0])
	if err != nil || secs < 0 {
		fmt.Fprintf(e.Console, "sleep: bad duration %q\n", args[0])
		return fmt.Errorf("%w: sleep %s", ErrUsage, args[0])
	}
	time.Sleep(time.Duration(secs) * time.Second)
	return nil
}

func exitExec(e *Engine, args []string) error {
	status := 0
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(e.Console, "exit: bad status %q\n", args[0])
			return fmt.Errorf("%w: exit %s", ErrUsage, args[0])
		}
		status = n
	}
	return ExitError{Status: status}
}

func imgstatExec(e *Engine, args []string) error {
	for _, img := range e.Images.List() {
		fmt.Fprintf(e.Console, "%s : %d bytes [%s]\n", img.Name, img.Len(), img.TypeName())
	}
	return nil
}

// imgexecExec executes a registered image by name. When the named image
// is a script this is the re-entrant path: the nested execution runs
// under its own cursor and the calling script resumes on the next line.
func imgexecExec(e *Engine, args []string) error {
	img, err := e.Images.Find(args[0])
	if err != nil {
		fmt.Fprintf(e.Console, "imgexec: %v\n", err)
		return err
	}
	return img.Execute()
}

func promptExec(e *Engine, args []string) error {
	if len(args) > 0 {
		fmt.Fprintln(e.Console, strings.Join(args, " "))
	}
	r := bufio.NewReader(e.Input)
	if _, err := r.ReadString('\n'); err != nil {
		return fmt.Errorf("prompt: %w", err)
	}
	return nil
}

// shellExec runs an interactive command loop on the engine's input.
// Command failures are reported but do not end the loop; "exit" (or end
// of input) does. The prompt is only printed when input is a terminal.
func shellExec(e *Engine, args []string) error {
	interactive := false
	if f, ok := e.Input.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}

	scanner := bufio.NewScanner(e.Input)
	for {
		if interactive {
			fmt.Fprint(e.Console, "ember> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		err := e.Commands.ExecLine(e, scanner.Text())
		var exit ExitError
		if errors.As(err, &exit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(e.Console, "%v\n", err)
		}
	}
}
