package interp

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotInScript   = errors.New("not in a script")
	ErrLabelNotFound = errors.New("label not found")
)

// ---------------------------------------------------------------------------
// goto: relocate the cursor to a ":label" line
// ---------------------------------------------------------------------------

// gotoExec implements the "goto" command. The label search walks the
// active script from the beginning, so jumps work both forward and
// backward; the first matching label wins. On a match the cursor has
// already been moved just past the label line by the walker, which is
// the jump. On a miss the cursor is put back exactly where it was.
func gotoExec(e *Engine, args []string) error {
	label := args[0]

	if !e.Active() {
		fmt.Fprintln(e.Console, "Not in a script")
		return ErrNotInScript
	}

	saved := e.cursor.offset
	err := e.processLines(func(line string) error {
		if !strings.HasPrefix(line, ":") || line[1:] != label {
			return ErrLabelNotFound
		}
		return nil
	}, stopOnSuccess)
	if err != nil {
		e.cursor.offset = saved
		return fmt.Errorf("%w: %s", ErrLabelNotFound, label)
	}
	return nil
}
