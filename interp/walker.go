package interp

import (
	"bytes"
	"errors"
)

// errEmptyScript is returned for a walk over a zero-length script. The
// probe rejects such blobs long before execution, but the walker does
// not rely on that.
var errEmptyScript = errors.New("empty script")

// ---------------------------------------------------------------------------
// Line walker
// ---------------------------------------------------------------------------

// processLines walks the active script from the beginning, feeding each
// newline-delimited line to process. After every line, terminate
// decides from that line's status whether the walk stops early; the
// status of the stopping line (or of the final line, when the script is
// exhausted) is returned.
//
// The cursor is advanced past each line before process runs, so a
// visitor that moves the cursor itself (goto) overrides the walker's
// own advancement. A final line with no terminating '\n' ends at the
// end of the script.
func (e *Engine) processLines(process func(line string) error, terminate func(error) bool) error {
	data := e.cursor.img.Data
	if len(data) == 0 {
		return errEmptyScript
	}

	e.cursor.offset = 0
	var err error
	for e.cursor.offset < len(data) {
		// Find the length of the next line, excluding any
		// terminating '\n'.
		eol := bytes.IndexByte(data[e.cursor.offset:], '\n')
		if eol < 0 {
			eol = len(data) - e.cursor.offset
		}
		line := string(data[e.cursor.offset : e.cursor.offset+eol])

		// Move to the next line before processing this one.
		e.cursor.offset += eol + 1

		err = process(line)
		if terminate(err) {
			return err
		}
	}
	return err
}

// stopOnFailure terminates a walk at the first line that fails.
func stopOnFailure(err error) bool {
	return err != nil
}

// stopOnSuccess terminates a walk at the first line that matches.
func stopOnSuccess(err error) bool {
	return err == nil
}
