// Package interp implements the boot-time script execution environment:
// the command dispatch table, the script image type, and the shared
// execution cursor that sequential execution and goto both move.
package interp

import (
	"io"

	"github.com/tliron/commonlog"

	"github.com/emberboot/ember/image"
)

var log = commonlog.GetLogger("interp")

// ---------------------------------------------------------------------------
// Engine: the execution environment
// ---------------------------------------------------------------------------

// Engine ties together the command registry, the image registry, and
// the console. Exactly one Engine drives execution at a time; all
// execution within it is single-threaded and synchronous.
type Engine struct {
	Commands *Registry
	Images   *image.Registry
	Console  io.Writer
	Input    io.Reader

	// cursor identifies the currently executing script and the read
	// position within it. Sequential execution and label search both
	// move it; a nested execution saves and restores it, so exactly
	// one cursor is live per call depth.
	cursor cursor
}

// cursor is the execution cursor: the active script image and the byte
// offset of the next line within it. A nil img means no script is
// running.
type cursor struct {
	img    *image.Image
	offset int
}

// New creates an engine, installs the builtin commands, and registers
// the script image type with images.
func New(images *image.Registry, console io.Writer, input io.Reader) *Engine {
	e := &Engine{
		Commands: NewRegistry(),
		Images:   images,
		Console:  console,
		Input:    input,
	}
	registerBuiltins(e.Commands)
	images.RegisterType(&scriptType{engine: e})
	return e
}

// Active reports whether a script is currently executing.
func (e *Engine) Active() bool {
	return e.cursor.img != nil
}
