package interp

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/emberboot/ember/image"
)

// Script signatures. The probe reads exactly one signature-sized chunk,
// so the two must have the same length.
const (
	ipxeMagic = "#!ipxe"
	gpxeMagic = "#!gpxe"
)

var _ = [1]struct{}{}[len(ipxeMagic)-len(gpxeMagic)]

var (
	ErrTooShort = errors.New("too short to be a script")
	ErrBadMagic = errors.New("invalid magic signature")
)

// ---------------------------------------------------------------------------
// Script image type
// ---------------------------------------------------------------------------

// scriptType is the image type for ember scripts: newline-separated
// command lines behind a "#!ipxe" or "#!gpxe" signature.
type scriptType struct {
	engine *Engine
}

func (t *scriptType) Name() string {
	return "script"
}

// Probe accepts blobs that start with a script signature followed by a
// single whitespace byte. Nothing beyond the signature is read or
// copied; lines are picked out of the image as execution needs them.
func (t *scriptType) Probe(img *image.Image) error {
	n := len(ipxeMagic) + 1
	if len(img.Data) < n {
		return ErrTooShort
	}
	head := img.Data[:n-1]
	if !bytes.Equal(head, []byte(ipxeMagic)) && !bytes.Equal(head, []byte(gpxeMagic)) {
		return ErrBadMagic
	}
	if !isSpace(img.Data[n-1]) {
		return ErrBadMagic
	}
	return nil
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// execLine runs a single script line. Label lines are inert under
// sequential execution; a failing command line is echoed to the console
// before its status propagates.
func (t *scriptType) execLine(line string) error {
	e := t.engine
	log.Debugf("$ %s", line)

	if strings.HasPrefix(line, ":") {
		return nil
	}

	if err := e.Commands.ExecLine(e, line); err != nil {
		if !errors.As(err, new(ExitError)) {
			fmt.Fprintf(e.Console, "Aborting on %q\n", line)
		}
		return err
	}
	return nil
}

// Exec runs the script line by line until the first failure or the end
// of the script.
//
// The image is taken out of the registry for the duration of execution,
// so that an imgexec command inside the script cannot find the still
// running image and recurse through the registry lookup. The cursor of
// any currently running script is preserved across the call; both
// restorations happen on every exit path.
func (t *scriptType) Exec(img *image.Image) error {
	e := t.engine

	e.Images.Unregister(img)
	defer e.Images.Register(img)

	saved := e.cursor
	defer func() { e.cursor = saved }()

	e.cursor = cursor{img: img}
	return e.processLines(t.execLine, stopOnFailure)
}
