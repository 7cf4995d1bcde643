package interp

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/emberboot/ember/image"
)

var errBoom = errors.New("boom")

// newTestEngine builds an engine over a fresh image registry with a
// captured console and empty input.
func newTestEngine() (*Engine, *bytes.Buffer) {
	var console bytes.Buffer
	e := New(image.NewRegistry(), &console, strings.NewReader(""))
	return e, &console
}

// mustScript probes and registers body as a script image.
func mustScript(t *testing.T, e *Engine, name, body string) *image.Image {
	t.Helper()
	img := image.New(name, []byte(body))
	if err := e.Images.Probe(img); err != nil {
		t.Fatalf("probe %s: %v", name, err)
	}
	e.Images.Register(img)
	return img
}

// installMark registers a "mark" command that records its argument
// strings in order.
func installMark(e *Engine) *[]string {
	var calls []string
	e.Commands.Register(&Command{
		Name:    "mark",
		Usage:   "[<text>...]",
		MinArgs: 0,
		MaxArgs: -1,
		Exec: func(_ *Engine, args []string) error {
			calls = append(calls, strings.Join(args, " "))
			return nil
		},
	})
	return &calls
}

// installFail registers a "fail" command that always returns errBoom.
func installFail(e *Engine) {
	e.Commands.Register(&Command{
		Name:    "fail",
		Usage:   "",
		MinArgs: 0,
		MaxArgs: 0,
		Exec: func(_ *Engine, _ []string) error {
			return errBoom
		},
	})
}

func wantCalls(t *testing.T, calls *[]string, want ...string) {
	t.Helper()
	if len(*calls) != len(want) {
		t.Fatalf("calls = %q, want %q", *calls, want)
	}
	for i := range want {
		if (*calls)[i] != want[i] {
			t.Fatalf("calls = %q, want %q", *calls, want)
		}
	}
}
