// Package image manages executable images: opaque byte blobs that are
// recognized by a registered image type and executed through it. The
// package holds only non-owning references to image data; a recognized
// image is never copied, its contents are read in place by whichever
// type claimed it.
package image

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("image")

var (
	ErrUnrecognized = errors.New("unrecognized image format")
	ErrNotFound     = errors.New("image not found")
)

// ---------------------------------------------------------------------------
// Image: an executable blob plus boot-environment metadata
// ---------------------------------------------------------------------------

// Image is a single executable blob. Data is immutable once the image
// has been probed; Type is nil until a registered type recognizes the
// image.
type Image struct {
	Name    string
	Data    []byte
	CmdLine string
	Handle  uuid.UUID
	Type    Type
}

// New creates an image over data. The blob is held by reference, not
// copied.
func New(name string, data []byte) *Image {
	return &Image{
		Name:   name,
		Data:   data,
		Handle: uuid.New(),
	}
}

// Len returns the length of the image data in bytes.
func (img *Image) Len() int {
	return len(img.Data)
}

// TypeName returns the name of the recognized type, or "unknown" for an
// image that has not been probed successfully.
func (img *Image) TypeName() string {
	if img.Type == nil {
		return "unknown"
	}
	return img.Type.Name()
}

// Execute dispatches execution to the image's recognized type.
func (img *Image) Execute() error {
	if img.Type == nil {
		return fmt.Errorf("%w: %s", ErrUnrecognized, img.Name)
	}
	log.Debugf("executing image %s (%s, %d bytes)", img.Name, img.Type.Name(), len(img.Data))
	return img.Type.Exec(img)
}

// ---------------------------------------------------------------------------
// Type: one recognizable image format
// ---------------------------------------------------------------------------

// Type recognizes and executes one image format.
type Type interface {
	// Name identifies the format, e.g. "script".
	Name() string

	// Probe inspects img and returns nil if the blob is in this
	// type's format. Probe must not retain or modify the image.
	Probe(img *Image) error

	// Exec runs the image. Called only after a successful Probe has
	// tagged the image with this type.
	Exec(img *Image) error
}
