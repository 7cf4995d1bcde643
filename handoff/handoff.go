// Package handoff serializes the state of the image registry for a
// next-stage loader. Descriptors are encoded as canonical CBOR so that
// the same registry state always produces the same bytes, and each
// descriptor carries a content hash the receiver can verify against
// the image data it obtains.
package handoff

import (
	"crypto/sha256"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/emberboot/ember/image"
)

// FormatVersion is the current handoff manifest format.
const FormatVersion = 1

// Descriptor describes one registered image.
type Descriptor struct {
	Name   string   `cbor:"1,keyasint"`
	Type   string   `cbor:"2,keyasint"`
	Length uint64   `cbor:"3,keyasint"`
	Digest [32]byte `cbor:"4,keyasint"`
	Data   []byte   `cbor:"5,keyasint,omitempty"` // inline image bytes
}

// Manifest is the complete handoff payload.
type Manifest struct {
	Version uint8        `cbor:"1,keyasint"`
	Images  []Descriptor `cbor:"2,keyasint"`
}

// cborEncMode uses canonical mode for deterministic encoding.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("handoff: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Snapshot builds a manifest from the images currently registered in r.
// When includeData is true the image bytes are carried inline;
// otherwise only the digest identifies them.
func Snapshot(r *image.Registry, includeData bool) *Manifest {
	m := &Manifest{Version: FormatVersion}
	for _, img := range r.List() {
		d := Descriptor{
			Name:   img.Name,
			Type:   img.TypeName(),
			Length: uint64(img.Len()),
			Digest: sha256.Sum256(img.Data),
		}
		if includeData {
			d.Data = img.Data
		}
		m.Images = append(m.Images, d)
	}
	return m
}

// MarshalManifest serializes a Manifest to CBOR bytes.
func MarshalManifest(m *Manifest) ([]byte, error) {
	return cborEncMode.Marshal(m)
}

// UnmarshalManifest deserializes a Manifest from CBOR bytes.
func UnmarshalManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := cbor.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("handoff: unmarshal manifest: %w", err)
	}
	if m.Version != FormatVersion {
		return nil, fmt.Errorf("handoff: unsupported format version %d", m.Version)
	}
	return &m, nil
}
