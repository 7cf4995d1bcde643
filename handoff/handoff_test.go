package handoff

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/emberboot/ember/image"
)

func testRegistry() *image.Registry {
	r := image.NewRegistry()
	r.Register(image.New("boot", []byte("#!ipxe\necho hi\n")))
	r.Register(image.New("kernel", []byte{0x7f, 'E', 'L', 'F'}))
	return r
}

func TestSnapshot(t *testing.T) {
	r := testRegistry()

	m := Snapshot(r, false)
	if m.Version != FormatVersion {
		t.Errorf("Version = %d, want %d", m.Version, FormatVersion)
	}
	if len(m.Images) != 2 {
		t.Fatalf("Images = %d entries, want 2", len(m.Images))
	}

	d := m.Images[0]
	if d.Name != "boot" || d.Length != 15 {
		t.Errorf("descriptor = %+v", d)
	}
	if want := sha256.Sum256([]byte("#!ipxe\necho hi\n")); d.Digest != want {
		t.Errorf("Digest = %x, want %x", d.Digest, want)
	}
	if d.Data != nil {
		t.Errorf("Data carried without includeData")
	}
}

func TestSnapshotIncludeData(t *testing.T) {
	m := Snapshot(testRegistry(), true)
	if !bytes.Equal(m.Images[1].Data, []byte{0x7f, 'E', 'L', 'F'}) {
		t.Errorf("Data = %x", m.Images[1].Data)
	}
}

func TestRoundTrip(t *testing.T) {
	m := Snapshot(testRegistry(), true)

	data, err := MarshalManifest(m)
	if err != nil {
		t.Fatalf("MarshalManifest: %v", err)
	}
	got, err := UnmarshalManifest(data)
	if err != nil {
		t.Fatalf("UnmarshalManifest: %v", err)
	}
	if len(got.Images) != 2 || got.Images[0].Name != "boot" || got.Images[1].Name != "kernel" {
		t.Errorf("round trip lost images: %+v", got.Images)
	}
	if got.Images[0].Digest != m.Images[0].Digest {
		t.Errorf("round trip changed digest")
	}
}

func TestMarshalIsDeterministic(t *testing.T) {
	m := Snapshot(testRegistry(), true)

	a, err := MarshalManifest(m)
	if err != nil {
		t.Fatal(err)
	}
	b, err := MarshalManifest(m)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("canonical encoding produced different bytes")
	}
}

func TestUnmarshalRejectsUnknownVersion(t *testing.T) {
	m := Snapshot(testRegistry(), false)
	m.Version = 99

	data, err := MarshalManifest(m)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := UnmarshalManifest(data); err == nil {
		t.Error("UnmarshalManifest accepted version 99")
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	if _, err := UnmarshalManifest([]byte("not cbor at all")); err == nil {
		t.Error("UnmarshalManifest accepted garbage")
	}
}
