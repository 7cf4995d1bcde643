package image

import (
	"fmt"
)

// ---------------------------------------------------------------------------
// Registry: the set of currently registered images and known types
// ---------------------------------------------------------------------------

// Registry tracks known image types and currently registered images.
// Registration order is preserved; Find returns the first image with a
// matching name.
//
// The boot environment is single-threaded, so the registry takes no
// locks. An executing image is temporarily unregistered for the
// duration of its execution, which is what keeps a script from
// re-triggering itself through a registry lookup.
type Registry struct {
	images []*Image
	types  []Type
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterType adds an image type to the probe order.
func (r *Registry) RegisterType(t Type) {
	r.types = append(r.types, t)
}

// Probe tags img with the first registered type that recognizes it.
func (r *Registry) Probe(img *Image) error {
	for _, t := range r.types {
		if err := t.Probe(img); err != nil {
			log.Debugf("image %s is not %s: %v", img.Name, t.Name(), err)
			continue
		}
		img.Type = t
		log.Debugf("image %s recognized as %s", img.Name, t.Name())
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnrecognized, img.Name)
}

// Register adds img to the registry. Registering an image that is
// already present is a no-op.
func (r *Registry) Register(img *Image) {
	for _, existing := range r.images {
		if existing == img {
			return
		}
	}
	r.images = append(r.images, img)
	log.Debugf("registered image %s (%s)", img.Name, img.Handle)
}

// Unregister removes img from the registry. The image itself remains
// valid and executable; only registry lookups stop finding it.
func (r *Registry) Unregister(img *Image) {
	for i, existing := range r.images {
		if existing == img {
			r.images = append(r.images[:i], r.images[i+1:]...)
			log.Debugf("unregistered image %s", img.Name)
			return
		}
	}
}

// Find returns the registered image with the given name.
func (r *Registry) Find(name string) (*Image, error) {
	for _, img := range r.images {
		if img.Name == name {
			return img, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// List returns the registered images in registration order.
func (r *Registry) List() []*Image {
	out := make([]*Image, len(r.images))
	copy(out, r.images)
	return out
}

// Len returns the number of registered images.
func (r *Registry) Len() int {
	return len(r.images)
}
