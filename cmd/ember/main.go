// Ember CLI - loads boot images and executes script images.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"

	"github.com/emberboot/ember/handoff"
	"github.com/emberboot/ember/image"
	"github.com/emberboot/ember/interp"
	"github.com/emberboot/ember/manifest"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose output")
	manifestPath := flag.String("c", "", "Path to ember.toml (default: ./ember.toml if present)")
	registerOnly := flag.Bool("n", false, "Register images without executing them")
	shellMode := flag.Bool("shell", false, "Drop into an interactive shell after loading")
	handoffPath := flag.String("handoff", "", "Write a CBOR handoff manifest to this file on exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ember [options] [script...]\n\n")
		fmt.Fprintf(os.Stderr, "Loads each path as an image, probes its format, and executes script images.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  ember boot.ipxe            # Run a boot script\n")
		fmt.Fprintf(os.Stderr, "  ember -n a.ipxe -shell     # Register a.ipxe, then interactive shell\n")
		fmt.Fprintf(os.Stderr, "  ember -c /boot/ember.toml  # Boot from a manifest\n")
	}
	flag.Parse()

	if *verbose {
		commonlog.Configure(2, nil)
	} else {
		commonlog.Configure(0, nil)
	}

	// Locate and load the manifest, if any.
	var mf *manifest.Manifest
	if *manifestPath != "" {
		var err error
		mf, err = manifest.LoadFile(*manifestPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading manifest: %v\n", err)
			os.Exit(1)
		}
	} else if _, err := os.Stat("ember.toml"); err == nil {
		mf, err = manifest.Load(".")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading manifest: %v\n", err)
			os.Exit(1)
		}
	}

	var console io.Writer = os.Stdout
	if mf != nil && mf.Console.Quiet {
		console = io.Discard
	}

	images := image.NewRegistry()
	engine := interp.New(images, console, os.Stdin)

	// Preload images named by the manifest.
	if mf != nil {
		for name, path := range mf.Images {
			if err := loadImage(images, name, mf.ResolvePath(path)); err != nil {
				fmt.Fprintf(os.Stderr, "Error loading image %s: %v\n", name, err)
				os.Exit(1)
			}
		}
	}

	// Load and register the command-line scripts.
	var toRun []*image.Image
	for _, path := range flag.Args() {
		img, err := loadAndRegister(images, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		toRun = append(toRun, img)
	}

	// The manifest's startup script runs first when autoexec is set.
	if mf != nil && mf.Boot.Autoexec && mf.Boot.Script != "" {
		img, err := loadAndRegister(images, mf.ResolvePath(mf.Boot.Script))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		toRun = append([]*image.Image{img}, toRun...)
	}

	status := 0
	if !*registerOnly {
		for _, img := range toRun {
			if err := img.Execute(); err != nil {
				var exit interp.ExitError
				if errors.As(err, &exit) {
					status = exit.Status
				} else {
					status = 1
				}
				break
			}
		}
	}

	if *shellMode {
		if err := engine.Commands.ExecLine(engine, "shell"); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			status = 1
		}
	}

	out := *handoffPath
	if out == "" && mf != nil {
		out = mf.ResolvePath(mf.Handoff.Output)
	}
	if out != "" {
		includeData := mf != nil && mf.Handoff.IncludeData
		if err := writeHandoff(images, out, includeData); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing handoff manifest: %v\n", err)
			status = 1
		}
	}

	os.Exit(status)
}

// loadImage reads path and registers its contents under name. Probe
// failures are tolerated: an unrecognized image stays registered as
// plain data, visible to imgstat but not executable.
func loadImage(r *image.Registry, name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	img := image.New(name, data)
	if err := r.Probe(img); err != nil && !errors.Is(err, image.ErrUnrecognized) {
		return err
	}
	r.Register(img)
	return nil
}

// loadAndRegister reads path as an image named after its base name; the
// image must be of a recognized type.
func loadAndRegister(r *image.Registry, path string) (*image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img := image.New(filepath.Base(path), data)
	if err := r.Probe(img); err != nil {
		return nil, err
	}
	r.Register(img)
	return img, nil
}

func writeHandoff(r *image.Registry, path string, includeData bool) error {
	data, err := handoff.MarshalManifest(handoff.Snapshot(r, includeData))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
