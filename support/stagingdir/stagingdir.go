// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package stagingdir builds output files in a temporary directory and moves
// them into place only once they are complete.
package stagingdir

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// D manages a staging directory.
//
// While D is active, it resides in a temporary location. Once finished, a
// file within D can be committed, which atomically moves it to its
// destination. Destroying D deletes it along with all of its contents.
//
// Since commits are renames, D should be created on the same filesystem as
// the destination.
type D struct {
	// path is the path of the staging directory.
	path string
}

// New creates a new staging directory underneath of tempDir.
//
// The directory will be created with the specified prefix.
func New(tempDir, prefix string) (*D, error) {
	stagingPath, err := os.MkdirTemp(tempDir, prefix)
	if err != nil {
		return nil, err
	}
	return &D{path: stagingPath}, nil
}

// ForDestination creates a staging directory next to dest, so that files
// can be renamed onto dest.
func ForDestination(dest string) (*D, error) {
	return New(filepath.Dir(dest), "."+filepath.Base(dest)+".staging")
}

// Path builds a path relative to the staging directory from the provided
// components.
func (sd *D) Path(first string, components ...string) string {
	if sd.path == "" {
		panic("invalid")
	}

	// Common case: one component underneath of staging directory.
	if len(components) == 0 {
		return filepath.Join(sd.path, first)
	}

	comps := make([]string, 0, 2+len(components))
	comps = append(comps, sd.path, first)
	return filepath.Join(append(comps, components...)...)
}

// Create creates a file named name within the staging directory.
func (sd *D) Create(name string) (*os.File, error) {
	return os.Create(sd.Path(name))
}

// Destroy purges the staging directory and its contents.
func (sd *D) Destroy() error {
	if sd.path == "" {
		// There is nothing to destroy.
		return nil
	}

	if err := os.RemoveAll(sd.path); err != nil {
		return err
	}

	sd.path = "" // Destroyed.
	return nil
}

// Commit atomically moves the staged file name to dest, replacing any file
// already there, and then destroys the staging directory.
func (sd *D) Commit(name, dest string) error {
	if sd.path == "" {
		return errors.New("invalid staging directory")
	}

	if st, err := os.Stat(dest); err == nil && st.IsDir() {
		return errors.Errorf("destination %q is a directory", dest)
	}

	src := sd.Path(name)
	if err := os.Rename(src, dest); err != nil {
		return errors.Wrapf(err, "moving staged file into place (%q => %q)", src, dest)
	}
	return sd.Destroy()
}
