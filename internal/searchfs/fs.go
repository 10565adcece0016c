// Package searchfs provides a filesystem that lists each directory once and answers
// existence checks from the cached listing.
//
// Scanning probes every directory for ignore files that usually do not exist.
// Answering those probes from a directory listing avoids one failed open per
// probe on the underlying filesystem. Names must be slash-separated and clean,
// as for any fs.FS.
package searchfs

import (
	"io/fs"
	"path"
	"sync"
)

type FS struct {
	base    fs.FS
	mux     sync.Mutex
	listing map[string][]fs.DirEntry
}

func New(base fs.FS) *FS {
	return &FS{base: base, listing: make(map[string][]fs.DirEntry)}
}

// ReadDir lists a directory, reading it from the base filesystem only once.
func (sfs *FS) ReadDir(name string) ([]fs.DirEntry, error) {
	sfs.mux.Lock()
	entries, ok := sfs.listing[name]
	sfs.mux.Unlock()
	if ok {
		return entries, nil
	}

	entries, err := fs.ReadDir(sfs.base, name)
	if err != nil {
		return nil, err
	}
	sfs.mux.Lock()
	sfs.listing[name] = entries
	sfs.mux.Unlock()
	return entries, nil
}

func (sfs *FS) lookup(name string) (fs.DirEntry, error) {
	entries, err := sfs.ReadDir(path.Dir(name))
	if err != nil {
		return nil, err
	}
	base := path.Base(name)
	for _, e := range entries {
		if e.Name() == base {
			return e, nil
		}
	}
	return nil, fs.ErrNotExist
}

func (sfs *FS) Stat(name string) (fs.FileInfo, error) {
	if name == "." {
		return fs.Stat(sfs.base, name)
	}
	e, err := sfs.lookup(name)
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
	}
	return e.Info()
}

// Open opens a file if the cached listing of its directory contains it.
func (sfs *FS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if name != "." {
		if _, err := sfs.lookup(name); err != nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: err}
		}
	}
	return sfs.base.Open(name)
}

func (sfs *FS) ReadFile(name string) ([]byte, error) {
	if _, err := sfs.lookup(name); err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return fs.ReadFile(sfs.base, name)
}
