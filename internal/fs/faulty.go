package fs

import (
	"errors"
	"os"
	"strings"
	"sync"
)

// ErrInjected is returned by operations failed by a FaultyFS.
var ErrInjected = errors.New("injected fault")

// Fault describes how operations on matching paths fail.
type Fault struct {
	// FailAfterBytes fails writes once the file would exceed this size.
	// Negative disables the limit.
	FailAfterBytes int64
	FailOnSync     bool
	FailOnClose    bool
	FailOnRename   bool
}

// FaultyFS wraps a FileSystem and fails operations on paths containing a
// rule's pattern.
type FaultyFS struct {
	FS FileSystem

	mu    sync.Mutex
	rules map[string]Fault
}

// NewFaultyFS wraps fsys, or Default if nil.
func NewFaultyFS(fsys FileSystem) *FaultyFS {
	if fsys == nil {
		fsys = Default
	}
	return &FaultyFS{FS: fsys, rules: make(map[string]Fault)}
}

// AddRule installs fault for paths containing pattern.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

// ClearRules removes all rules.
func (f *FaultyFS) ClearRules() {
	f.mu.Lock()
	defer f.mu.Unlock()
	clear(f.rules)
}

func (f *FaultyFS) match(path string) Fault {
	f.mu.Lock()
	defer f.mu.Unlock()

	fault := Fault{FailAfterBytes: -1}
	for pattern, rule := range f.rules {
		if strings.Contains(path, pattern) {
			fault = rule
		}
	}
	return fault
}

// CreateTemp implements FileSystem.
func (f *FaultyFS) CreateTemp(dir, prefix string) (File, error) {
	file, err := f.FS.CreateTemp(dir, prefix)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fault: f.match(file.Name())}, nil
}

// Rename implements FileSystem. Rules are matched against oldpath.
func (f *FaultyFS) Rename(oldpath, newpath string) error {
	if f.match(oldpath).FailOnRename {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: ErrInjected}
	}
	return f.FS.Rename(oldpath, newpath)
}

func (f *FaultyFS) Remove(name string) error { return f.FS.Remove(name) }

func (f *FaultyFS) MkdirAll(path string, perm os.FileMode) error {
	return f.FS.MkdirAll(path, perm)
}

type faultyFile struct {
	File
	fault   Fault
	written int64
}

func (ff *faultyFile) Write(p []byte) (int, error) {
	if ff.fault.FailAfterBytes >= 0 && ff.written+int64(len(p)) > ff.fault.FailAfterBytes {
		return 0, ErrInjected
	}
	n, err := ff.File.Write(p)
	ff.written += int64(n)
	return n, err
}

func (ff *faultyFile) Sync() error {
	if ff.fault.FailOnSync {
		return ErrInjected
	}
	return ff.File.Sync()
}

func (ff *faultyFile) Close() error {
	err := ff.File.Close()
	if ff.fault.FailOnClose {
		return ErrInjected
	}
	return err
}
