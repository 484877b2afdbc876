package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// EntryKind distinguishes directories from everything else.
type EntryKind string

const (
	KindFile      EntryKind = "file"
	KindDirectory EntryKind = "directory"
)

// Entry is one filesystem object as seen by a scan. Entries are built fresh for
// every scan and never mutated afterwards.
type Entry struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Kind      EntryKind `json:"kind"`
	Size      int64     `json:"size_bytes"`
	Modified  time.Time `json:"modified_at"`
	Extension string    `json:"extension"`
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool { return e.Kind == KindDirectory }

// Role is the caller's privilege level.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ParseRole maps a string onto a Role. Unknown values are returned as-is and
// fail Valid.
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// Caller identifies who an operation runs on behalf of. It is supplied per
// request; the engine never reads ambient identity.
type Caller struct {
	Role Role
}

// IsAdmin reports whether the caller has the admin role.
func (c Caller) IsAdmin() bool { return c.Role == RoleAdmin }

// extensionOf returns the lowercase extension without the dot. Directories
// have no extension.
func extensionOf(name string, isDir bool) string {
	if isDir {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// newEntry builds an Entry from lstat information.
func newEntry(name, relPath string, info fs.FileInfo) Entry {
	isDir := info.IsDir()
	e := Entry{
		Name:      name,
		Path:      relPath,
		Kind:      KindFile,
		Modified:  info.ModTime(),
		Extension: extensionOf(name, isDir),
	}
	if isDir {
		e.Kind = KindDirectory
	} else {
		e.Size = info.Size()
	}
	return e
}

// osCause strips the path from os errors so messages never carry absolute
// server paths.
func osCause(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return linkErr.Err
	}
	var sysErr *os.SyscallError
	if errors.As(err, &sysErr) {
		return sysErr.Err
	}
	return err
}

// classify maps an os error onto an OpError kind.
func classify(op, rel string, err error) *OpError {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return newError(KindNotFound, op, rel, nil)
	case errors.Is(err, fs.ErrExist):
		return newError(KindAlreadyExists, op, rel, nil)
	default:
		return newError(KindIO, op, rel, osCause(err))
	}
}
