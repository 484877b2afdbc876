package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Resolver confines requested paths to a single root directory.
type Resolver struct {
	root string
}

// NewResolver returns a resolver for root. The root must be an existing
// directory; it is made absolute and symlink-free.
func NewResolver(root string) (*Resolver, error) {
	if root == "" {
		return nil, errors.New("root directory required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", abs)
	}
	return &Resolver{root: abs}, nil
}

// Root returns the absolute root directory.
func (r *Resolver) Root() string { return r.root }

// Resolve maps a root-relative request onto an absolute path inside the root.
// "", "/" and "." all name the root. Dot segments are collapsed lexically and
// anything landing outside the root is rejected.
func (r *Resolver) Resolve(requested string) (string, error) {
	if strings.ContainsRune(requested, 0) {
		return "", newError(KindInvalidPath, "resolve", "", errors.New("path contains NUL byte"))
	}

	// Clean as a rooted slash path first: ".." can never climb above "/".
	// The raw form is still checked so "../x" is reported instead of silently
	// clamped.
	slashed := filepath.ToSlash(requested)
	if escapesRoot(slashed) {
		return "", newError(KindInvalidPath, "resolve", requested, errors.New("outside the managed root"))
	}
	rel := path.Clean("/" + slashed)

	abs := filepath.Join(r.root, filepath.FromSlash(rel))
	if !r.contains(abs) {
		return "", newError(KindInvalidPath, "resolve", requested, errors.New("outside the managed root"))
	}

	if abs == r.root {
		return abs, nil
	}

	// Existing paths must not reach outside the root through a symlink in any
	// parent component.
	if real, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		if !r.contains(real) {
			return "", newError(KindInvalidPath, "resolve", requested, errors.New("symlink escapes the managed root"))
		}
	}
	return abs, nil
}

// ResolveExisting resolves requested and requires it to exist.
func (r *Resolver) ResolveExisting(requested string) (string, fs.FileInfo, error) {
	abs, err := r.Resolve(requested)
	if err != nil {
		return "", nil, err
	}
	info, err := os.Lstat(abs)
	if err != nil {
		return "", nil, classify("stat", r.Rel(abs), err)
	}
	return abs, info, nil
}

// Rel returns the root-relative, slash-separated form of abs ("/docs/a.txt").
func (r *Resolver) Rel(abs string) string {
	rel, err := filepath.Rel(r.root, abs)
	if err != nil || rel == "." {
		return "/"
	}
	return "/" + filepath.ToSlash(rel)
}

// IsRoot reports whether abs is the managed root itself.
func (r *Resolver) IsRoot(abs string) bool {
	return filepath.Clean(abs) == r.root
}

func (r *Resolver) contains(abs string) bool {
	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// escapesRoot reports whether a relative slash path climbs above its start.
func escapesRoot(p string) bool {
	depth := 0
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
		case "..":
			depth--
			if depth < 0 {
				return true
			}
		default:
			depth++
		}
	}
	return false
}

// validName reports whether name is a single usable path segment.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return false
	}
	return true
}
