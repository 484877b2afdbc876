package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// PartialDeleteError reports how far a recursive delete got before it stopped.
// Nothing already removed is restored.
type PartialDeleteError struct {
	Removed int
	Failed  string // root-relative path that could not be removed
	Err     error
}

func (e *PartialDeleteError) Error() string {
	return fmt.Sprintf("%s: %v (removed %d entries before stopping)", e.Failed, e.Err, e.Removed)
}

func (e *PartialDeleteError) Unwrap() error { return e.Err }

// Delete removes a file, or a directory and everything below it.
func (d *DirectoryOps) Delete(ctx context.Context, caller Caller, path string) (*DeletePayload, error) {
	abs, info, err := d.resolver.ResolveExisting(path)
	if err != nil {
		return nil, err
	}
	rel := d.resolver.Rel(abs)
	if d.resolver.IsRoot(abs) {
		return nil, newError(KindInvalidPath, OpDelete, rel, errors.New("the root directory cannot be deleted"))
	}
	if err := d.checkAccess(OpDelete, caller, abs, info); err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := os.Remove(abs); err != nil {
			return nil, classify(OpDelete, rel, err)
		}
		d.rec.RecordDeleteRemoved(1)
		return &DeletePayload{Path: rel, Removed: 1}, nil
	}

	removed, err := d.removeTree(ctx, abs)
	d.rec.RecordDeleteRemoved(removed)
	if err != nil {
		d.log.Warn("Recursive delete stopped",
			zap.String("path", rel),
			zap.Int("removed", removed),
			zap.Error(err),
		)
		return nil, newError(KindIO, OpDelete, rel, err)
	}
	return &DeletePayload{Path: rel, Removed: removed}, nil
}

// removeTree deletes dir depth-first, children before their parent, using
// an explicit stack. It stops at the first failure or on cancellation.
func (d *DirectoryOps) removeTree(ctx context.Context, dir string) (int, error) {
	removed := 0
	fail := func(path string, err error) (int, error) {
		return removed, &PartialDeleteError{Removed: removed, Failed: d.resolver.Rel(path), Err: osCause(err)}
	}

	children, err := os.ReadDir(dir)
	if err != nil {
		return fail(dir, err)
	}
	stack := []*frame{{dir: dir, children: children}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return fail(stack[len(stack)-1].dir, err)
		}

		top := stack[len(stack)-1]
		if top.next == len(top.children) {
			if err := os.Remove(top.dir); err != nil {
				return fail(top.dir, err)
			}
			removed++
			stack = stack[:len(stack)-1]
			continue
		}

		child := top.children[top.next]
		top.next++
		full := filepath.Join(top.dir, child.Name())

		// DirEntry types come from lstat, so symlinks to directories are
		// removed as links and never followed.
		if child.IsDir() {
			grand, err := os.ReadDir(full)
			if err != nil {
				return fail(full, err)
			}
			stack = append(stack, &frame{dir: full, children: grand})
			continue
		}
		if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fail(full, err)
		}
		removed++
	}
	return removed, nil
}
