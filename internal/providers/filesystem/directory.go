package filesystem

import (
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// Scanner enumerates directory contents.
type Scanner struct {
	resolver *Resolver
}

// NewScanner returns a scanner reporting paths relative to resolver's root.
func NewScanner(resolver *Resolver) *Scanner {
	return &Scanner{resolver: resolver}
}

// frame is one directory being iterated on the walk stack.
type frame struct {
	dir      string
	children []os.DirEntry
	next     int
}

// Scan lists dir. With an empty term it yields the immediate children. With a
// term it walks the whole subtree depth-first, each directory before its
// children, yielding every node whose name contains term (case-insensitive).
//
// The walk uses an explicit stack and yields lazily; stopping the range loop
// stops the walk. Each range over the returned sequence restarts from dir.
// A dir that is not a directory yields nothing.
func (s *Scanner) Scan(ctx context.Context, dir, term string) iter.Seq2[Entry, error] {
	needle := strings.ToLower(term)
	recursive := needle != ""

	return func(yield func(Entry, error) bool) {
		info, err := os.Lstat(dir)
		if err != nil {
			yield(Entry{}, classify("list", s.resolver.Rel(dir), err))
			return
		}
		if !info.IsDir() {
			return
		}
		children, err := os.ReadDir(dir)
		if err != nil {
			yield(Entry{}, classify("list", s.resolver.Rel(dir), err))
			return
		}

		stack := []*frame{{dir: dir, children: children}}
		for len(stack) > 0 {
			if err := ctx.Err(); err != nil {
				yield(Entry{}, err)
				return
			}

			top := stack[len(stack)-1]
			if top.next >= len(top.children) {
				stack = stack[:len(stack)-1]
				continue
			}
			child := top.children[top.next]
			top.next++

			full := filepath.Join(top.dir, child.Name())
			childInfo, err := child.Info()
			if err != nil {
				// Removed between ReadDir and Info.
				continue
			}
			entry := newEntry(child.Name(), s.resolver.Rel(full), childInfo)

			if !recursive || strings.Contains(strings.ToLower(entry.Name), needle) {
				if !yield(entry, nil) {
					return
				}
			}

			if recursive && entry.IsDir() {
				grand, err := os.ReadDir(full)
				if err != nil {
					// Unreadable subdirectories are skipped during a search.
					continue
				}
				stack = append(stack, &frame{dir: full, children: grand})
			}
		}
	}
}

// Collect drains seq keeping entries accepted by keep. A limit above zero caps
// the result; truncated reports that entries were left unread. The returned
// slice is never nil.
func Collect(seq iter.Seq2[Entry, error], keep func(Entry) bool, limit int) (entries []Entry, truncated bool, err error) {
	entries = []Entry{}
	for entry, scanErr := range seq {
		if scanErr != nil {
			return nil, false, scanErr
		}
		if keep != nil && !keep(entry) {
			continue
		}
		if limit > 0 && len(entries) == limit {
			return entries, true, nil
		}
		entries = append(entries, entry)
	}
	return entries, false, nil
}

// DirectoryOps handles listing and directory creation.
type DirectoryOps struct {
	*FilesystemOps
}

// List lists or searches req.Path, filters it for caller, then sorts it.
func (d *DirectoryOps) List(ctx context.Context, caller Caller, req ListRequest) (*ListPayload, error) {
	abs, info, err := d.resolver.ResolveExisting(req.Path)
	if err != nil {
		return nil, err
	}
	if err := d.checkAccess(OpList, caller, abs, info); err != nil {
		return nil, err
	}

	keep := d.policy.Visible(caller.Role)
	if req.Pattern != "" {
		if !doublestar.ValidatePattern(req.Pattern) {
			return nil, newError(KindInvalidPath, OpList, req.Pattern, errors.New("malformed pattern"))
		}
		visible := keep
		keep = func(e Entry) bool {
			if !visible(e) {
				return false
			}
			ok, _ := doublestar.Match(req.Pattern, strings.TrimPrefix(e.Path, "/"))
			return ok
		}
	}

	entries, truncated, err := Collect(d.scanner.Scan(ctx, abs, req.Search), keep, d.maxScanEntries)
	if err != nil {
		return nil, err
	}
	if truncated {
		d.log.Warn("Scan truncated",
			zap.String("path", d.resolver.Rel(abs)),
			zap.Int("max_entries", d.maxScanEntries),
		)
	}

	Order(entries, req.Sort, req.Order)
	if req.Limit > 0 && len(entries) > req.Limit {
		entries = entries[:req.Limit]
		truncated = true
	}
	d.rec.RecordScanEntries(OpList, len(entries))

	return &ListPayload{
		Path:      d.resolver.Rel(abs),
		Entries:   entries,
		Count:     len(entries),
		Truncated: truncated,
	}, nil
}

// CreateDir creates the single directory name inside parent with mode 0755.
// Missing intermediate directories are not created.
func (d *DirectoryOps) CreateDir(ctx context.Context, caller Caller, parent, name string) (*PathPayload, error) {
	if !validName(name) {
		return nil, newError(KindInvalidPath, OpCreateDir, name, errors.New("name must be a single path segment"))
	}
	parentAbs, info, err := d.resolver.ResolveExisting(parent)
	if err != nil {
		return nil, err
	}
	if err := d.checkAccess(OpCreateDir, caller, parentAbs, info); err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, newError(KindInvalidPath, OpCreateDir, d.resolver.Rel(parentAbs), errors.New("parent is not a directory"))
	}

	target, err := d.resolver.Resolve(d.resolver.Rel(parentAbs) + "/" + name)
	if err != nil {
		return nil, err
	}
	rel := d.resolver.Rel(target)
	if err := d.checkCreatable(OpCreateDir, caller, target, name, true); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.Mkdir(target, 0o755); err != nil {
		return nil, classify(OpCreateDir, rel, err)
	}
	return &PathPayload{Path: rel}, nil
}
