package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// FileInfo is the detailed metadata returned by stat.
type FileInfo struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Kind        EntryKind `json:"kind"`
	Size        int64     `json:"size_bytes"`
	SizeHuman   string    `json:"size"`
	Modified    time.Time `json:"modified_at"`
	Permissions string    `json:"permissions"`
	Extension   string    `json:"extension,omitempty"`
	MimeType    string    `json:"mime_type,omitempty"`
	Symlink     bool      `json:"symlink,omitempty"`

	// Directory totals, counted recursively without following symlinks.
	TotalSize *int64 `json:"total_size_bytes,omitempty"`
	ItemCount *int64 `json:"item_count,omitempty"`
}

// MetadataOps handles file metadata.
type MetadataOps struct {
	*FilesystemOps
}

// Stat returns metadata for path.
func (m *MetadataOps) Stat(ctx context.Context, caller Caller, path string) (*FileInfo, error) {
	abs, info, err := m.resolver.ResolveExisting(path)
	if err != nil {
		return nil, err
	}
	if err := m.checkAccess(OpStat, caller, abs, info); err != nil {
		return nil, err
	}
	rel := m.resolver.Rel(abs)

	name := info.Name()
	if m.resolver.IsRoot(abs) {
		name = "/"
	}
	entry := newEntry(name, rel, info)
	result := &FileInfo{
		Name:        entry.Name,
		Path:        rel,
		Kind:        entry.Kind,
		Size:        entry.Size,
		SizeHuman:   formatBytes(entry.Size),
		Modified:    entry.Modified,
		Permissions: octalPermissions(info.Mode()),
		Extension:   entry.Extension,
		Symlink:     info.Mode()&fs.ModeSymlink != 0,
	}

	if info.Mode().IsRegular() {
		mime, err := mimetype.DetectFile(abs)
		if err != nil {
			m.log.Debug("MIME detection failed", zap.String("path", rel), zap.Error(osCause(err)))
		} else {
			result.MimeType = mime.String()
		}
	}

	if info.IsDir() {
		total, count, err := m.totals(ctx, abs)
		if err != nil {
			return nil, classify(OpStat, rel, err)
		}
		result.TotalSize = &total
		result.ItemCount = &count
		result.SizeHuman = formatBytes(total)
	}
	return result, nil
}

// totals sums regular file sizes and counts every entry below dir.
func (m *MetadataOps) totals(ctx context.Context, dir string) (int64, int64, error) {
	var size, count atomic.Int64
	conf := fastwalk.Config{Follow: false}

	err := fastwalk.Walk(&conf, dir, func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || p == dir {
			return nil
		}
		count.Add(1)
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		size.Add(info.Size())
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return size.Load(), count.Load(), nil
}

// octalPermissions renders mode as four octal digits, including the setuid,
// setgid and sticky bits.
func octalPermissions(mode fs.FileMode) string {
	perm := uint32(mode.Perm())
	if mode&fs.ModeSetuid != 0 {
		perm |= 0o4000
	}
	if mode&fs.ModeSetgid != 0 {
		perm |= 0o2000
	}
	if mode&fs.ModeSticky != 0 {
		perm |= 0o1000
	}
	return fmt.Sprintf("%04o", perm)
}

// formatBytes formats bytes as human-readable string
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"KB", "MB", "GB", "TB", "PB"}
	return fmt.Sprintf("%.2f %s", float64(bytes)/float64(div), units[exp])
}
