package filesystem

import "io"

// Operation names, used for logging, metrics and admin-only configuration.
const (
	OpList      = "list"
	OpStat      = "stat"
	OpCreateDir = "create_dir"
	OpDelete    = "delete"
	OpRename    = "rename"
	OpUpload    = "upload"
)

// Operations lists every operation name.
var Operations = []string{OpList, OpStat, OpCreateDir, OpDelete, OpRename, OpUpload}

// Operation is one request to the engine. The set of implementations is
// closed; Service.Execute handles each of them.
type Operation interface {
	Name() string
	operation()
}

// ListRequest lists or searches a directory.
type ListRequest struct {
	Path    string
	Search  string
	Pattern string // optional doublestar glob over root-relative paths
	Sort    SortKey
	Order   Direction
	Limit   int
}

// StatRequest returns detailed metadata for one entry.
type StatRequest struct {
	Path string
}

// CreateDirRequest creates DirName inside Parent.
type CreateDirRequest struct {
	Parent  string
	DirName string
}

// DeleteRequest removes a file or a whole directory tree.
type DeleteRequest struct {
	Path string
}

// RenameRequest moves OldPath to NewPath without replacing an existing entry.
type RenameRequest struct {
	OldPath string
	NewPath string
}

// UploadRequest stores a batch of files in TargetDir.
type UploadRequest struct {
	TargetDir string
	Files     []IncomingFile
}

// IncomingFile is one file of an upload batch. A transfer that failed
// upstream reports it from Open or from the returned reader.
type IncomingFile interface {
	Filename() string
	Open() (io.ReadCloser, error)
}

func (ListRequest) Name() string      { return OpList }
func (StatRequest) Name() string      { return OpStat }
func (CreateDirRequest) Name() string { return OpCreateDir }
func (DeleteRequest) Name() string    { return OpDelete }
func (RenameRequest) Name() string    { return OpRename }
func (UploadRequest) Name() string    { return OpUpload }

func (ListRequest) operation()      {}
func (StatRequest) operation()      {}
func (CreateDirRequest) operation() {}
func (DeleteRequest) operation()    {}
func (RenameRequest) operation()    {}
func (UploadRequest) operation()    {}
