package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Recorder receives operation metrics.
type Recorder interface {
	RecordOperation(op, outcome string, duration time.Duration)
	RecordUploadFile(outcome string)
	RecordDeleteRemoved(count int)
	RecordScanEntries(op string, count int)
}

type nopRecorder struct{}

func (nopRecorder) RecordOperation(string, string, time.Duration) {}
func (nopRecorder) RecordUploadFile(string)                       {}
func (nopRecorder) RecordDeleteRemoved(int)                       {}
func (nopRecorder) RecordScanEntries(string, int)                 {}

// Options configures a Service.
type Options struct {
	Root             string
	HiddenExtensions []string
	AdminOnlyOps     []string
	MaxUploadBytes   int64 // 0 means unlimited
	MaxScanEntries   int   // 0 means unlimited
	Logger           *zap.Logger
	Recorder         Recorder
}

// FilesystemOps holds the state shared by every operation group.
type FilesystemOps struct {
	resolver       *Resolver
	scanner        *Scanner
	policy         *Policy
	maxUploadBytes int64
	maxScanEntries int
	log            *zap.Logger
	rec            Recorder
}

// checkAccess rejects a non-admin caller naming an entry hidden from them,
// directly or through a hidden ancestor. Hidden entries are reported as missing.
func (ops *FilesystemOps) checkAccess(op string, caller Caller, abs string, info fs.FileInfo) error {
	if ops.resolver.IsRoot(abs) {
		return nil
	}
	rel := ops.resolver.Rel(abs)
	if ops.policy.hiddenPath(rel, info.IsDir(), caller.Role) {
		return newError(KindNotFound, op, rel, nil)
	}
	return nil
}

// checkCreatable rejects a non-admin caller creating an entry they could not
// see afterwards.
func (ops *FilesystemOps) checkCreatable(op string, caller Caller, abs, name string, isDir bool) error {
	if ops.policy.hiddenName(name, isDir, caller.Role) {
		return newError(KindPermissionDenied, op, ops.resolver.Rel(abs), fmt.Errorf("name %q is reserved", name))
	}
	return nil
}

// Service executes operations against a single root directory.
type Service struct {
	ops       *FilesystemOps
	directory *DirectoryOps
	mutations *OperationsOps
	metadata  *MetadataOps
	adminOnly map[string]bool
}

// NewService builds a Service from opts.
func NewService(opts Options) (*Service, error) {
	resolver, err := NewResolver(opts.Root)
	if err != nil {
		return nil, err
	}

	policy := DefaultPolicy()
	if opts.HiddenExtensions != nil {
		policy = NewPolicy(opts.HiddenExtensions)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	var rec Recorder = nopRecorder{}
	if opts.Recorder != nil {
		rec = opts.Recorder
	}

	adminOnly := make(map[string]bool, len(opts.AdminOnlyOps))
	for _, op := range opts.AdminOnlyOps {
		op = strings.ToLower(strings.TrimSpace(op))
		if op == "" {
			continue
		}
		if !slices.Contains(Operations, op) {
			return nil, fmt.Errorf("unknown admin-only operation %q", op)
		}
		adminOnly[op] = true
	}

	ops := &FilesystemOps{
		resolver:       resolver,
		scanner:        NewScanner(resolver),
		policy:         policy,
		maxUploadBytes: opts.MaxUploadBytes,
		maxScanEntries: opts.MaxScanEntries,
		log:            log.Named("filesystem"),
		rec:            rec,
	}

	return &Service{
		ops:       ops,
		directory: &DirectoryOps{FilesystemOps: ops},
		mutations: &OperationsOps{FilesystemOps: ops},
		metadata:  &MetadataOps{FilesystemOps: ops},
		adminOnly: adminOnly,
	}, nil
}

// Root returns the absolute managed root.
func (s *Service) Root() string { return s.ops.resolver.Root() }

// Execute runs op on behalf of caller. Every failure is returned as a
// failure Result; Execute itself never returns an error.
func (s *Service) Execute(ctx context.Context, caller Caller, op Operation) Result {
	start := time.Now()
	payload, err := s.dispatch(ctx, caller, op)
	duration := time.Since(start)

	fields := []zap.Field{
		zap.String("op", op.Name()),
		zap.String("role", string(caller.Role)),
		zap.Duration("duration", duration),
	}
	if err != nil {
		kind := KindOf(err)
		s.ops.rec.RecordOperation(op.Name(), string(kind), duration)
		s.ops.log.Warn("Operation failed", append(fields, zap.String("kind", string(kind)), zap.Error(err))...)
		return Failure(err)
	}

	s.ops.rec.RecordOperation(op.Name(), "ok", duration)
	if op.Name() == OpList || op.Name() == OpStat {
		s.ops.log.Debug("Operation completed", fields...)
	} else {
		s.ops.log.Info("Operation completed", fields...)
	}
	return Success(payload)
}

func (s *Service) dispatch(ctx context.Context, caller Caller, op Operation) (any, error) {
	if !caller.Role.Valid() {
		return nil, newError(KindPermissionDenied, op.Name(), "", fmt.Errorf("unknown role %q", caller.Role))
	}
	if s.adminOnly[op.Name()] && !caller.IsAdmin() {
		return nil, newError(KindPermissionDenied, op.Name(), "", fmt.Errorf("%s requires the admin role", op.Name()))
	}

	switch req := op.(type) {
	case ListRequest:
		return s.directory.List(ctx, caller, req)
	case StatRequest:
		return s.metadata.Stat(ctx, caller, req.Path)
	case CreateDirRequest:
		return s.directory.CreateDir(ctx, caller, req.Parent, req.DirName)
	case DeleteRequest:
		return s.directory.Delete(ctx, caller, req.Path)
	case RenameRequest:
		return s.mutations.Rename(ctx, caller, req.OldPath, req.NewPath)
	case UploadRequest:
		return s.mutations.Upload(ctx, caller, req.TargetDir, req.Files)
	default:
		return nil, fmt.Errorf("unsupported operation %T", op)
	}
}
