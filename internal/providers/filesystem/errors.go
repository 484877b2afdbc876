package filesystem

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed operation.
type ErrorKind string

const (
	KindInvalidPath      ErrorKind = "invalid_path"
	KindNotFound         ErrorKind = "not_found"
	KindAlreadyExists    ErrorKind = "already_exists"
	KindPermissionDenied ErrorKind = "permission_denied"
	KindIO               ErrorKind = "io_error"
)

// Sentinel errors, one per kind. *OpError matches them with errors.Is.
var (
	ErrInvalidPath      = errors.New("invalid path")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrPermissionDenied = errors.New("permission denied")
	ErrIO               = errors.New("i/o error")
)

var kindSentinels = map[ErrorKind]error{
	KindInvalidPath:      ErrInvalidPath,
	KindNotFound:         ErrNotFound,
	KindAlreadyExists:    ErrAlreadyExists,
	KindPermissionDenied: ErrPermissionDenied,
	KindIO:               ErrIO,
}

// OpError describes a failed operation. Path is always root-relative.
type OpError struct {
	Kind ErrorKind
	Op   string
	Path string
	Err  error
}

func (e *OpError) Error() string {
	msg := string(e.Kind)
	if sentinel, ok := kindSentinels[e.Kind]; ok {
		msg = sentinel.Error()
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Op != "" {
		msg = fmt.Sprintf("%s %s", e.Op, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OpError) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel of this error's kind.
func (e *OpError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

func newError(kind ErrorKind, op, path string, err error) *OpError {
	return &OpError{Kind: kind, Op: op, Path: path, Err: err}
}

// KindOf returns the kind carried by err, or KindIO for unclassified errors.
func KindOf(err error) ErrorKind {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	for kind, sentinel := range kindSentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindIO
}
