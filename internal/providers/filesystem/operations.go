package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OperationsOps handles rename and upload.
type OperationsOps struct {
	*FilesystemOps
}

// errTooLarge marks an upload above the configured size limit.
var errTooLarge = errors.New("file exceeds the upload size limit")

// Rename moves oldPath to newPath. An existing entry at newPath is never
// replaced: the call fails with already_exists and both entries are left
// untouched.
func (o *OperationsOps) Rename(ctx context.Context, caller Caller, oldPath, newPath string) (*RenamePayload, error) {
	oldAbs, info, err := o.resolver.ResolveExisting(oldPath)
	if err != nil {
		return nil, err
	}
	oldRel := o.resolver.Rel(oldAbs)
	if o.resolver.IsRoot(oldAbs) {
		return nil, newError(KindInvalidPath, OpRename, oldRel, errors.New("the root directory cannot be renamed"))
	}
	if err := o.checkAccess(OpRename, caller, oldAbs, info); err != nil {
		return nil, err
	}

	newAbs, err := o.resolver.Resolve(newPath)
	if err != nil {
		return nil, err
	}
	newRel := o.resolver.Rel(newAbs)
	if o.resolver.IsRoot(newAbs) {
		return nil, newError(KindAlreadyExists, OpRename, newRel, nil)
	}
	if err := o.checkCreatable(OpRename, caller, newAbs, filepath.Base(newAbs), info.IsDir()); err != nil {
		return nil, err
	}
	if _, err := os.Lstat(filepath.Dir(newAbs)); err != nil {
		return nil, classify(OpRename, o.resolver.Rel(filepath.Dir(newAbs)), err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := renameNoReplace(oldAbs, newAbs); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, newError(KindAlreadyExists, OpRename, newRel, nil)
		}
		return nil, classify(OpRename, oldRel, err)
	}
	return &RenamePayload{OldPath: oldRel, NewPath: newRel}, nil
}

// renameChecked refuses to replace an existing target, then renames. The
// check and the rename are not atomic.
func renameChecked(oldpath, newpath string) error {
	if _, err := os.Lstat(newpath); err == nil {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: fs.ErrExist}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.Rename(oldpath, newpath)
}

// Upload stores each file of a batch in targetDir. Files are independent: a
// failed transfer, a bad name or an oversize file is skipped and the rest
// continue. A file only appears under its name once fully written. A file
// already present under the same name is replaced.
func (o *OperationsOps) Upload(ctx context.Context, caller Caller, targetDir string, files []IncomingFile) (*UploadPayload, error) {
	dirAbs, info, err := o.resolver.ResolveExisting(targetDir)
	if err != nil {
		return nil, err
	}
	dirRel := o.resolver.Rel(dirAbs)
	if err := o.checkAccess(OpUpload, caller, dirAbs, info); err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, newError(KindInvalidPath, OpUpload, dirRel, errors.New("target is not a directory"))
	}

	payload := &UploadPayload{TargetDir: dirRel, TotalCount: len(files)}
	for _, file := range files {
		if ctx.Err() != nil {
			payload.Cancelled = true
			break
		}
		if err := o.store(caller, dirAbs, file); err != nil {
			o.rec.RecordUploadFile("failed")
			o.log.Info("Upload skipped file",
				zap.String("dir", dirRel),
				zap.String("file", file.Filename()),
				zap.Error(err),
			)
			continue
		}
		o.rec.RecordUploadFile("ok")
		payload.SuccessCount++
	}
	payload.Message = uploadMessage(payload.SuccessCount, payload.TotalCount)
	return payload, nil
}

// store streams one file into a hidden staging file and renames it into
// place once the transfer completed.
func (o *OperationsOps) store(caller Caller, dirAbs string, file IncomingFile) error {
	name := file.Filename()
	if !validName(name) {
		return fmt.Errorf("invalid file name %q", name)
	}
	if err := o.checkCreatable(OpUpload, caller, dirAbs, name, false); err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	staging := filepath.Join(dirAbs, ".upload-"+uuid.NewString()+".part")
	dst, err := os.OpenFile(staging, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create staging file: %w", osCause(err))
	}
	committed := false
	defer func() {
		if !committed {
			os.Remove(staging)
		}
	}()

	var reader io.Reader = src
	if o.maxUploadBytes > 0 {
		reader = io.LimitReader(src, o.maxUploadBytes+1)
	}
	written, err := io.Copy(dst, reader)
	if err != nil {
		dst.Close()
		return fmt.Errorf("transfer: %w", osCause(err))
	}
	if o.maxUploadBytes > 0 && written > o.maxUploadBytes {
		dst.Close()
		return errTooLarge
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("close staging file: %w", osCause(err))
	}

	if err := os.Rename(staging, filepath.Join(dirAbs, name)); err != nil {
		return fmt.Errorf("commit upload: %w", osCause(err))
	}
	committed = true
	return nil
}
