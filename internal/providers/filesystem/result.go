package filesystem

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Result is the response envelope for every operation. Exactly one of
// Payload or Error is set.
type Result struct {
	OK      bool      `json:"ok"`
	Payload any       `json:"payload,omitempty"`
	Error   string    `json:"error,omitempty"`
	Code    ErrorKind `json:"code,omitempty"`
}

// Success wraps a payload.
func Success(payload any) Result {
	return Result{OK: true, Payload: payload}
}

// Failure wraps an error, classifying it by kind.
func Failure(err error) Result {
	return Result{OK: false, Error: err.Error(), Code: KindOf(err)}
}

// Encode serialises a result as JSON.
func Encode(r Result) ([]byte, error) {
	return sonic.ConfigStd.Marshal(r)
}

// ListPayload is returned by list.
type ListPayload struct {
	Path      string  `json:"path"`
	Entries   []Entry `json:"entries"`
	Count     int     `json:"count"`
	Truncated bool    `json:"truncated,omitempty"`
}

// PathPayload is returned by create_dir.
type PathPayload struct {
	Path string `json:"path"`
}

// DeletePayload is returned by delete.
type DeletePayload struct {
	Path    string `json:"path"`
	Removed int    `json:"removed"`
}

// RenamePayload is returned by rename.
type RenamePayload struct {
	OldPath string `json:"old_path"`
	NewPath string `json:"new_path"`
}

// UploadPayload is returned by upload.
type UploadPayload struct {
	TargetDir    string `json:"target_dir"`
	SuccessCount int    `json:"success_count"`
	TotalCount   int    `json:"total_count"`
	Cancelled    bool   `json:"cancelled,omitempty"`
	Message      string `json:"message"`
}

func uploadMessage(success, total int) string {
	return fmt.Sprintf("%d of %d files uploaded successfully", success, total)
}
