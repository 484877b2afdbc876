package http

import (
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/fsview/internal/providers/filesystem"
)

const (
	uploadDirField   = "current_path"
	uploadFilesField = "files"
)

// formFile adapts a multipart part to filesystem.IncomingFile.
type formFile struct {
	header *multipart.FileHeader
}

func (f formFile) Filename() string { return f.header.Filename }

func (f formFile) Open() (io.ReadCloser, error) { return f.header.Open() }

// Upload stores the files of a multipart batch
func (h *Handlers) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.badRequest(c, "invalid multipart form: "+err.Error())
		return
	}

	target := "/"
	if values := form.Value[uploadDirField]; len(values) > 0 && values[0] != "" {
		target = values[0]
	}

	headers := form.File[uploadFilesField]
	files := make([]filesystem.IncomingFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, formFile{header: fh})
	}

	h.run(c, filesystem.UploadRequest{TargetDir: target, Files: files})
}
