package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/fsview/internal/providers/filesystem"
)

type createDirBody struct {
	Parent string `json:"parent"`
	Name   string `json:"name"`
}

type pathBody struct {
	Path string `json:"path"`
}

type renameBody struct {
	OldPath string `json:"old_path"`
	NewPath string `json:"new_path"`
}

// List lists or searches a directory
func (h *Handlers) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.badRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	h.run(c, filesystem.ListRequest{
		Path:    c.DefaultQuery("path", "/"),
		Search:  c.Query("search"),
		Pattern: c.Query("pattern"),
		Sort:    filesystem.ParseSortKey(c.Query("sort")),
		Order:   filesystem.ParseDirection(c.Query("order")),
		Limit:   limit,
	})
}

// Stat returns metadata for one entry
func (h *Handlers) Stat(c *gin.Context) {
	h.run(c, filesystem.StatRequest{Path: c.DefaultQuery("path", "/")})
}

// CreateDir creates a directory
func (h *Handlers) CreateDir(c *gin.Context) {
	var body createDirBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid request body: "+err.Error())
		return
	}
	h.run(c, filesystem.CreateDirRequest{Parent: body.Parent, DirName: body.Name})
}

// Delete removes a file or directory tree
func (h *Handlers) Delete(c *gin.Context) {
	var body pathBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid request body: "+err.Error())
		return
	}
	h.run(c, filesystem.DeleteRequest{Path: body.Path})
}

// Rename moves an entry without replacing an existing one
func (h *Handlers) Rename(c *gin.Context) {
	var body renameBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid request body: "+err.Error())
		return
	}
	h.run(c, filesystem.RenameRequest{OldPath: body.OldPath, NewPath: body.NewPath})
}
