// Package http exposes the filesystem operations over a JSON API.
//
// Every file route answers with the operation envelope
// {"ok","payload","error","code"}; the HTTP status follows the error kind.
//
// Routes:
//   - GET  /api/fs/list    path, search, pattern, sort, order, limit
//   - GET  /api/fs/stat    path
//   - POST /api/fs/mkdir   {"parent","name"}
//   - POST /api/fs/delete  {"path"}
//   - POST /api/fs/rename  {"old_path","new_path"}
//   - POST /api/fs/upload  multipart current_path + files
//   - GET  /health
//
// The caller role comes from middleware.Caller; handlers never read it
// themselves.
package http
