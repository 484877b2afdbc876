// Package filesystem provides a role-aware view over a single directory tree.
//
// This package is organized into specialized modules:
//   - paths: confinement of requested paths to the managed root
//   - visibility: entries hidden from non-admin callers
//   - directory: listing, recursive search and directory creation
//   - sort: stable ordering by name, type, size or modification time
//   - delete: file removal and depth-first recursive directory removal
//   - operations: no-clobber rename and best-effort batch upload
//   - metadata: detailed entry metadata (permissions, MIME type, totals)
//   - result: the response envelope and its payloads
//
// All operations:
//   - Run on behalf of an explicit Caller; no identity is read implicitly
//   - Reject paths outside the root with invalid_path
//   - Report paths relative to the root, never server paths
//   - Return a Result carrying either a payload or a classified error
//
// Example Usage:
//
//	svc, err := filesystem.NewService(filesystem.Options{Root: "/srv/files"})
//	result := svc.Execute(ctx, filesystem.Caller{Role: filesystem.RoleUser},
//		filesystem.ListRequest{Path: "/docs", Sort: filesystem.SortByName})
package filesystem
