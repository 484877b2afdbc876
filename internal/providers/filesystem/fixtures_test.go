package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTree builds:
//
//	.hidden
//	a.txt
//	docs/readme.md
//	docs/sub/notes.txt
//	secret.ini
func newTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, ".hidden"), "h")
	writeFile(t, filepath.Join(root, "a.txt"), "hello")
	writeFile(t, filepath.Join(root, "docs", "readme.md"), "# readme")
	writeFile(t, filepath.Join(root, "docs", "sub", "notes.txt"), "notes")
	writeFile(t, filepath.Join(root, "secret.ini"), "key=value")
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestService(t *testing.T, root string, mutate ...func(*Options)) *Service {
	t.Helper()
	opts := Options{Root: root}
	for _, fn := range mutate {
		fn(&opts)
	}
	svc, err := NewService(opts)
	require.NoError(t, err)
	return svc
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

var (
	admin = Caller{Role: RoleAdmin}
	user  = Caller{Role: RoleUser}
)
