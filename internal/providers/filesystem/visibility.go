package filesystem

import "strings"

// DefaultHiddenExtensions are server-side configuration and script types that
// non-admin callers never see.
var DefaultHiddenExtensions = []string{"php", "htaccess", "sql", "ini", "conf"}

// Policy decides which entries a caller may see.
type Policy struct {
	hidden map[string]struct{}
}

// NewPolicy builds a policy hiding the given extensions (case-insensitive,
// with or without a leading dot) plus every dot-file from non-admins.
func NewPolicy(extensions []string) *Policy {
	p := &Policy{hidden: make(map[string]struct{}, len(extensions))}
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			p.hidden[ext] = struct{}{}
		}
	}
	return p
}

// DefaultPolicy hides DefaultHiddenExtensions.
func DefaultPolicy() *Policy {
	return NewPolicy(DefaultHiddenExtensions)
}

// IsHidden reports whether entry must be withheld from a caller with role.
// An entry inside a hidden directory is hidden too.
func (p *Policy) IsHidden(entry Entry, role Role) bool {
	if entry.Path == "" {
		return p.hiddenName(entry.Name, entry.IsDir(), role)
	}
	return p.hiddenPath(entry.Path, entry.IsDir(), role)
}

// hiddenPath checks every segment of the root-relative path rel. All but the
// last segment are directories.
func (p *Policy) hiddenPath(rel string, isDir bool, role Role) bool {
	if role == RoleAdmin {
		return false
	}
	segments := strings.Split(strings.Trim(rel, "/"), "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if p.hiddenName(seg, isDir || i < len(segments)-1, role) {
			return true
		}
	}
	return false
}

func (p *Policy) hiddenName(name string, isDir bool, role Role) bool {
	if role == RoleAdmin {
		return false
	}
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, blocked := p.hidden[extensionOf(name, isDir)]
	return blocked
}

// Visible returns a predicate suitable for Collect.
func (p *Policy) Visible(role Role) func(Entry) bool {
	return func(e Entry) bool { return !p.IsHidden(e, role) }
}
