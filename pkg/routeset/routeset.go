package routeset

import (
	"sort"
	"strings"
)

// Set is an immutable collection of route names. The zero value is an
// empty set: it contains nothing and every membership test fails.
type Set struct {
	members map[string]struct{}
}

// New builds a Set from the given route names. Empty names and
// surrounding whitespace are discarded, duplicates collapse.
func New(routes ...string) Set {
	members := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		members[r] = struct{}{}
	}
	return Set{members: members}
}

// Contains reports whether route is a member of the set. Matching is
// exact and case-sensitive: route names are opaque identifiers.
func (s Set) Contains(route string) bool {
	if s.members == nil {
		return false
	}
	_, ok := s.members[route]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s.members)
}

// Names returns the members sorted lexicographically. The slice is a
// fresh copy; callers may keep it.
func (s Set) Names() []string {
	names := make([]string, 0, len(s.members))
	for r := range s.members {
		names = append(names, r)
	}
	sort.Strings(names)
	return names
}

// With returns a new Set containing the receiver's members plus the
// given routes. The receiver is unchanged.
func (s Set) With(routes ...string) Set {
	combined := make([]string, 0, len(s.members)+len(routes))
	combined = append(combined, s.Names()...)
	combined = append(combined, routes...)
	return New(combined...)
}

// String renders the set for logs.
func (s Set) String() string {
	return "{" + strings.Join(s.Names(), ", ") + "}"
}
