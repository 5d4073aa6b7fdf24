// Package enum maps small integer strategy types to and from their
// configuration names.
package enum

import (
	"fmt"
	"sort"
	"strings"
)

// Names maps each value of an enum type to its configuration name.
type Names[T comparable] map[T]string

// String returns the name of v, or "unknown(v)" when v has none.
func (n Names[T]) String(v T) string {
	if s, ok := n[v]; ok {
		return s
	}
	return fmt.Sprintf("unknown(%#v)", v)
}

// Valid reports whether v has a name.
func (n Names[T]) Valid(v T) bool {
	_, ok := n[v]
	return ok
}

// Parse returns the value named s. Matching ignores case and surrounding
// space. what describes the enum in the error message.
func (n Names[T]) Parse(s, what string) (T, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for v, name := range n {
		if name == s {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q (want one of %s)", what, s, strings.Join(n.List(), ", "))
}

// List returns every name in sorted order.
func (n Names[T]) List() []string {
	out := make([]string, 0, len(n))
	for _, name := range n {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
