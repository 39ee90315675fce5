package utils

// DisplayFilter drops repeated display strings from a suggestion list.
// A title reachable through both "the thing" and "thing" would otherwise
// be suggested twice for the same prefix.
type DisplayFilter struct {
	seen map[string]struct{}
}

// NewDisplayFilter creates an empty filter sized for n entries.
func NewDisplayFilter(n int) *DisplayFilter {
	return &DisplayFilter{seen: make(map[string]struct{}, n)}
}

// ShouldInclude reports whether display is new, recording it if so.
func (f *DisplayFilter) ShouldInclude(display string) bool {
	if _, dup := f.seen[display]; dup {
		return false
	}
	f.seen[display] = struct{}{}
	return true
}
