// Package tst implements a ternary search tree used as the prefix index for titles and locations.
package tst

// nilNode marks an absent child. Slot 0 of the arena is never a real node.
const nilNode int32 = 0

type node struct {
	ch  byte
	end bool
	lo  int32
	eq  int32
	hi  int32
}

// Tree is an ordered set of strings supporting prefix enumeration.
// Nodes live in a single arena and refer to their children by index,
// so every child has exactly one parent and there are no back references.
//
// Nodes split on bytes, so any string round-trips unchanged, valid UTF-8
// or not. For UTF-8 text byte order and rune order agree.
//
// A Tree is not safe for concurrent mutation. Once built it may be read
// from any number of goroutines.
type Tree struct {
	nodes []node
	root  int32
	words int
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{nodes: make([]node, 1, 64)}
}

func (t *Tree) alloc(ch byte) int32 {
	t.nodes = append(t.nodes, node{ch: ch})
	return int32(len(t.nodes) - 1)
}

// Insert adds word to the tree. Empty strings are ignored and inserting
// the same word twice has no further effect.
func (t *Tree) Insert(word string) {
	if word == "" {
		return
	}
	if t.nodes == nil {
		t.nodes = make([]node, 1, 64)
	}
	if t.root == nilNode {
		t.root = t.alloc(word[0])
	}
	cur := t.root
	i := 0
	for {
		ch := word[i]
		switch {
		case ch < t.nodes[cur].ch:
			next := t.nodes[cur].lo
			if next == nilNode {
				next = t.alloc(ch)
				t.nodes[cur].lo = next
			}
			cur = next
		case ch > t.nodes[cur].ch:
			next := t.nodes[cur].hi
			if next == nilNode {
				next = t.alloc(ch)
				t.nodes[cur].hi = next
			}
			cur = next
		default:
			if i == len(word)-1 {
				if !t.nodes[cur].end {
					t.nodes[cur].end = true
					t.words++
				}
				return
			}
			i++
			next := t.nodes[cur].eq
			if next == nilNode {
				next = t.alloc(word[i])
				t.nodes[cur].eq = next
			}
			cur = next
		}
	}
}

// find returns the node matching the last byte of key, or nilNode.
func (t *Tree) find(key string) int32 {
	cur := t.root
	i := 0
	for cur != nilNode {
		n := &t.nodes[cur]
		switch {
		case key[i] < n.ch:
			cur = n.lo
		case key[i] > n.ch:
			cur = n.hi
		default:
			i++
			if i == len(key) {
				return cur
			}
			cur = n.eq
		}
	}
	return nilNode
}

// Contains reports whether word was inserted.
func (t *Tree) Contains(word string) bool {
	if word == "" || t.root == nilNode {
		return false
	}
	idx := t.find(word)
	return idx != nilNode && t.nodes[idx].end
}

// PrefixSearch returns every inserted word that starts with prefix,
// including prefix itself when it is a word. An empty prefix matches
// nothing. Results come out in byte order, but callers that need a
// particular order should sort them.
func (t *Tree) PrefixSearch(prefix string) []string {
	if prefix == "" || t.root == nilNode {
		return nil
	}
	idx := t.find(prefix)
	if idx == nilNode {
		return nil
	}

	var out []string
	if t.nodes[idx].end {
		out = append(out, prefix)
	}
	buf := make([]byte, len(prefix), len(prefix)+16)
	copy(buf, prefix)
	return t.collect(t.nodes[idx].eq, buf, out)
}

// collect walks the subtree rooted at idx in order, appending every word
// whose path ends there. buf holds the bytes above idx.
func (t *Tree) collect(idx int32, buf []byte, out []string) []string {
	for idx != nilNode {
		n := t.nodes[idx]
		out = t.collect(n.lo, buf, out)

		word := append(buf, n.ch)
		if n.end {
			out = append(out, string(word))
		}
		out = t.collect(n.eq, word, out)

		// greater siblings share the same position
		idx = n.hi
	}
	return out
}

// Walk calls fn for every word in byte order until fn returns false.
func (t *Tree) Walk(fn func(word string) bool) {
	t.walk(t.root, make([]byte, 0, 32), fn)
}

func (t *Tree) walk(idx int32, buf []byte, fn func(string) bool) bool {
	for idx != nilNode {
		n := t.nodes[idx]
		if !t.walk(n.lo, buf, fn) {
			return false
		}
		word := append(buf, n.ch)
		if n.end && !fn(string(word)) {
			return false
		}
		if !t.walk(n.eq, word, fn) {
			return false
		}
		idx = n.hi
	}
	return true
}

// Len returns the number of distinct words.
func (t *Tree) Len() int {
	return t.words
}

// Nodes returns the number of allocated nodes.
func (t *Tree) Nodes() int {
	if len(t.nodes) == 0 {
		return 0
	}
	return len(t.nodes) - 1
}
