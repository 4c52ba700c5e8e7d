package vtree

import "sort"

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement Kind = iota // <div>, <button>, etc.
	KindText                // Plain text leaf
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Node is an immutable element or text leaf. Construct one with Element,
// VoidElement, or Text; never via a struct literal outside this package,
// so the node invariants (deduplicated classes, unique attribute names, no
// children on a void element) hold for every Node in existence.
type Node struct {
	kind     Kind
	tag      string
	void     bool
	key      string
	hasKey   bool
	classes  map[string]struct{}
	attrs    map[string]string
	children []*Node
	text     string
}

// Option configures a Node under construction. Apply via Element or
// VoidElement.
type Option func(*Node)

// Key sets the node's stable identity key, meaningful only within the
// scope of a single parent's children sequence.
func Key(key string) Option {
	return func(n *Node) { n.key, n.hasKey = key, true }
}

// Class adds one or more classes to the node's class set. Duplicates
// (within a single call or across calls) are deduplicated.
func Class(names ...string) Option {
	return func(n *Node) {
		for _, name := range names {
			if name == "" {
				continue
			}
			n.classes[name] = struct{}{}
		}
	}
}

// Attr sets an attribute name/value pair. A later Attr with the same name
// overwrites an earlier one.
func Attr(name, value string) Option {
	return func(n *Node) { n.attrs[name] = value }
}

// Kids appends ordered children. Passing Kids to a void element is a
// programmer error and panics with a Defect.
func Kids(children ...*Node) Option {
	return func(n *Node) { n.children = append(n.children, children...) }
}

// Element constructs an immutable element node.
func Element(tag string, opts ...Option) *Node {
	return newElement(tag, false, opts)
}

// VoidElement constructs an immutable void element: one with no closing
// syntax and, per invariant, no children.
func VoidElement(tag string, opts ...Option) *Node {
	return newElement(tag, true, opts)
}

func newElement(tag string, void bool, opts []Option) *Node {
	n := &Node{
		kind:    KindElement,
		tag:     tag,
		void:    void,
		classes: make(map[string]struct{}),
		attrs:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.void && len(n.children) > 0 {
		panic(Defect{Op: "Element", Msg: "void element " + tag + " cannot have children"})
	}
	return n
}

// Text constructs a text leaf.
func Text(content string) *Node {
	return &Node{kind: KindText, text: content}
}

// Kind reports whether this is an element or text node.
func (n *Node) Kind() Kind { return n.kind }

// Tag returns the element's tag name. Empty for text nodes.
func (n *Node) Tag() string { return n.tag }

// Void reports whether this element has no closing syntax / children.
func (n *Node) Void() bool { return n.void }

// Key returns the node's stable identity key, if present.
func (n *Node) Key() (key string, ok bool) { return n.key, n.hasKey }

// Classes returns the node's class set as a sorted slice view.
// Iteration order over the underlying set is not semantically significant;
// sorting here only makes the view deterministic to callers and tests.
func (n *Node) Classes() []string {
	out := make([]string, 0, len(n.classes))
	for c := range n.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// HasClass reports whether the node's class set contains name.
func (n *Node) HasClass(name string) bool {
	_, ok := n.classes[name]
	return ok
}

// Attrs returns a copy of the node's attribute map. Iteration order is not
// semantically significant.
func (n *Node) Attrs() map[string]string {
	out := make(map[string]string, len(n.attrs))
	for k, v := range n.attrs {
		out[k] = v
	}
	return out
}

// Children returns the node's ordered children. The returned slice is a
// view; callers must not mutate it.
func (n *Node) Children() []*Node { return n.children }

// TextContent returns the text payload. Empty for elements.
func (n *Node) TextContent() string { return n.text }

// Equal reports whether two Node subtrees are structurally identical.
// It is used only by the test suite — the diff engine never calls it,
// comparing fields selectively instead.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.kind != other.kind {
		return false
	}
	if n.kind == KindText {
		return n.text == other.text
	}
	if n.tag != other.tag || n.void != other.void {
		return false
	}
	if n.hasKey != other.hasKey || (n.hasKey && n.key != other.key) {
		return false
	}
	if len(n.classes) != len(other.classes) {
		return false
	}
	for c := range n.classes {
		if !other.HasClass(c) {
			return false
		}
	}
	if len(n.attrs) != len(other.attrs) {
		return false
	}
	for k, v := range n.attrs {
		if ov, ok := other.attrs[k]; !ok || ov != v {
			return false
		}
	}
	if len(n.children) != len(other.children) {
		return false
	}
	for i, child := range n.children {
		if !child.Equal(other.children[i]) {
			return false
		}
	}
	return true
}

// getKey returns the node's alignment key: an element's key if present, or
// absent for unkeyed elements and for every text node. Used by keyEqual
// (root-level diff and prefix/suffix trimming) and by the keyed-middle
// reconciler, never by equality.
func getKey(n *Node) (key string, has bool) {
	if n.kind != KindElement {
		return "", false
	}
	return n.key, n.hasKey
}

// keyEqual implements the "two absent keys match" alignment rule shared by
// prefix/suffix trimming and the root-level diff decision.
func keyEqual(a, b *Node) bool {
	ak, ahas := getKey(a)
	bk, bhas := getKey(b)
	if ahas != bhas {
		return false
	}
	if !ahas {
		return true
	}
	return ak == bk
}
