package models

// NodeKind tells which variant a DiffNode holds.
type NodeKind int

const (
	// NodeEmpty means there is no difference at this point.
	NodeEmpty NodeKind = iota
	// NodeLeaf means both sides hold non-object values that differ.
	NodeLeaf
	// NodeBranch means this level is an object with differing children.
	NodeBranch
)

// String returns the variant name
func (k NodeKind) String() string {
	switch k {
	case NodeLeaf:
		return "Leaf"
	case NodeBranch:
		return "Branch"
	default:
		return "Empty"
	}
}

// DiffNode is one point of a diff tree. The zero value is the Empty node.
type DiffNode struct {
	Kind     NodeKind
	Left     JSONValue
	Right    JSONValue
	Children map[string]DiffNode
}

// Empty returns the node that carries no difference.
func Empty() DiffNode {
	return DiffNode{}
}

// Leaf returns a node holding both sides of a differing value.
func Leaf(left, right JSONValue) DiffNode {
	return DiffNode{Kind: NodeLeaf, Left: left, Right: right}
}

// Branch returns a node for an object level. A branch without children
// collapses to Empty.
func Branch(children map[string]DiffNode) DiffNode {
	if len(children) == 0 {
		return Empty()
	}
	return DiffNode{Kind: NodeBranch, Children: children}
}

// IsEmpty reports whether the node carries no difference
func (n DiffNode) IsEmpty() bool {
	return n.Kind == NodeEmpty
}

// Mismatch bundles the three diff trees produced for a record pair.
// DateDiffer is set only when the pair was judged temporally unaligned, in
// which case all three trees are Empty. A true value means the left record
// is earlier (an event missing on the right); false means the right record
// is earlier (a new event on the right).
type Mismatch struct {
	LeftOnlyKeys  DiffNode
	RightOnlyKeys DiffNode
	KeysInBoth    DiffNode
	DateDiffer    *bool
}

// NoMismatch is the canonical value meaning nothing is worth reporting.
var NoMismatch = Mismatch{}

// NewMismatch builds a Mismatch from its parts.
func NewMismatch(leftOnly, rightOnly, both DiffNode, dateDiffer *bool) Mismatch {
	return Mismatch{
		LeftOnlyKeys:  leftOnly,
		RightOnlyKeys: rightOnly,
		KeysInBoth:    both,
		DateDiffer:    dateDiffer,
	}
}

// DateMismatch builds the Mismatch for a temporally unaligned pair.
func DateMismatch(leftEarlier bool) Mismatch {
	return Mismatch{DateDiffer: &leftEarlier}
}

// IsEmpty reports whether m equals NoMismatch
func (m Mismatch) IsEmpty() bool {
	return m.DateDiffer == nil &&
		m.LeftOnlyKeys.IsEmpty() &&
		m.RightOnlyKeys.IsEmpty() &&
		m.KeysInBoth.IsEmpty()
}

// Kind classifies the mismatch into the event kind a renderer reports.
func (m Mismatch) Kind() EventKind {
	switch {
	case m.DateDiffer != nil && *m.DateDiffer:
		return EventMissing
	case m.DateDiffer != nil:
		return EventNew
	case m.IsEmpty():
		return EventIdentical
	default:
		return EventModified
	}
}
