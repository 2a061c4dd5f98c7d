package arenatree

// NodeKind discriminates the two node shapes a NodeRef can name.
type NodeKind uint8

const (
	// LeafKind identifies a node reference pointing into the leaf arena.
	LeafKind NodeKind = iota
	// BranchKind identifies a node reference pointing into the branch arena.
	BranchKind
)

// NodeRef is a tagged, non-owning locator for a node: a (kind, handle) pair.
// The referenced node's lifetime equals its slot's allocated interval; a
// NodeRef outlives that interval only by programmer error.
type NodeRef struct {
	Kind   NodeKind
	Handle Handle
}

// nilRef is the NodeRef naming "no node". A leaf's absent next pointer is
// represented directly as NilHandle, not as a NodeRef.
var nilRef = NodeRef{Handle: NilHandle}

func (r NodeRef) isNil() bool { return r.Handle == NilHandle }
