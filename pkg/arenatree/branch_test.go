package arenatree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leafRef(h Handle) NodeRef   { return NodeRef{Kind: LeafKind, Handle: h} }
func branchRef(h Handle) NodeRef { return NodeRef{Kind: BranchKind, Handle: h} }

func TestBranchFindChildIndexRoutesEqualKeyRight(t *testing.T) {
	b := newBranch[int](4)
	b.keys = []int{10, 20, 30}
	b.children = []NodeRef{leafRef(0), leafRef(1), leafRef(2), leafRef(3)}

	assert.Equal(t, 0, b.findChildIndex(5))
	assert.Equal(t, 1, b.findChildIndex(10), "key equal to a separator routes right")
	assert.Equal(t, 1, b.findChildIndex(15))
	assert.Equal(t, 3, b.findChildIndex(30))
	assert.Equal(t, 3, b.findChildIndex(99))
}

func TestBranchChildKind(t *testing.T) {
	b := newBranch[int](4)
	b.children = []NodeRef{leafRef(0)}
	assert.Equal(t, LeafKind, b.childKind())

	b.children = []NodeRef{branchRef(0)}
	assert.Equal(t, BranchKind, b.childKind())
}

func TestBranchInsertChild(t *testing.T) {
	b := newBranch[int](4)
	b.keys = []int{10}
	b.children = []NodeRef{leafRef(0), leafRef(1)}

	b.insertChild(1, 20, leafRef(2))
	assert.Equal(t, []int{10, 20}, b.keys)
	assert.Equal(t, []NodeRef{leafRef(0), leafRef(1), leafRef(2)}, b.children)
}

func TestBranchInsertChildAtStart(t *testing.T) {
	b := newBranch[int](4)
	b.keys = []int{10}
	b.children = []NodeRef{leafRef(0), leafRef(1)}

	b.insertChild(0, 5, leafRef(2))
	assert.Equal(t, []int{5, 10}, b.keys)
	assert.Equal(t, []NodeRef{leafRef(0), leafRef(2), leafRef(1)}, b.children)
}

func TestBranchSplit(t *testing.T) {
	b := newBranch[int](4)
	b.keys = []int{10, 20, 30, 40, 50}
	b.children = []NodeRef{leafRef(0), leafRef(1), leafRef(2), leafRef(3), leafRef(4), leafRef(5)}

	sep, right := b.split(4)
	assert.Equal(t, 30, sep, "middle separator at mid=(5-1)/2=2 is promoted")
	assert.Equal(t, []int{10, 20}, b.keys)
	assert.Equal(t, []NodeRef{leafRef(0), leafRef(1), leafRef(2)}, b.children)
	assert.Equal(t, []int{40, 50}, right.keys)
	assert.Equal(t, []NodeRef{leafRef(3), leafRef(4), leafRef(5)}, right.children)
}

func TestBranchBorrowFirstAndLast(t *testing.T) {
	b := newBranch[int](4)
	b.keys = []int{10, 20, 30, 40}
	b.children = []NodeRef{leafRef(0), leafRef(1), leafRef(2), leafRef(3), leafRef(4)}

	sep, child, ok := b.borrowFirst(4)
	require.True(t, ok)
	assert.Equal(t, 10, sep)
	assert.Equal(t, leafRef(0), child)
	assert.Equal(t, []int{20, 30, 40}, b.keys)

	sep, child, ok = b.borrowLast(4)
	require.True(t, ok)
	assert.Equal(t, 40, sep)
	assert.Equal(t, leafRef(4), child)
	assert.Equal(t, []int{20, 30}, b.keys)

	_, _, ok = b.borrowFirst(4)
	assert.False(t, ok, "two keys left equals minOccupancy(4), borrowing would underflow")
}

func TestBranchAcceptFromLeftAndRight(t *testing.T) {
	b := newBranch[int](4)
	b.keys = []int{20}
	b.children = []NodeRef{leafRef(1), leafRef(2)}

	b.acceptFromLeft(10, leafRef(0))
	assert.Equal(t, []int{10, 20}, b.keys)
	assert.Equal(t, []NodeRef{leafRef(0), leafRef(1), leafRef(2)}, b.children)

	b.acceptFromRight(30, leafRef(3))
	assert.Equal(t, []int{10, 20, 30}, b.keys)
	assert.Equal(t, []NodeRef{leafRef(0), leafRef(1), leafRef(2), leafRef(3)}, b.children)
}

func TestBranchMergeFrom(t *testing.T) {
	left := newBranch[int](4)
	left.keys = []int{10}
	left.children = []NodeRef{leafRef(0), leafRef(1)}

	right := newBranch[int](4)
	right.keys = []int{30}
	right.children = []NodeRef{leafRef(2), leafRef(3)}

	left.mergeFrom(20, right)
	assert.Equal(t, []int{10, 20, 30}, left.keys)
	assert.Equal(t, []NodeRef{leafRef(0), leafRef(1), leafRef(2), leafRef(3)}, left.children)
	assert.Empty(t, right.keys)
	assert.Empty(t, right.children)
}
