package auction

import (
	"fmt"

	"github.com/zkzoomer/repoauction/internal/hashfn"
)

// LeanIMT is a lean incremental Merkle tree: an append-only tree that avoids
// padding leaves by promoting a lone trailing node at any level unchanged.
// nodes[0] holds the leaves; the last slice holds the single root.
type LeanIMT struct {
	hash  hashfn.HashFunc
	nodes [][]Digest
}

// NewLeanIMT builds a tree over leaves in the given order.
func NewLeanIMT(hash hashfn.HashFunc, leaves []Digest) *LeanIMT {
	t := &LeanIMT{hash: hash, nodes: [][]Digest{{}}}
	if len(leaves) > 0 {
		t.insertMany(leaves)
	}
	return t
}

// Root returns the tree's root, or the all-zero digest if it has no leaves.
func (t *LeanIMT) Root() Digest {
	top := t.nodes[t.depth()]
	if len(top) == 0 {
		return Digest{}
	}
	return top[0]
}

func (t *LeanIMT) depth() int { return len(t.nodes) - 1 }

// Size returns the number of leaves in the tree.
func (t *LeanIMT) Size() int { return len(t.nodes[0]) }

func (t *LeanIMT) insertMany(leaves []Digest) {
	startIndex := t.Size() >> 1
	t.nodes[0] = append(t.nodes[0], leaves...)

	newLevels := ceilLog2(t.Size()) - t.depth()
	for i := 0; i < newLevels; i++ {
		t.nodes = append(t.nodes, []Digest{})
	}

	for level := 0; level < t.depth(); level++ {
		numNodes := (len(t.nodes[level]) + 1) / 2
		for index := startIndex; index < numNodes; index++ {
			left := t.nodes[level][index*2]
			var parent Digest
			if rightIdx := index*2 + 1; rightIdx < len(t.nodes[level]) {
				right := t.nodes[level][rightIdx]
				parent = t.hashPair(left, right)
			} else {
				parent = left
			}
			if index >= len(t.nodes[level+1]) {
				t.nodes[level+1] = append(t.nodes[level+1], parent)
			} else {
				t.nodes[level+1][index] = parent
			}
		}
		startIndex >>= 1
	}
}

func (t *LeanIMT) hashPair(l, r Digest) Digest {
	buf := make([]byte, 0, 64)
	buf = append(buf, l[:]...)
	buf = append(buf, r[:]...)
	return t.hash(buf)
}

func ceilLog2(n int) int {
	if n <= 1 {
		return 0
	}
	levels := 0
	size := 1
	for size < n {
		size <<= 1
		levels++
	}
	return levels
}

// Proof is a Merkle inclusion proof for one leaf: the sibling sequence
// encountered on the path to the root, plus the left/right bit pattern
// packed MSB-first (root-to-leaf) into Index.
type Proof struct {
	Root      Digest
	Leaf      Digest
	Index     int
	Siblings  []Digest
}

// GenerateProof returns the inclusion proof for the leaf at index, or an
// error if index is out of range — the only distinguished failure surface
// in the engine.
func (t *LeanIMT) GenerateProof(index int) (Proof, error) {
	if index < 0 || index >= t.Size() {
		return Proof{}, fmt.Errorf("auction: leaf index %d out of range [0, %d)", index, t.Size())
	}

	leaf := t.nodes[0][index]
	var siblings []Digest
	var path []bool
	cur := index

	for level := 0; level < t.depth(); level++ {
		isRight := cur&1 == 1
		var siblingIdx int
		if isRight {
			siblingIdx = cur - 1
		} else {
			siblingIdx = cur + 1
		}
		if siblingIdx < len(t.nodes[level]) {
			path = append(path, isRight)
			siblings = append(siblings, t.nodes[level][siblingIdx])
		}
		cur >>= 1
	}

	reverseBools(path)
	index2 := 0
	for _, bit := range path {
		index2 <<= 1
		if bit {
			index2 |= 1
		}
	}

	return Proof{
		Root:     t.Root(),
		Leaf:     leaf,
		Index:    index2,
		Siblings: siblings,
	}, nil
}

// VerifyProof replays H(L‖R)/H(R‖L) per packed bit and compares the result
// against the proof's claimed root.
func VerifyProof(hash hashfn.HashFunc, proof Proof) bool {
	node := proof.Leaf
	for i, sibling := range proof.Siblings {
		buf := make([]byte, 0, 64)
		if (proof.Index>>uint(i))&1 == 1 {
			buf = append(buf, sibling[:]...)
			buf = append(buf, node[:]...)
		} else {
			buf = append(buf, node[:]...)
			buf = append(buf, sibling[:]...)
		}
		node = hash(buf)
	}
	return node == proof.Root
}

func reverseBools(s []bool) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
