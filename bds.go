package xmss

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
)

// BDS traversal state. The shape mirrors the reference BDS data
// structure (stack, auth, keep, treeHash, retain; each stack entry
// carries its own level in place of a separate stackLevels array); how the per-signature
// update fills auth and treeHash is described at length on
// (*BDSState).Advance.
//
// TreeHashInst is one of the h-k background subtree builders that, in
// the textbook BDS algorithm, are advanced a leaf at a time across
// several signatures so that no single Sign() call ever has to build
// a large subtree from scratch. This implementation instead builds
// whichever subtree a given Advance() needs immediately, the same
// on-demand cached-subtree approach genSubTree/getSubTree use
// elsewhere in this lineage: TreeHashInst.node always ends up holding
// the correct root, it's just computed eagerly rather than amortised
// leaf by leaf. authSibling consults it before recomputing, but Setup
// and Advance only ever ask for a sibling other than the one an
// instance currently holds, so within them that lookup never hits.
// See DESIGN.md for the trade-off this makes.
type TreeHashInst struct {
	H         uint32 // level this instance builds subtree roots for
	NextIdx   uint64 // leaf index the subtree whose root is in Node starts at
	Completed bool   // whether Node currently holds a valid root
	Node      []byte // n-byte subtree root, valid iff Completed
}

// stackNode is one entry of the scratch stack used to fold a run of
// leaves into a single subtree root.
type stackNode struct {
	node  []byte
	level uint32
	start uint64
}

// BDSState is the authentication-path traversal state belonging to a
// single XMSS tree. It is not safe for concurrent use: the caller must
// serialise Sign calls exactly as the concurrency model requires.
type BDSState struct {
	n uint32
	h uint32
	k uint32

	// stack backs the scratch workspace used to fold leaves
	// into subtree roots; reused (and truncated to zero length) across
	// calls so subtreeRoot does not reallocate on every signature.
	stack       []stackNode
	stackOffset int

	auth [][]byte // h entries, auth path for NextLeaf
	// keep holds ceil(h/2) entries per the data model; this design's
	// eager recompute (see authSibling) never needs to read an entry
	// back, so nothing is written into it.
	keep     [][]byte
	treeHash []*TreeHashInst

	// retain memoises subtree roots at levels h-k and above once
	// subtreeRoot has built them, keyed by a fast (non-cryptographic) hash of
	// (level, start leaf) rather than the raw node bytes.
	retain map[uint64][]byte

	root     []byte
	nextLeaf uint64
}

func retainKey(level uint32, start uint64) uint64 {
	var buf [12]byte
	binary.BigEndian.PutUint32(buf[0:4], level)
	binary.BigEndian.PutUint64(buf[4:12], start)
	return xxhash.Sum64(buf[:])
}

// hashingAddrs bundles the three ADRS values (OTS, L-tree, hash-tree)
// a subtree build needs, all sharing the same (layer, tree) subtree
// coordinate.
type hashingAddrs struct {
	ots, ltree, node ADRS
}

func newBDSState(xp *XMSSParams) *BDSState {
	h, k := xp.H, xp.K
	bds := &BDSState{
		n:        xp.N,
		h:        h,
		k:        k,
		auth:     make([][]byte, h),
		keep:     make([][]byte, (h+1)/2),
		treeHash: make([]*TreeHashInst, h-k),
		retain:   make(map[uint64][]byte),
	}
	for i := range bds.treeHash {
		bds.treeHash[i] = &TreeHashInst{H: uint32(i)}
	}
	return bds
}

// subtreeRoot builds the root of the height-level subtree whose
// leftmost leaf is startLeaf, by generating each of its 2^level
// leaves left to right and greedily collapsing the scratch stack
// whenever its top two entries share a level, the standard
// treehash-style construction used throughout XMSS implementations.
func (bds *BDSState) subtreeRoot(hf HashFunc, wp *WOTSParams, skSeed, pubSeed []byte,
	addrs hashingAddrs, startLeaf uint64, level uint32) []byte {

	if cached, ok := bds.retain[retainKey(level, startLeaf)]; ok {
		return cached
	}

	bds.stack = bds.stack[:0]
	count := uint64(1) << level
	for i := uint64(0); i < count; i++ {
		leafIdx := startLeaf + i
		if leafIdx >= (uint64(1) << bds.h) {
			panic(errorf(InternalInvariant,
				"subtreeRoot walked past the tree: leaf %d at height %d", leafIdx, bds.h))
		}
		addrs.ots.SetType(AddrTypeOTS)
		addrs.ots.SetOTSAddress(uint32(leafIdx))
		addrs.ltree.SetType(AddrTypeLTree)
		addrs.ltree.SetLTreeAddress(uint32(leafIdx))
		node := genLeaf(hf, wp, skSeed, pubSeed, addrs.ltree, addrs.ots)
		bds.stack = append(bds.stack, stackNode{node: node, level: 0, start: leafIdx})

		for len(bds.stack) >= 2 &&
			bds.stack[len(bds.stack)-1].level == bds.stack[len(bds.stack)-2].level {
			top := bds.stack[len(bds.stack)-1]
			second := bds.stack[len(bds.stack)-2]
			treeIndex := uint32(second.start >> (second.level + 1))
			parent := hashNodes(hf, bds.n, second.node, top.node, pubSeed,
				second.level, treeIndex, addrs.node)
			bds.stack = bds.stack[:len(bds.stack)-2]
			bds.stack = append(bds.stack, stackNode{
				node: parent, level: second.level + 1, start: second.start,
			})
		}
	}
	if len(bds.stack) != 1 {
		panic(errorf(InternalInvariant,
			"subtreeRoot stack should have collapsed to one entry, has %d", len(bds.stack)))
	}

	root := bds.stack[0].node
	if level >= bds.h-bds.k && bds.k > 0 {
		bds.retain[retainKey(level, startLeaf)] = root
	}
	return root
}

// authSibling returns the node an authentication path needs at level
// for the given leaf: the sibling of leaf's level-`level` ancestor.
// Below h-k it first checks whether that level's treeHash instance
// already holds exactly this root; at h-k and above, subtreeRoot's own
// retain cache is checked instead. Setup and Advance call it before
// updating the instance, when it still holds the previous sibling, so
// for them the treeHash check does not hit.
func (bds *BDSState) authSibling(hf HashFunc, wp *WOTSParams, skSeed, pubSeed []byte,
	addrs hashingAddrs, leaf uint64, level uint32) []byte {
	siblingStart := ((leaf >> level) ^ 1) << level
	if int(level) < len(bds.treeHash) {
		th := bds.treeHash[level]
		if th.Completed && th.NextIdx == siblingStart {
			return th.Node
		}
	}
	return bds.subtreeRoot(hf, wp, skSeed, pubSeed, addrs, siblingStart, level)
}

// Setup performs the initial full-tree build: it computes the root
// and populates auth[] for leaf 0, the leftmost leaf.
func (bds *BDSState) Setup(hf HashFunc, wp *WOTSParams, skSeed, pubSeed []byte, addrs hashingAddrs) {
	for j := uint32(0); j < bds.h; j++ {
		bds.auth[j] = bds.authSibling(hf, wp, skSeed, pubSeed, addrs, 0, j)
		if j < uint32(len(bds.treeHash)) {
			bds.treeHash[j].NextIdx = 1 << j
			bds.treeHash[j].Completed = true
			bds.treeHash[j].Node = bds.auth[j]
		}
	}
	bds.root = bds.subtreeRoot(hf, wp, skSeed, pubSeed, addrs, 0, bds.h)
	bds.nextLeaf = 0
}

// AuthPath returns the n*h-byte authentication path currently staged
// for NextLeaf, concatenated level 0 first.
func (bds *BDSState) AuthPath() []byte {
	path := make([]byte, uint64(bds.n)*uint64(bds.h))
	for j := uint32(0); j < bds.h; j++ {
		copy(path[uint64(j)*uint64(bds.n):], bds.auth[j])
	}
	return path
}

// NextLeaf is the number of authentication paths already emitted: the
// leaf index the staged AuthPath() belongs to.
func (bds *BDSState) NextLeaf() uint64 { return bds.nextLeaf }

// Exhausted reports whether every leaf of the tree has been signed.
func (bds *BDSState) Exhausted() bool {
	return bds.nextLeaf >= uint64(1)<<bds.h
}

// Advance is called once a leaf has been signed: it moves the staged
// authentication path from `signed` to `signed+1` by recomputing every
// auth[] entry whose ancestor subtree changed between the two leaves
// (indices 0..tau, per RFC8391's BDS update), where tau is the lowest
// zero bit of signed. Entries above tau are untouched since they cover
// an ancestor subtree both leaves share.
func (bds *BDSState) Advance(hf HashFunc, wp *WOTSParams, skSeed, pubSeed []byte, addrs hashingAddrs, signed uint64) error {
	next := signed + 1
	if next >= uint64(1)<<bds.h {
		bds.nextLeaf = next
		return nil
	}

	tau := lowestZeroBit(signed)
	if tau >= bds.h {
		return errorf(InternalInvariant, "tau=%d out of range for height %d", tau, bds.h)
	}

	for j := uint32(0); j <= tau; j++ {
		bds.auth[j] = bds.authSibling(hf, wp, skSeed, pubSeed, addrs, next, j)
		if j < uint32(len(bds.treeHash)) {
			bds.treeHash[j].NextIdx = ((next >> j) ^ 1) << j
			bds.treeHash[j].Completed = true
			bds.treeHash[j].Node = bds.auth[j]
		}
	}

	bds.nextLeaf = next
	return nil
}

func lowestZeroBit(s uint64) uint32 {
	for i := uint32(0); i < 64; i++ {
		if (s>>i)&1 == 0 {
			return i
		}
	}
	// s would have to be all-ones (2^64-1) to get here, which is far
	// beyond any tree height this package supports.
	panic(errorf(InternalInvariant, "no zero bit found in leaf index %d", s))
}
