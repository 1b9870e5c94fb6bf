package xmss

import (
	"encoding/binary"
	"io"

	"github.com/bwesterb/byteswriter"
)

// fieldU32 renders x as a 4-byte big-endian field for writeAll.
func fieldU32(x uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], x)
	return b[:]
}

// writeAll writes each field to w in order, stopping at the first
// error. Every caller here writes into a byteswriter.Writer sized to
// fit exactly, so a non-nil error means the fields it was given don't
// match the destination's length, an internal invariant violation.
func writeAll(w io.Writer, fields ...[]byte) error {
	for _, f := range fields {
		if _, err := w.Write(f); err != nil {
			return err
		}
	}
	return nil
}

// defaultBDSK is the BDS parameter this package uses when a caller
// doesn't need to tune the traversal's space/time trade-off. QRL's own
// deployed trees use k=2, which keeps retain small while still letting
// most auth-path refreshes complete in O(1) subtree rebuilds.
const defaultBDSK = 2

const defaultW = 16

// XMSSTree is a single stateful XMSS signing key: WOTS+ geometry, the
// seed material it was derived from, the current leaf index and the
// BDS traversal state that makes producing the next authentication
// path cheap. It is not safe for concurrent use, see the concurrency
// notes on (*XMSSTree).Sign.
type XMSSTree struct {
	params   *XMSSParams
	hashFunc HashFunc
	desc     QRLDescriptor

	seed    []byte // a copy of the original 48-byte seed; SKBytes does not include it
	skSeed  []byte
	skPrf   []byte
	pubSeed []byte
	root    []byte

	idx uint32
	bds *BDSState

	addrs hashingAddrs
}

// InitializeTree is the key generation driver described in the
// component design: it derives SK_SEED/SK_PRF/PUB_SEED from seed,
// builds the BDS state for a fresh tree, and fixes the root under the
// given descriptor (the descriptor's Height selects the tree height,
// HashFunction selects the hash family used for every XMSS hash).
func InitializeTree(desc QRLDescriptor, seed []byte) (*XMSSTree, error) {
	hf := HashFunc(desc.HashFunction)
	params, err := NewXMSSParams(32, uint32(desc.Height), defaultW, defaultBDSK)
	if err != nil {
		return nil, err
	}

	skSeed, skPrf, pubSeed, err := expandSeed(params.N, seed)
	if err != nil {
		return nil, err
	}

	t := &XMSSTree{
		params:   params,
		hashFunc: hf,
		desc:     desc,
		seed:     append([]byte(nil), seed...),
		skSeed:   skSeed,
		skPrf:    skPrf,
		pubSeed:  pubSeed,
		idx:      0,
	}

	t.bds = newBDSState(params)
	t.bds.Setup(hf, params.Wots, t.skSeed, t.pubSeed, t.addrs)
	t.root = append([]byte(nil), t.bds.root...)
	return t, nil
}

// NewXMSSFromSeed builds a tree of the given height directly from a
// 48-byte seed, under the given hash family and address format.
func NewXMSSFromSeed(seed []byte, height uint32, hf HashFunc, addrFormat AddrFormatType) (*XMSSTree, error) {
	desc := QRLDescriptor{
		HashFunction:   uint8(hf),
		SignatureType:  uint8(SignatureTypeXMSS),
		Height:         uint8(height),
		AddrFormatType: uint8(addrFormat),
	}
	return InitializeTree(desc, seed)
}

// NewXMSSFromExtendedSeed rebuilds a tree from its 51-byte extended
// seed (descriptor prefix ‖ 48-byte seed), reconstructing everything
// the descriptor carries: hash family, height and address format.
func NewXMSSFromExtendedSeed(extendedSeed []byte) (*XMSSTree, error) {
	desc, seed, err := UnpackExtendedSeed(extendedSeed)
	if err != nil {
		return nil, err
	}
	return InitializeTree(desc, seed)
}

// RandSource supplies caller-injected randomness; used only by
// NewXMSSFromHeight. It must fill buf completely or return an error;
// partial fills are never retried.
type RandSource func(buf []byte) error

// NewXMSSFromHeight generates a fresh tree of the given height by
// drawing a 48-byte seed from the caller-supplied randomness source.
func NewXMSSFromHeight(height uint32, hf HashFunc, addrFormat AddrFormatType, randSource RandSource) (*XMSSTree, error) {
	seed := make([]byte, seedSize)
	if err := randSource(seed); err != nil {
		return nil, wrapErrorf(InternalInvariant, err, "randSource failed")
	}
	return NewXMSSFromSeed(seed, height, hf, addrFormat)
}

// SKBytes packs the secret key as idx(4) ‖ SK_SEED(n) ‖ SK_PRF(n) ‖
// PUB_SEED(n) ‖ root(n): 132 bytes when n=32. Fields are written
// sequentially through a byteswriter.Writer into a destination buffer
// sized to fit them exactly.
func (t *XMSSTree) SKBytes() []byte {
	n := t.params.N
	out := make([]byte, 4+4*n)
	w := byteswriter.NewWriter(out)
	if err := writeAll(w,
		fieldU32(t.idx), t.skSeed, t.skPrf, t.pubSeed, t.root); err != nil {
		panic(errorf(InternalInvariant, "SKBytes: %v", err))
	}
	return out
}

// ExtendedPK packs the extended public key: desc(3) ‖ root(n) ‖
// pub_seed(n), 67 bytes when n=32.
func (t *XMSSTree) ExtendedPK() []byte {
	packed := t.desc.Pack()
	out := make([]byte, descriptorSize+2*t.params.N)
	w := byteswriter.NewWriter(out)
	if err := writeAll(w, packed[:], t.root, t.pubSeed); err != nil {
		panic(errorf(InternalInvariant, "ExtendedPK: %v", err))
	}
	return out
}

// Address derives this tree's 20-byte QRL address from its own
// extended public key.
func (t *XMSSTree) Address() ([addressSize]byte, error) {
	return GetXMSSAddressFromPK(t.ExtendedPK())
}

// Idx is the next leaf index Sign will consume.
func (t *XMSSTree) Idx() uint32 { return t.idx }

// Descriptor returns the tree's QRL descriptor.
func (t *XMSSTree) Descriptor() QRLDescriptor { return t.desc }

// Height is the tree's configured height.
func (t *XMSSTree) Height() uint32 { return t.params.H }

// Sign produces one signature over msg and advances the tree by
// exactly one leaf: idx and bdsState.nextLeaf both increase by one.
// This is a stateful, non-reentrant operation: the caller must
// serialise calls and must
// persist the new SKBytes()/BDS state before releasing the signature,
// since a crash between signing and persisting risks reusing idx.
func (t *XMSSTree) Sign(msg []byte) ([]byte, error) {
	n := t.params.N
	h := t.params.H
	wp := t.params.Wots

	if uint64(t.idx) >= uint64(1)<<h {
		return nil, errorf(KeyExhausted, "xmss key exhausted: idx=%d height=%d", t.idx, h)
	}

	r := prf(t.hashFunc, n, t.skPrf, toByte(uint64(t.idx), 32))

	key := make([]byte, 3*n)
	copy(key[0:n], r)
	copy(key[n:2*n], t.root)
	toByteInto(uint64(t.idx), key[2*n:3*n])

	digest := make([]byte, n)
	if err := hMsg(t.hashFunc, n, digest, msg, key); err != nil {
		return nil, err
	}

	var otsAddr ADRS
	otsAddr.SetType(AddrTypeOTS)
	otsAddr.SetOTSAddress(t.idx)
	leafSeed := otsSeed(t.hashFunc, n, t.skSeed, otsAddr)
	wotsSig := wotsSign(t.hashFunc, wp, digest, leafSeed, t.pubSeed, otsAddr)

	authPath := t.bds.AuthPath()

	sig := make([]byte, getSignatureSize(t.params))
	w := byteswriter.NewWriter(sig)
	if err := writeAll(w, fieldU32(t.idx), r, wotsSig, authPath); err != nil {
		return nil, wrapErrorf(InternalInvariant, err, "packing signature")
	}

	signed := uint64(t.idx)
	t.idx++
	if err := t.bds.Advance(t.hashFunc, wp, t.skSeed, t.pubSeed, t.addrs, signed); err != nil {
		return nil, err
	}
	return sig, nil
}

// VerifySignature checks sig against msg and the extended public key
// ePK, recomputing the WOTS+ public key from the signature and folding
// it up the authentication path to compare against the committed
// root.
func VerifySignature(hf HashFunc, p *XMSSParams, sig, msg, ePK []byte) (bool, error) {
	n := p.N
	wp := p.Wots
	baseSize := calculateSignatureBaseSize(wp.KeySize)
	if uint32(len(sig)) != baseSize+p.H*n {
		return false, errorf(ParameterError, "signature must be %d bytes, got %d", baseSize+p.H*n, len(sig))
	}
	if uint32(len(ePK)) != descriptorSize+2*n {
		return false, errorf(ParameterError, "extended public key must be %d bytes, got %d", descriptorSize+2*n, len(ePK))
	}

	idx := binary.BigEndian.Uint32(sig[0:4])
	r := sig[4 : 4+n]
	wotsSig := sig[4+n : 4+n+wp.Len*n]
	authPath := sig[4+n+wp.Len*n:]

	root := ePK[descriptorSize : descriptorSize+n]
	pubSeed := ePK[descriptorSize+n : descriptorSize+2*n]

	key := make([]byte, 3*n)
	copy(key[0:n], r)
	copy(key[n:2*n], root)
	toByteInto(uint64(idx), key[2*n:3*n])

	digest := make([]byte, n)
	if err := hMsg(hf, n, digest, msg, key); err != nil {
		return false, err
	}

	var otsAddr, lTreeAddr, nodeAddr ADRS
	otsAddr.SetType(AddrTypeOTS)
	otsAddr.SetOTSAddress(idx)
	pk := wotsPkFromSig(hf, wp, wotsSig, digest, pubSeed, otsAddr)

	lTreeAddr.SetType(AddrTypeLTree)
	lTreeAddr.SetLTreeAddress(idx)
	node := lTree(hf, n, pk, pubSeed, lTreeAddr, wp.Len)

	leafIdx := idx
	for j := uint32(0); j < p.H; j++ {
		sibling := authPath[uint64(j)*uint64(n) : uint64(j+1)*uint64(n)]
		treeIndex := leafIdx >> (j + 1)
		if (leafIdx>>j)&1 == 0 {
			node = hashNodes(hf, n, node, sibling, pubSeed, j, treeIndex, nodeAddr)
		} else {
			node = hashNodes(hf, n, sibling, node, pubSeed, j, treeIndex, nodeAddr)
		}
	}

	if len(node) != len(root) {
		return false, nil
	}
	for i := range node {
		if node[i] != root[i] {
			return false, nil
		}
	}
	return true, nil
}
