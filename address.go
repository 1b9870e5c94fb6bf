package xmss

import "encoding/binary"

// AddrType selects which of the three interpretations of words 4-6 of
// an ADRS is active: an OTS (WOTS+) address, an L-tree address, or a
// hash-tree (interior node) address.
type AddrType uint32

const (
	AddrTypeOTS AddrType = iota
	AddrTypeLTree
	AddrTypeHashTree
)

// ADRS is the 32-byte address structure (eight big-endian 32-bit words)
// that feeds domain separation into PRF, F and H. Layout, word 0..3
// are shared by every address kind:
//
//	word 0: layer       (always 0 for a single XMSS tree)
//	word 1: tree (high)  (always 0 for a single XMSS tree)
//	word 2: tree (low)   (always 0 for a single XMSS tree)
//	word 3: type
//
// words 4..6 are interpreted per Type, and word 7 is always the
// keyAndMask selector used by F and H to pick which of the two or
// three per-step pseudorandom values they are deriving.
type ADRS [8]uint32

// NewADRSFromWords builds an ADRS from a caller-supplied slice of
// words. Any API in this package that accepts an externally supplied
// address goes through this constructor, so the length contract is
// enforced in exactly one place.
func NewADRSFromWords(words []uint32) (ADRS, error) {
	var a ADRS
	if len(words) != 8 {
		return a, errorf(ParameterError,
			"addr should be an array of size 8")
	}
	copy(a[:], words)
	return a, nil
}

func (a *ADRS) SetLayer(layer uint32) { a[0] = layer }

func (a *ADRS) SetTreeAddress(tree uint64) {
	a[1] = uint32(tree >> 32)
	a[2] = uint32(tree)
}

// SetType switches the address kind and, per the zeroing discipline,
// clears the type-specific words whenever the type actually changes.
func (a *ADRS) SetType(t AddrType) {
	if AddrType(a[3]) == t {
		return
	}
	a[3] = uint32(t)
	a[4], a[5], a[6], a[7] = 0, 0, 0, 0
}

func (a *ADRS) SetOTSAddress(idx uint32)    { a[4] = idx }
func (a *ADRS) SetChainAddress(chain uint32) { a[5] = chain }
func (a *ADRS) SetHashAddress(hash uint32)   { a[6] = hash }

func (a *ADRS) SetLTreeAddress(idx uint32)        { a[4] = idx }
func (a *ADRS) SetTreeHeight(height uint32)       { a[5] = height }
func (a *ADRS) SetTreeIndex(index uint32)         { a[6] = index }

func (a *ADRS) SetKeyAndMask(keyAndMask uint32) { a[7] = keyAndMask }

// OTSAddress, TreeHeight etc. read back the field under its current
// interpretation; callers are expected to know which Type is active.
func (a *ADRS) OTSAddress() uint32  { return a[4] }
func (a *ADRS) TreeHeight() uint32  { return a[5] }
func (a *ADRS) TreeIndex() uint32   { return a[6] }

// ToBytes renders the address as the 32-byte big-endian buffer that
// PRF, F and H hash over.
func (a *ADRS) ToBytes() []byte {
	buf := make([]byte, 32)
	a.WriteInto(buf)
	return buf
}

// WriteInto writes the 32-byte encoding of a into buf, which must have
// at least 32 bytes of capacity.
func (a *ADRS) WriteInto(buf []byte) {
	for i := 0; i < 8; i++ {
		binary.BigEndian.PutUint32(buf[i*4:i*4+4], a[i])
	}
}
