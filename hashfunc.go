package xmss

//go:generate enumer -type HashFunc

// HashFunc selects the hash family an XMSSTree is built on. The core
// never calls into SHA-256 or SHAKE directly outside of coreHash: every
// other routine is parameterised over HashFunc so WOTS+, the tree and
// H_msg stay oblivious to which primitive backs them.
type HashFunc uint8

const (
	// SHA2_256 uses SHA-256 for coreHash.
	SHA2_256 HashFunc = iota
	// SHAKE_128 uses SHAKE-128 as an XOF for coreHash.
	SHAKE_128
	// SHAKE_256 uses SHAKE-256 as an XOF for coreHash.
	SHAKE_256
)
