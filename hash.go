package xmss

// Hash dispatch, PRF, the WOTS+ chaining function F, the tree hash H
// and the randomised message hash H_msg. Every routine here is pure:
// given the same hash family and bytes it always returns the same
// output, which is what lets the rest of the package (WOTS+, the
// tree, BDS) stay free of any notion of "which hash are we using".

import (
	"crypto/sha256"

	"github.com/templexxx/xor"
	"golang.org/x/crypto/sha3"
)

// Domain separation tags prepended (as a 32-byte big-endian word) to
// every hash computed by this package. These match the tree-hash
// draft's HASH_PADDING_* constants: 0 for the WOTS+ chain, 1 for
// interior tree nodes, 2 for the message digest and 3 for PRF.
const (
	tagF    = 0
	tagH    = 1
	tagHMsg = 2
	tagPRF  = 3
)

// toByte encodes x as a big-endian value occupying outLen bytes,
// truncating silently above outLen bytes just like the reference
// to_byte() function this models.
func toByte(x uint64, outLen int) []byte {
	out := make([]byte, outLen)
	toByteInto(x, out)
	return out
}

func toByteInto(x uint64, out []byte) {
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = byte(x)
		x >>= 8
	}
}

// coreHash is the single hash dispatch point: it routes to SHA-256 or
// one of the SHAKE XOFs and always returns exactly n bytes.
func coreHash(hf HashFunc, n uint32, in []byte) []byte {
	out := make([]byte, n)
	coreHashInto(hf, in, out)
	return out
}

func coreHashInto(hf HashFunc, in, out []byte) {
	switch hf {
	case SHA2_256:
		sum := sha256.Sum256(in)
		copy(out, sum[:])
	case SHAKE_128:
		h := sha3.NewShake128()
		h.Write(in)
		h.Read(out)
	case SHAKE_256:
		h := sha3.NewShake256()
		h.Write(in)
		h.Read(out)
	default:
		panic(errorf(InternalInvariant, "unknown hash family %d", hf))
	}
}

// prf computes PRF(key, in) = coreHash(3 ‖ key ‖ in), producing n
// bytes. in is the 32-byte value (an address or a counter) that makes
// this a *keyed* pseudorandom function rather than a plain hash.
func prf(hf HashFunc, n uint32, key, in []byte) []byte {
	buf := make([]byte, 32+len(key)+len(in))
	toByteInto(tagPRF, buf[:32])
	copy(buf[32:], key)
	copy(buf[32+len(key):], in)
	return coreHash(hf, n, buf)
}

// prfAddr is prf specialised to an ADRS input, used everywhere the
// pseudorandom function is keyed off pub_seed or sk_seed and addressed
// by an ADRS rather than a plain counter.
func prfAddr(hf HashFunc, n uint32, key []byte, addr ADRS) []byte {
	return prf(hf, n, key, addr.ToBytes())
}

// f computes the WOTS+ chaining step F(key, bitmask, in) =
// coreHash(0 ‖ key ‖ (in XOR bitmask)).
func f(hf HashFunc, n uint32, key, bitmask, in []byte) []byte {
	masked := make([]byte, n)
	xor.BytesSameLen(masked, in, bitmask)
	buf := make([]byte, 32+len(key)+int(n))
	toByteInto(tagF, buf[:32])
	copy(buf[32:], key)
	copy(buf[32+len(key):], masked)
	return coreHash(hf, n, buf)
}

// wotsF applies the chaining function at one address, deriving its own
// key and bitmask from pubSeed the way every WOTS+ chain step must:
// key = PRF(pubSeed, addr with keyAndMask=0), bitmask = PRF(pubSeed,
// addr with keyAndMask=1).
func wotsF(hf HashFunc, n uint32, pubSeed, in []byte, addr ADRS) []byte {
	addr.SetKeyAndMask(0)
	key := prfAddr(hf, n, pubSeed, addr)
	addr.SetKeyAndMask(1)
	bitmask := prfAddr(hf, n, pubSeed, addr)
	return f(hf, n, key, bitmask, in)
}

// h computes RAND_HASH(left, right) per RFC8391: tag 1, a key derived
// from pubSeed at keyAndMask=0, and two bitmasks (keyAndMask=1,2) each
// XORed into the corresponding child before hashing.
func h(hf HashFunc, n uint32, left, right, pubSeed []byte, addr ADRS) []byte {
	addr.SetKeyAndMask(0)
	key := prfAddr(hf, n, pubSeed, addr)
	addr.SetKeyAndMask(1)
	bm0 := prfAddr(hf, n, pubSeed, addr)
	addr.SetKeyAndMask(2)
	bm1 := prfAddr(hf, n, pubSeed, addr)

	maskedLeft := make([]byte, n)
	maskedRight := make([]byte, n)
	xor.BytesSameLen(maskedLeft, left, bm0)
	xor.BytesSameLen(maskedRight, right, bm1)

	buf := make([]byte, 32+3*int(n))
	toByteInto(tagH, buf[:32])
	copy(buf[32:], key)
	copy(buf[32+int(n):], maskedLeft)
	copy(buf[32+2*int(n):], maskedRight)
	return coreHash(hf, n, buf)
}

// hMsg computes the randomised message hash. key must be exactly 3n
// bytes (r ‖ root ‖ to_byte(idx, n)) or this returns a ParameterError
// naming both n and the length it actually got.
func hMsg(hf HashFunc, n uint32, out, in, key []byte) error {
	if len(key) != 3*int(n) {
		return errorf(ParameterError,
			"H_msg key must be 3*n bytes with n=%d, got a key of length %d", n, len(key))
	}
	buf := make([]byte, 32+len(key)+len(in))
	toByteInto(tagHMsg, buf[:32])
	copy(buf[32:], key)
	copy(buf[32+len(key):], in)
	coreHashInto(hf, buf, out)
	return nil
}
