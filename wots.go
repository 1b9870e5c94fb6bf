package xmss

// WOTS+ one-time signature: key expansion from a seed, the chaining
// function built on top of F, base-w message decomposition with its
// checksum, signing and public-key recovery from a signature.

// wotsExpandSeed derives the len secret-key chain starting points from
// a single ots_seed: sk_i = PRF(ots_seed, to_byte(i, 32)).
func wotsExpandSeed(hf HashFunc, p *WOTSParams, otsSeed []byte) []byte {
	sk := make([]byte, p.Len*p.N)
	for i := uint32(0); i < p.Len; i++ {
		copy(sk[i*p.N:(i+1)*p.N], prf(hf, p.N, otsSeed, toByte(uint64(i), 32)))
	}
	return sk
}

// wotsChain computes the (start+steps)th value of the hash chain
// rooted at in, applying wotsF at addr.hash=start, start+1, ... It
// never branches on the contents of in or the derived key material,
// only on the publicly known start/steps/w bounds.
func wotsChain(hf HashFunc, n uint32, in []byte, start, steps uint16, w uint16,
	pubSeed []byte, addr ADRS) []byte {
	buf := make([]byte, n)
	copy(buf, in)
	for i := start; i < start+steps && i < w; i++ {
		addr.SetHashAddress(uint32(i))
		buf = wotsF(hf, n, pubSeed, buf, addr)
	}
	return buf
}

// wotsChainLengths converts a message digest into len base-w digits:
// the first Len1 digits are the digest itself in base w, and the
// remaining Len2 carry the checksum of those digits so that an
// attacker cannot raise a digit of the forged digest without being
// caught by a matching drop in the checksum.
func wotsChainLengths(p *WOTSParams, msg []byte) []uint8 {
	lengths := make([]uint8, p.Len)
	calcBaseW(lengths, int(p.Len1), msg, p)

	var csum uint32
	for i := uint32(0); i < p.Len1; i++ {
		csum += uint32(p.W) - 1 - uint32(lengths[i])
	}
	shift := (8 - (p.Len2*uint32(p.LogW))%8) % 8
	csum <<= shift

	csumBytes := toByte(uint64(csum), int((p.Len2*uint32(p.LogW)+7)/8))
	calcBaseW(lengths[p.Len1:], int(p.Len2), csumBytes, p)
	return lengths
}

// wotsPkGen derives the WOTS+ public key (len chain-top values,
// concatenated) for the one-time secret seeded by otsSeed.
func wotsPkGen(hf HashFunc, p *WOTSParams, otsSeed, pubSeed []byte, addr ADRS) []byte {
	sk := wotsExpandSeed(hf, p, otsSeed)
	pk := make([]byte, p.Len*p.N)
	for i := uint32(0); i < p.Len; i++ {
		addr.SetChainAddress(i)
		chainTop := wotsChain(hf, p.N, sk[i*p.N:(i+1)*p.N], 0, p.W-1, p.W, pubSeed, addr)
		copy(pk[i*p.N:(i+1)*p.N], chainTop)
	}
	return pk
}

// wotsSign produces a one-time signature of the n-byte digest msg
// under the secret seeded by otsSeed.
func wotsSign(hf HashFunc, p *WOTSParams, msg, otsSeed, pubSeed []byte, addr ADRS) []byte {
	lengths := wotsChainLengths(p, msg)
	sk := wotsExpandSeed(hf, p, otsSeed)
	sig := make([]byte, p.Len*p.N)
	for i := uint32(0); i < p.Len; i++ {
		addr.SetChainAddress(i)
		chainVal := wotsChain(hf, p.N, sk[i*p.N:(i+1)*p.N], 0, uint16(lengths[i]), p.W, pubSeed, addr)
		copy(sig[i*p.N:(i+1)*p.N], chainVal)
	}
	return sig
}

// wotsPkFromSig recovers the public key implied by a signature of msg,
// by finishing each chain from where the signature left off. A valid
// signature recovers exactly the signer's real public key; a forged
// one (almost certainly) does not.
func wotsPkFromSig(hf HashFunc, p *WOTSParams, sig, msg, pubSeed []byte, addr ADRS) []byte {
	lengths := wotsChainLengths(p, msg)
	pk := make([]byte, p.Len*p.N)
	for i := uint32(0); i < p.Len; i++ {
		addr.SetChainAddress(i)
		chainTop := wotsChain(hf, p.N, sig[i*p.N:(i+1)*p.N],
			uint16(lengths[i]), p.W-1-uint16(lengths[i]), p.W, pubSeed, addr)
		copy(pk[i*p.N:(i+1)*p.N], chainTop)
	}
	return pk
}

// WotsSign is the exported, ADRS-length-checked entry point described
// in the external interface: it writes a fresh p.Len*p.N-byte
// signature into sig (which must already have that length) and fails
// without touching sig if adrsWords is not exactly 8 words.
func WotsSign(hf HashFunc, sig, msg, otsSeed, pubSeed []byte, p *WOTSParams, adrsWords []uint32) error {
	addr, err := NewADRSFromWords(adrsWords)
	if err != nil {
		return err
	}
	if uint32(len(sig)) != p.Len*p.N {
		return errorf(ParameterError, "sig must be %d bytes, got %d", p.Len*p.N, len(sig))
	}
	copy(sig, wotsSign(hf, p, msg, otsSeed, pubSeed, addr))
	return nil
}
