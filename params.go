package xmss

import "math/bits"

// WOTSParams is the per-instance WOTS+ geometry: how many base-w
// digits a message digest decomposes into (Len1), how many more are
// needed to carry its checksum (Len2), and the resulting total chain
// count and key size.
type WOTSParams struct {
	N     uint32 // security parameter / hash output length in bytes
	W     uint16 // Winternitz parameter, one of {4, 16, 256}
	LogW  uint8  // log2(W)
	Len1  uint32 // number of chains carrying the message digest
	Len2  uint32 // number of chains carrying the checksum
	Len   uint32 // Len1 + Len2
	KeySize uint32 // Len * N
}

func log2W(w uint16) (uint8, error) {
	switch w {
	case 4:
		return 2, nil
	case 16:
		return 4, nil
	case 256:
		return 8, nil
	default:
		return 0, errorf(ParameterError, "w must be one of 4, 16, 256, got %d", w)
	}
}

// NewWOTSParams derives the full WOTS+ geometry for security parameter
// n and Winternitz parameter w. It is idempotent: calling it twice
// with the same (n, w) yields value-equal WOTSParams.
func NewWOTSParams(n uint32, w uint16) (*WOTSParams, error) {
	logW, err := log2W(w)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, errorf(ParameterError, "n must be positive")
	}

	len1 := ceilDiv(8*n, uint32(logW))
	// len2 = floor(log2(len1*(w-1))/log_w) + 1
	maxChecksum := len1 * uint32(w-1)
	len2 := uint32(bits.Len32(maxChecksum)-1)/uint32(logW) + 1

	p := &WOTSParams{
		N:       n,
		W:       w,
		LogW:    logW,
		Len1:    len1,
		Len2:    len2,
		Len:     len1 + len2,
		KeySize: (len1 + len2) * n,
	}
	return p, nil
}

func ceilDiv(a, b uint32) uint32 {
	return (a + b - 1) / b
}

// XMSSParams bundles the WOTS+ geometry with the tree height and the
// BDS parameter k.
type XMSSParams struct {
	Wots *WOTSParams
	N    uint32
	H    uint32 // full tree height
	K    uint32 // BDS parameter
}

// NewXMSSParams validates and builds the parameters for a single XMSS
// tree of height h, built from WOTS+ with Winternitz parameter w and
// BDS parameter k. k must be even (or zero), h-k must be even, and k
// must be strictly less than h.
func NewXMSSParams(n, h uint32, w uint16, k uint32) (*XMSSParams, error) {
	wp, err := NewWOTSParams(n, w)
	if err != nil {
		return nil, err
	}

	if err := validateAll(
		func() error {
			if k != 0 && k%2 != 0 {
				return errorf(ParameterError, "k must be 0 or even, got %d", k)
			}
			return nil
		},
		func() error {
			if (h-k)%2 != 0 {
				return errorf(ParameterError,
					"h-k must be even, got h=%d k=%d", h, k)
			}
			return nil
		},
		func() error {
			if k >= h {
				return errorf(ParameterError, "k must be < h, got k=%d h=%d", k, h)
			}
			return nil
		},
		func() error {
			if h == 0 || h > 31 {
				return errorf(ParameterError, "h must be in 1..31, got %d", h)
			}
			return nil
		},
	); err != nil {
		return nil, err
	}

	return &XMSSParams{Wots: wp, N: n, H: h, K: k}, nil
}

// calcBaseW decomposes input into outLen base-w digits, MSB-first,
// writing them into out[:outLen]. It is pure: input is never mutated
// and bytes of out beyond outLen are left as the caller set them.
func calcBaseW(out []uint8, outLen int, input []byte, p *WOTSParams) {
	in := 0
	var total byte
	var bits uint8

	for consumed := 0; consumed < outLen; consumed++ {
		if bits == 0 {
			total = input[in]
			in++
			bits = 8
		}
		bits -= p.LogW
		out[consumed] = uint8((total >> bits)) & uint8(p.W-1)
	}
}

// calculateSignatureBaseSize returns the size, in bytes, of everything
// in a signature except the authentication path: the 4-byte index,
// the randomiser r (counted as 32 bytes, the n of every tree this
// package builds) and the WOTS+ signature itself.
func calculateSignatureBaseSize(keySize uint32) uint32 {
	return keySize + 4 + 32
}

// getSignatureSize returns the full encoded size of an XMSS signature
// for the given parameters: base size plus one n-byte node per level
// of the authentication path.
func getSignatureSize(p *XMSSParams) uint32 {
	return calculateSignatureBaseSize(p.Wots.KeySize) + p.H*p.N
}
