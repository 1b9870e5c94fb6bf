package xmss

// QRL 3-byte extended descriptor: hash family, signature type, tree
// height and address format, packed so that a single additional byte
// of seed carries enough metadata to reconstruct an XMSSTree from
// nothing but a seed.

const descriptorSize = 3

// AddrFormatType selects how GetXMSSAddressFromPK turns an extended
// public key into a 20-byte address. Only SHA256 is implemented and it
// is the only value named here; the 4-bit field has room for others.
type AddrFormatType uint8

const (
	AddrFormatSHA256 AddrFormatType = 0
)

// SignatureType distinguishes XMSS single-tree signatures from other
// QRL-recognised signature schemes sharing the same descriptor byte
// layout. Values observed in the wild exceed any closed enumeration
// this package could validate against, so Unpack preserves whatever
// nibble it finds rather than rejecting unfamiliar ones.
type SignatureType uint8

const (
	SignatureTypeXMSS SignatureType = 0
)

// QRLDescriptor is the decoded form of the 3-byte header. HashFunction
// and SignatureType are stored as their raw nibble values: callers
// that need the named constants above can compare against them, but
// this package never rejects a value outside {SHA2_256, SHAKE_128,
// SHAKE_256} or {XMSS} on decode.
type QRLDescriptor struct {
	HashFunction   uint8
	SignatureType  uint8
	Height         uint8
	AddrFormatType uint8
}

// Pack encodes d into the 3-byte wire form.
func (d QRLDescriptor) Pack() [descriptorSize]byte {
	var out [descriptorSize]byte
	out[0] = (d.SignatureType << 4) | (d.HashFunction & 0xF)
	out[1] = (d.AddrFormatType << 4) | ((d.Height >> 1) & 0xF)
	out[2] = d.Height & 1
	return out
}

// UnpackDescriptor decodes the 3-byte wire form. It performs no
// validation of the decoded nibbles: a descriptor naming an unknown
// hash family or signature type round-trips unchanged, since this
// package's job is framing, not policing which values are meaningful.
func UnpackDescriptor(b []byte) (QRLDescriptor, error) {
	if len(b) != descriptorSize {
		return QRLDescriptor{}, errorf(ParameterError,
			"descriptor must be %d bytes, got %d", descriptorSize, len(b))
	}
	height := ((b[1] & 0xF) << 1) | (b[2] & 1)
	return QRLDescriptor{
		HashFunction:   b[0] & 0xF,
		SignatureType:  b[0] >> 4,
		Height:         height,
		AddrFormatType: b[1] >> 4,
	}, nil
}

// PackExtendedSeed prepends d's packed descriptor to a 48-byte seed,
// producing the 51-byte extended seed NewXMSSFromExtendedSeed reads.
func PackExtendedSeed(d QRLDescriptor, seed []byte) ([]byte, error) {
	if len(seed) != seedSize {
		return nil, errorf(ParameterError, "seed must be %d bytes, got %d", seedSize, len(seed))
	}
	packed := d.Pack()
	out := make([]byte, extendedSeedSize)
	copy(out[:descriptorSize], packed[:])
	copy(out[descriptorSize:], seed)
	return out, nil
}

// UnpackExtendedSeed splits a 51-byte extended seed into its
// descriptor and 48-byte seed.
func UnpackExtendedSeed(extendedSeed []byte) (QRLDescriptor, []byte, error) {
	if len(extendedSeed) != extendedSeedSize {
		return QRLDescriptor{}, nil, errorf(ParameterError,
			"extended seed must be %d bytes, got %d", extendedSeedSize, len(extendedSeed))
	}
	d, err := UnpackDescriptor(extendedSeed[:descriptorSize])
	if err != nil {
		return QRLDescriptor{}, nil, err
	}
	return d, extendedSeed[descriptorSize:], nil
}
