package xmss

import "crypto/sha256"

const extendedPKSize = descriptorSize + 32 + 32 // n=32: desc(3) || root(32) || pub_seed(32)
const addressSize = 20

// GetXMSSAddressFromPK derives the 20-byte QRL address from an
// extended public key (desc(3) ‖ root(n) ‖ pub_seed(n)). Only the
// SHA256 address format is implemented: descriptors naming any other
// AddrFormatType are rejected rather than guessed at.
//
// The first two address bytes are carried over from the extended
// public key's own descriptor bytes (so an address self-identifies
// its hash family and signature type the same way the key does), the
// third byte is always zero, and the remaining 17 bytes are the tail
// of SHA-256(ePK).
func GetXMSSAddressFromPK(ePK []byte) ([addressSize]byte, error) {
	var addr [addressSize]byte
	if len(ePK) != extendedPKSize {
		return addr, errorf(ParameterError,
			"extended public key must be %d bytes, got %d", extendedPKSize, len(ePK))
	}

	desc, err := UnpackDescriptor(ePK[:descriptorSize])
	if err != nil {
		return addr, err
	}
	if AddrFormatType(desc.AddrFormatType) != AddrFormatSHA256 {
		return addr, errorf(UnsupportedFormat, "Address format type not supported")
	}

	digest := sha256.Sum256(ePK)
	addr[0] = ePK[0]
	addr[1] = ePK[1]
	addr[2] = 0
	copy(addr[3:], digest[len(digest)-17:])
	return addr, nil
}
