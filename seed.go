package xmss

// Seed ingest: the caller-facing secret is always a fixed-size 48-byte
// seed (or a 51-byte extended seed with a 3-byte descriptor prefix).
// From the 48 seed bytes this package derives all the randomness an
// XMSS tree needs, SK_SEED, SK_PRF and PUB_SEED, by stretching the
// seed through SHAKE-256 once rather than hashing each value
// separately.

const seedSize = 48
const extendedSeedSize = descriptorSize + seedSize

// expandSeed stretches a 48-byte seed into 3*n bytes of randomness via
// SHAKE-256 and splits it into SK_SEED, SK_PRF and PUB_SEED, each n
// bytes. The test vectors fixing this derivation hash the seed alone,
// with no domain-separating suffix appended.
func expandSeed(n uint32, seed []byte) (skSeed, skPrf, pubSeed []byte, err error) {
	if len(seed) != seedSize {
		return nil, nil, nil, errorf(ParameterError, "seed must be %d bytes, got %d", seedSize, len(seed))
	}
	rand := coreHash(SHAKE_256, 3*n, seed)
	skSeed = rand[0:n]
	skPrf = rand[n : 2*n]
	pubSeed = rand[2*n : 3*n]
	return skSeed, skPrf, pubSeed, nil
}
