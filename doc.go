// Package xmss implements the cryptographic core of an XMSS
// (eXtended Merkle Signature Scheme) signing key tailored to the QRL
// address format: WOTS+ one-time signatures, the Merkle authentication
// tree, BDS traversal, and the 3-byte QRL descriptor that selects hash
// family, signature type, tree height and address format.
//
// The concrete hash primitives (SHA2-256, SHAKE-128, SHAKE-256) are
// consumed through a narrow dispatch function; packaging, CLI wrappers,
// random-byte acquisition and persistence of signing state across
// process restarts are left to callers. NewXMSSFromHeight is the only
// entry point that needs injected randomness; every other constructor
// is a deterministic function of its inputs, and Sign depends only on
// its message and the key's current state.
package xmss
