package xmss

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

// TestInitializeTreeRootVector pins the root produced for a height-4
// tree grown from a 48-byte all-zero seed: the whole key-generation
// driver (seed ingest, initial BDS build) in one worked example.
func TestInitializeTreeRootVector(t *testing.T) {
	tree, err := NewXMSSFromSeed(make([]byte, seedSize), 4, SHA2_256, AddrFormatSHA256)
	if err != nil {
		t.Fatal(err)
	}
	got := hex.EncodeToString(tree.root)
	want := "eb0372d56b886645e7c036b480be95ed97bc431b4e828befd4162bf432858df8"
	if got != want {
		t.Errorf("root = %s, want %s", got, want)
	}

	ePK := tree.ExtendedPK()
	if len(ePK) != extendedPKSize {
		t.Fatalf("ExtendedPK length = %d, want %d", len(ePK), extendedPKSize)
	}
	sum := sha256.Sum256(ePK)
	gotSum := hex.EncodeToString(sum[:])
	wantSum := "96e5c065cf961565169e795803c1e60f521af7a3ea0326b42aa40c0e75390e5d"
	if gotSum != wantSum {
		t.Errorf("sha256(ExtendedPK()) = %s, want %s", gotSum, wantSum)
	}
}

// TestSignFirstLeafVector pins the first signature produced by a
// height-4 tree grown from a 48-byte all-zero seed, for a fixed
// message, as the sha256 of the full packed signature.
func TestSignFirstLeafVector(t *testing.T) {
	tree, err := NewXMSSFromSeed(make([]byte, seedSize), 4, SHA2_256, AddrFormatSHA256)
	if err != nil {
		t.Fatal(err)
	}
	sig, err := tree.Sign([]byte("hello xmss"))
	if err != nil {
		t.Fatal(err)
	}
	if uint32(len(sig)) != getSignatureSize(tree.params) {
		t.Fatalf("signature length = %d, want %d", len(sig), getSignatureSize(tree.params))
	}
	sum := sha256.Sum256(sig)
	got := hex.EncodeToString(sum[:])
	want := "f7bed01444f952dc43cdb3a9fc00f4424fc588233020d91a19a20f7555842d40"
	if got != want {
		t.Errorf("sha256(sig) = %s, want %s", got, want)
	}

	if tree.Idx() != 1 {
		t.Errorf("Idx() after one Sign = %d, want 1", tree.Idx())
	}
	if tree.bds.NextLeaf() != 1 {
		t.Errorf("bdsState.NextLeaf() after one Sign = %d, want 1", tree.bds.NextLeaf())
	}
}

// TestSignVerifyRoundTripAllLeaves exhausts a small tree (height 4)
// entirely, verifying every signature it produces and checking that
// idx/nextLeaf advance by exactly one each time, then checking that
// the next Sign call fails with KeyExhausted.
func TestSignVerifyRoundTripAllLeaves(t *testing.T) {
	seed := make([]byte, seedSize)
	for i := range seed {
		seed[i] = byte(i + 11)
	}
	tree, err := NewXMSSFromSeed(seed, 4, SHAKE_256, AddrFormatSHA256)
	if err != nil {
		t.Fatal(err)
	}
	ePK := tree.ExtendedPK()
	msg := []byte("sign every leaf of a small tree")

	height := tree.Height()
	total := uint32(1) << height
	for leaf := uint32(0); leaf < total; leaf++ {
		if tree.Idx() != leaf {
			t.Fatalf("before signing leaf %d, Idx() = %d", leaf, tree.Idx())
		}
		sig, err := tree.Sign(msg)
		if err != nil {
			t.Fatalf("Sign at leaf %d: %v", leaf, err)
		}
		if tree.Idx() != leaf+1 {
			t.Fatalf("after signing leaf %d, Idx() = %d, want %d", leaf, tree.Idx(), leaf+1)
		}

		ok, err := VerifySignature(SHAKE_256, tree.params, sig, msg, ePK)
		if err != nil {
			t.Fatalf("VerifySignature at leaf %d: %v", leaf, err)
		}
		if !ok {
			t.Fatalf("VerifySignature at leaf %d returned false", leaf)
		}
	}

	if !tree.bds.Exhausted() {
		t.Fatal("tree should report exhausted after signing every leaf")
	}
	if _, err := tree.Sign(msg); err == nil {
		t.Fatal("expected KeyExhausted after signing every leaf")
	} else if xerr, ok := err.(Error); !ok || xerr.Kind() != KeyExhausted {
		t.Fatalf("expected KeyExhausted, got %v", err)
	}
}

// TestSignVerifyRejectsTamperedMessage confirms that a signature
// valid for one message does not verify against another.
func TestSignVerifyRejectsTamperedMessage(t *testing.T) {
	tree, err := NewXMSSFromSeed(make([]byte, seedSize), 4, SHA2_256, AddrFormatSHA256)
	if err != nil {
		t.Fatal(err)
	}
	ePK := tree.ExtendedPK()
	sig, err := tree.Sign([]byte("the real message"))
	if err != nil {
		t.Fatal(err)
	}
	ok, err := VerifySignature(SHA2_256, tree.params, sig, []byte("a different message"), ePK)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("VerifySignature accepted a tampered message")
	}
}

func TestNewXMSSFromExtendedSeedRoundTrip(t *testing.T) {
	desc := QRLDescriptor{HashFunction: uint8(SHA2_256), SignatureType: 0, Height: 4, AddrFormatType: uint8(AddrFormatSHA256)}
	seed := make([]byte, seedSize)
	extended, err := PackExtendedSeed(desc, seed)
	if err != nil {
		t.Fatal(err)
	}
	tree, err := NewXMSSFromExtendedSeed(extended)
	if err != nil {
		t.Fatal(err)
	}
	direct, err := NewXMSSFromSeed(seed, 4, SHA2_256, AddrFormatSHA256)
	if err != nil {
		t.Fatal(err)
	}
	if hex.EncodeToString(tree.root) != hex.EncodeToString(direct.root) {
		t.Fatal("tree built from extended seed has a different root than one built directly")
	}
}

func TestNewXMSSFromHeightUsesInjectedRandomness(t *testing.T) {
	var drawn []byte
	src := func(buf []byte) error {
		for i := range buf {
			buf[i] = byte(i)
		}
		drawn = append([]byte(nil), buf...)
		return nil
	}
	tree, err := NewXMSSFromHeight(4, SHA2_256, AddrFormatSHA256, src)
	if err != nil {
		t.Fatal(err)
	}
	direct, err := NewXMSSFromSeed(drawn, 4, SHA2_256, AddrFormatSHA256)
	if err != nil {
		t.Fatal(err)
	}
	if hex.EncodeToString(tree.root) != hex.EncodeToString(direct.root) {
		t.Fatal("NewXMSSFromHeight did not derive its tree from the bytes randSource supplied")
	}
}

func TestNewXMSSFromHeightPropagatesRandSourceError(t *testing.T) {
	src := func(buf []byte) error { return errorf(InternalInvariant, "boom") }
	if _, err := NewXMSSFromHeight(4, SHA2_256, AddrFormatSHA256, src); err == nil {
		t.Fatal("expected error propagated from randSource")
	}
}
