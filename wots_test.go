package xmss

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

// TestWotsPkGenVector pins wotsPkGen's output, as a SHA-256 digest of
// the whole public key rather than the raw bytes, for a fixed
// ots_seed/pub_seed/addr triple.
func TestWotsPkGenVector(t *testing.T) {
	p, err := NewWOTSParams(32, 16)
	if err != nil {
		t.Fatal(err)
	}
	otsSeed := make([]byte, 32)
	pubSeed := make([]byte, 32)
	for i := range otsSeed {
		otsSeed[i] = byte(i)
		pubSeed[i] = byte(2 * i)
	}
	var addr ADRS
	addr.SetType(AddrTypeOTS)
	addr.SetOTSAddress(7)

	pk := wotsPkGen(SHA2_256, p, otsSeed, pubSeed, addr)
	if uint32(len(pk)) != p.KeySize {
		t.Fatalf("wotsPkGen length = %d, want %d", len(pk), p.KeySize)
	}
	sum := sha256.Sum256(pk)
	got := hex.EncodeToString(sum[:8])
	want := "d4af76a852983725"
	if got != want {
		t.Errorf("sha256(wotsPkGen(...))[:8] = %s, want %s", got, want)
	}
}

// TestWotsSignRoundTrip is the central WOTS+ testable property: the
// public key recovered from a signature of m always equals the public
// key derived directly from the same seed.
func TestWotsSignRoundTrip(t *testing.T) {
	p, err := NewWOTSParams(32, 16)
	if err != nil {
		t.Fatal(err)
	}
	otsSeed := make([]byte, 32)
	pubSeed := make([]byte, 32)
	for i := range otsSeed {
		otsSeed[i] = byte(i + 1)
		pubSeed[i] = byte(3 * i)
	}
	var addr ADRS
	addr.SetType(AddrTypeOTS)
	addr.SetOTSAddress(99)

	msg := sha256.Sum256([]byte("a message to be signed"))

	wantPk := wotsPkGen(SHA2_256, p, otsSeed, pubSeed, addr)
	sig := wotsSign(SHA2_256, p, msg[:], otsSeed, pubSeed, addr)
	if uint32(len(sig)) != p.KeySize {
		t.Fatalf("wotsSign length = %d, want %d", len(sig), p.KeySize)
	}
	gotPk := wotsPkFromSig(SHA2_256, p, sig, msg[:], pubSeed, addr)

	if len(gotPk) != len(wantPk) {
		t.Fatalf("recovered pk length = %d, want %d", len(gotPk), len(wantPk))
	}
	for i := range wantPk {
		if gotPk[i] != wantPk[i] {
			t.Fatalf("recovered pk differs from direct pk at byte %d", i)
			break
		}
	}
}

// TestWotsSignRoundTripRejectsTamperedMessage checks that verifying a
// signature against a different message does not (except with
// negligible probability) recover the same public key.
func TestWotsSignRoundTripRejectsTamperedMessage(t *testing.T) {
	p, err := NewWOTSParams(32, 16)
	if err != nil {
		t.Fatal(err)
	}
	otsSeed := make([]byte, 32)
	pubSeed := make([]byte, 32)
	for i := range otsSeed {
		otsSeed[i] = byte(i + 1)
		pubSeed[i] = byte(3 * i)
	}
	var addr ADRS
	addr.SetType(AddrTypeOTS)
	addr.SetOTSAddress(99)

	msg := sha256.Sum256([]byte("a message to be signed"))
	tampered := sha256.Sum256([]byte("a different message"))

	wantPk := wotsPkGen(SHA2_256, p, otsSeed, pubSeed, addr)
	sig := wotsSign(SHA2_256, p, msg[:], otsSeed, pubSeed, addr)
	gotPk := wotsPkFromSig(SHA2_256, p, sig, tampered[:], pubSeed, addr)

	same := true
	for i := range wantPk {
		if gotPk[i] != wantPk[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("recovered pk for tampered message unexpectedly matched the real pk")
	}
}

func TestWotsSignBoundaryADRSLength(t *testing.T) {
	p, err := NewWOTSParams(32, 16)
	if err != nil {
		t.Fatal(err)
	}
	sig := make([]byte, p.KeySize)
	msg := make([]byte, 32)
	otsSeed := make([]byte, 32)
	pubSeed := make([]byte, 32)

	err = WotsSign(SHA2_256, sig, msg, otsSeed, pubSeed, p, []uint32{1, 2, 3})
	if err == nil {
		t.Fatal("expected error for short ADRS")
	}
	if !containsSubstr(err.Error(), "addr should be an array of size 8") {
		t.Fatalf("error = %q, want the boundary-test string", err.Error())
	}
}

func TestWotsSignBoundarySigLength(t *testing.T) {
	p, err := NewWOTSParams(32, 16)
	if err != nil {
		t.Fatal(err)
	}
	sig := make([]byte, p.KeySize-1)
	msg := make([]byte, 32)
	otsSeed := make([]byte, 32)
	pubSeed := make([]byte, 32)
	words := make([]uint32, 8)

	if err := WotsSign(SHA2_256, sig, msg, otsSeed, pubSeed, p, words); err == nil {
		t.Fatal("expected error for wrong sig length")
	}
}
