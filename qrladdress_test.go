package xmss

import (
	"encoding/hex"
	"testing"
)

func TestGetXMSSAddressFromPKRejectsUnsupportedFormat(t *testing.T) {
	ePK := make([]byte, extendedPKSize)
	d := QRLDescriptor{HashFunction: 0, SignatureType: 0, Height: 10, AddrFormatType: 9}
	packed := d.Pack()
	copy(ePK[:descriptorSize], packed[:])

	_, err := GetXMSSAddressFromPK(ePK)
	if err == nil {
		t.Fatal("expected error for unsupported address format")
	}
	if !containsSubstr(err.Error(), "Address format type not supported") {
		t.Fatalf("error = %q, want the boundary-test string", err.Error())
	}
}

func TestGetXMSSAddressFromPKRejectsWrongLength(t *testing.T) {
	if _, err := GetXMSSAddressFromPK(make([]byte, 10)); err == nil {
		t.Fatal("expected error for short extended public key")
	}
}

// TestGetXMSSAddressFromPKVector pins the full derivation for a tree
// built from a 48-byte all-zero seed at height 4, from InitializeTree's
// root and pub_seed through to the final 20-byte address.
func TestGetXMSSAddressFromPKVector(t *testing.T) {
	tree, err := NewXMSSFromSeed(make([]byte, seedSize), 4, SHA2_256, AddrFormatSHA256)
	if err != nil {
		t.Fatal(err)
	}
	addr, err := tree.Address()
	if err != nil {
		t.Fatal(err)
	}
	got := hex.EncodeToString(addr[:])
	want := "0002000f521af7a3ea0326b42aa40c0e75390e5d"
	if got != want {
		t.Errorf("address = %s, want %s", got, want)
	}
}
