package security

import (
	"strings"
	"testing"
)

// Fast parameters so the test suite stays quick.
var testParams = Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestHashAndCompare(t *testing.T) {
	h := NewArgon2HasherWithParams(testParams)

	hash, err := h.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !strings.HasPrefix(string(hash), "$argon2id$v=19$") {
		t.Errorf("unexpected hash encoding: %s", hash)
	}

	ok, err := h.Compare("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	if !ok {
		t.Error("correct password did not verify")
	}

	ok, err = h.Compare("wrong password", hash)
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	if ok {
		t.Error("wrong password verified")
	}
}

func TestHash_UniqueSalts(t *testing.T) {
	h := NewArgon2HasherWithParams(testParams)

	first, err := h.Hash("secret")
	if err != nil {
		t.Fatal(err)
	}
	second, err := h.Hash("secret")
	if err != nil {
		t.Fatal(err)
	}

	if string(first) == string(second) {
		t.Error("two hashes of the same password should differ by salt")
	}
}

func TestCompare_MalformedHash(t *testing.T) {
	h := NewArgon2Hasher()

	cases := []string{
		"not a hash",
		"$argon2i$v=19$t=1,m=8192,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$t=1,m=8192,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$t=1,m=8192,p=1$c2FsdA",
		"$argon2id$v=19$t=1,m=8192,p=1$c2FsdA$aGFzaA$extra",
	}
	for _, encoded := range cases {
		if _, err := h.Compare("secret", []byte(encoded)); err == nil {
			t.Errorf("malformed hash %q should error, not report mismatch", encoded)
		}
	}
}

// Compare must read the cost parameters out of the encoding rather than
// from the verifying hasher, so hashes survive parameter upgrades.
func TestCompare_ParamsFromEncoding(t *testing.T) {
	old := NewArgon2HasherWithParams(testParams)
	hash, err := old.Hash("secret")
	if err != nil {
		t.Fatal(err)
	}

	upgraded := NewArgon2HasherWithParams(Argon2Params{Time: 2, Memory: 16 * 1024, Threads: 2, KeyLen: 32, SaltLen: 16})
	ok, err := upgraded.Compare("secret", hash)
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	if !ok {
		t.Error("hash produced under older parameters did not verify")
	}
}
