package security

import "testing"

func testHasher() Hasher {
	return Hasher{Memory: 64 * 1024, Iterations: 2, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func TestHashVerify(t *testing.T) {
	h := testHasher()
	encoded, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	ok, err := h.Verify("s3cret", encoded)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if !ok {
		t.Fatalf("expected password to verify")
	}

	ok, err = h.Verify("wrong", encoded)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if ok {
		t.Fatalf("expected password to fail")
	}
}

func TestHashesAreSalted(t *testing.T) {
	h := testHasher()
	a, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	b, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct salts to produce distinct hashes")
	}
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	h := testHasher()
	if _, err := h.Verify("s3cret", "not-a-hash"); err == nil {
		t.Fatalf("expected error for malformed hash")
	}
	if _, err := h.Verify("s3cret", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA"); err == nil {
		t.Fatalf("expected error for wrong algorithm")
	}
}
