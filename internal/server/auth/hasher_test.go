package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestHasher() *BcryptHasher {
	return NewBcryptHasher(bcrypt.MinCost)
}

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := newTestHasher()

	hash, err := h.Hash("hunter22")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(hash, HashMarker) {
		t.Fatalf("hash %q lacks marker", hash)
	}
	if hash == "hunter22" {
		t.Fatalf("hash equals plaintext")
	}
	if !h.IsHashed(hash) {
		t.Fatalf("IsHashed(hash) = false")
	}
	if !h.Verify("hunter22", hash) {
		t.Fatalf("Verify(correct) = false")
	}
	if h.Verify("hunter23", hash) {
		t.Fatalf("Verify(wrong) = true")
	}
}

func TestBcryptHasher_SaltsEveryHash(t *testing.T) {
	h := newTestHasher()
	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatalf("two hashes of the same input are equal: %q", a)
	}
}

func TestBcryptHasher_EmptyPassword(t *testing.T) {
	h := newTestHasher()
	if _, err := h.Hash(""); err != ErrEmptyPassword {
		t.Fatalf("Hash(\"\") err = %v, want ErrEmptyPassword", err)
	}
	hash, _ := h.Hash("x")
	if h.Verify("", hash) {
		t.Fatalf("Verify(\"\") = true")
	}
}

func TestBcryptHasher_VerifyMalformed(t *testing.T) {
	h := newTestHasher()
	for _, stored := range []string{"", "plaintext", "$2", "$2a$", "$2b$04$short", "$argon2id$v=19$m=65536"} {
		if h.Verify("plaintext", stored) {
			t.Fatalf("Verify against %q = true", stored)
		}
	}
}

func TestBcryptHasher_IsHashed(t *testing.T) {
	h := newTestHasher()
	tests := map[string]bool{
		"$2a$12$abcdefghijklmnopqrstuv": true,
		"$2b$10$x":                      true,
		"$2y$10$x":                      true,
		"secret":                        false,
		"":                              false,
		" $2a$":                         false,
	}
	for in, want := range tests {
		if got := h.IsHashed(in); got != want {
			t.Fatalf("IsHashed(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestBcryptHasher_LongPasswordTruncated(t *testing.T) {
	h := newTestHasher()
	long := strings.Repeat("a", 100)

	hash, err := h.Hash(long)
	if err != nil {
		t.Fatalf("Hash(long) error: %v", err)
	}
	if !h.Verify(long, hash) {
		t.Fatalf("Verify(long) = false")
	}
	if !h.Verify(strings.Repeat("a", 72), hash) {
		t.Fatalf("first 72 bytes should verify")
	}
}

func TestBcryptHasher_CostRecorded(t *testing.T) {
	h := NewBcryptHasher(5)
	hash, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if got := Cost(hash); got != 5 {
		t.Fatalf("Cost = %d, want 5", got)
	}
	if got := Cost("plain"); got != 0 {
		t.Fatalf("Cost(plain) = %d, want 0", got)
	}
	if NewBcryptHasher(1).cost != bcrypt.MinCost {
		t.Fatalf("cost below minimum not clamped")
	}
}
