package password

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func init() {
	cost = bcrypt.MinCost
}

func TestHashThenVerify(t *testing.T) {
	hash, err := Hash("longenough1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "longenough1" {
		t.Fatal("hash must not equal the plain password")
	}

	ok, err := Verify("longenough1", hash)
	if err != nil || !ok {
		t.Fatalf("Verify(correct) = %v, %v", ok, err)
	}

	ok, err = Verify("wrong-password", hash)
	if err != nil || ok {
		t.Fatalf("Verify(wrong) = %v, %v; want false, nil", ok, err)
	}
}

func TestHashIsSalted(t *testing.T) {
	a, _ := Hash("same-password")
	b, _ := Hash("same-password")
	if a == b {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	ok, err := Verify("anything", "not-a-bcrypt-hash")
	if ok {
		t.Fatal("malformed hash must never verify")
	}
	if !errors.Is(err, ErrMalformedHash) {
		t.Fatalf("err = %v, want ErrMalformedHash", err)
	}
}
