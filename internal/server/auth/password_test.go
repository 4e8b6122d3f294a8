package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=1,p=4$") {
		t.Fatalf("unexpected PHC prefix: %s", hash)
	}

	ok, err := VerifyPassword("correct horse", hash)
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}

	ok, err = VerifyPassword("wrong horse", hash)
	if err != nil || ok {
		t.Fatalf("expected mismatch, got ok=%v err=%v", ok, err)
	}
}

func TestHashPassword_SaltDiffers(t *testing.T) {
	t.Parallel()

	a, _ := HashPassword("same")
	b, _ := HashPassword("same")
	if a == b {
		t.Fatalf("hashes of the same password must differ")
	}
}

func TestVerifyPassword_InvalidHash(t *testing.T) {
	t.Parallel()

	for name, encoded := range map[string]string{
		"empty":         "",
		"bcrypt":        "$2a$10$abcdefghijklmnopqrstuv",
		"wrong algo":    "$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"bad version":   "$argon2id$v=x$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"old version":   "$argon2id$v=16$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"bad params":    "$argon2id$v=19$m=a,t=1,p=4$c2FsdA$aGFzaA",
		"bad salt":      "$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA",
		"bad hash":      "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$!!!",
		"empty hash":    "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$",
		"leading chars": "x$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
	} {
		t.Run(name, func(t *testing.T) {
			ok, err := VerifyPassword("pw", encoded)
			if ok || !errors.Is(err, ErrInvalidHash) {
				t.Fatalf("expected ErrInvalidHash, got ok=%v err=%v", ok, err)
			}
		})
	}
}
