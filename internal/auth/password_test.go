package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret1", 4)
	if err != nil {
		t.Fatalf("unexpected error hashing password: %v", err)
	}

	if !CheckPassword("secret1", hash) {
		t.Fatal("expected password to verify against its own hash")
	}
	if CheckPassword("secret2", hash) {
		t.Fatal("expected a different password to fail verification")
	}
}

func TestHashPasswordFreshSalt(t *testing.T) {
	h1, err := HashPassword("secret1", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h2, err := HashPassword("secret1", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Each hash embeds a fresh random salt, so two hashes of the same
	// password must differ while both still verifying.
	if h1 == h2 {
		t.Fatal("expected two hashes of the same password to differ")
	}
	if !CheckPassword("secret1", h1) || !CheckPassword("secret1", h2) {
		t.Fatal("expected both hashes to verify")
	}
}

func TestCheckPasswordMalformedHashFailsClosed(t *testing.T) {
	for _, hash := range []string{"", "not-a-bcrypt-hash", "$2a$xx$garbage"} {
		if CheckPassword("secret1", hash) {
			t.Fatalf("expected malformed hash %q to fail verification", hash)
		}
	}
}

func TestHashPasswordDefaultCost(t *testing.T) {
	hash, err := HashPassword("secret1", 0)
	if err != nil {
		t.Fatalf("unexpected error with default cost: %v", err)
	}
	if !CheckPassword("secret1", hash) {
		t.Fatal("expected password hashed at default cost to verify")
	}
}
