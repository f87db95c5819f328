package auth

import "testing"

func TestHashPassword(t *testing.T) {
	// Known SHA-256 vector.
	got := HashPassword("password123")
	want := "ef92b778bafe771e89245b89ecbc08a44a4e166c06659911881f383d4473e94f"
	if got != want {
		t.Errorf("HashPassword() = %q, want %q", got, want)
	}

	if HashPassword("a") == HashPassword("b") {
		t.Error("distinct passwords produced the same digest")
	}
	if len(HashPassword("")) != 64 {
		t.Errorf("digest length = %d, want 64 hex characters", len(HashPassword("")))
	}
}

func TestVerifyPassword(t *testing.T) {
	digest := HashPassword("secret-phrase")

	if !VerifyPassword("secret-phrase", digest) {
		t.Error("VerifyPassword rejected the matching password")
	}
	if VerifyPassword("wrong-phrase", digest) {
		t.Error("VerifyPassword accepted a wrong password")
	}
	if VerifyPassword("secret-phrase", "not-a-digest") {
		t.Error("VerifyPassword accepted a malformed digest")
	}
}
