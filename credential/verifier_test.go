package credential

import "testing"

func TestVerifierExactMatch(t *testing.T) {
	v := NewVerifier(Credential{1, 2, 3, 4})

	if !v.Check(Credential{1, 2, 3, 4}) {
		t.Error("Expected matching credential to be accepted")
	}
	if v.Check(Credential{1, 2, 9, 4}) {
		t.Error("Expected [1 2 9 4] to be rejected")
	}
}

func TestVerifierAnySinglePositionMismatch(t *testing.T) {
	stored := Credential{1, 2, 3, 4}
	v := NewVerifier(stored)

	for pos := 0; pos < Length; pos++ {
		for delta := 1; delta < 256; delta++ {
			candidate := stored
			candidate[pos] = Symbol(int(stored[pos]) + delta)
			if v.Check(candidate) {
				t.Fatalf("Expected mismatch at position %d (%v) to be rejected", pos, candidate)
			}
		}
	}
}

func TestVerifierNoNormalization(t *testing.T) {
	v := NewVerifier(Credential{1, 2, 3, 4})

	// ASCII digits are different symbols from digit values
	if v.Check(Credential{'1', '2', '3', '4'}) {
		t.Error("Expected ASCII digits not to match digit values")
	}
	if v.Check(Credential{}) {
		t.Error("Expected empty candidate to be rejected")
	}
}

func TestParseDigits(t *testing.T) {
	c, err := ParseDigits("1234")
	if err != nil {
		t.Fatalf("ParseDigits failed: %v", err)
	}
	if c != (Credential{1, 2, 3, 4}) {
		t.Errorf("Expected [1 2 3 4], got %v", c)
	}

	for _, bad := range []string{"123", "12345", "12a4", ""} {
		if _, err := ParseDigits(bad); err != ErrInvalidCredential {
			t.Errorf("ParseDigits(%q): expected ErrInvalidCredential, got %v", bad, err)
		}
	}
}

func TestFromInts(t *testing.T) {
	if _, err := FromInts([]int{1, 2, 3}); err != ErrInvalidCredential {
		t.Errorf("Expected ErrInvalidCredential for short input, got %v", err)
	}
	if _, err := FromInts([]int{1, 2, 3, 256}); err != ErrInvalidCredential {
		t.Errorf("Expected ErrInvalidCredential for out of range value, got %v", err)
	}
	c, err := FromInts([]int{9, 0, 10, 11})
	if err != nil {
		t.Fatalf("FromInts failed: %v", err)
	}
	if c.String() != "90*#" {
		t.Errorf("Expected '90*#', got '%s'", c.String())
	}
}
