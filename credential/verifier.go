package credential

// Verifier is the access decision. It is the only holder of the stored credential.
type Verifier struct {
	stored Credential
}

// NewVerifier creates a verifier for the given stored credential
func NewVerifier(stored Credential) *Verifier {
	return &Verifier{stored: stored}
}

// Check reports whether candidate matches the stored credential exactly.
// Every position is compared; there is no early exit on the first mismatch.
func (v *Verifier) Check(candidate Credential) bool {
	match := true
	for i := 0; i < Length; i++ {
		if candidate[i] != v.stored[i] {
			match = false
		}
	}
	return match
}
