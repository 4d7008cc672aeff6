package entity

// User is the aggregate root for the user domain.
// Password holds a bcrypt hash, never the plaintext.
// UUID is the identifier tokens and per-user stores are keyed by;
// assigned once at registration, never mutated.
type User struct {
	UUID          string
	Email         string
	Password      string
	DisplayName   string
	EmailVerified bool
}
