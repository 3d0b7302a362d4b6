package helpers

import "golang.org/x/crypto/bcrypt"

// dummyHash is compared against when the user does not exist, so unknown
// emails cost the same bcrypt work as known ones.
var dummyHash = mustHash("service-app-timing-equalizer")

func mustHash(plain string) []byte {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return b
}

// HashPassword hashes the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// VerifyPassword compares plain against hash. An empty hash (unknown user)
// still runs a full comparison against dummyHash and always reports false.
func VerifyPassword(hash, plain string) bool {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
		return false
	}
	return CompareHashAndPassword(hash, plain)
}
