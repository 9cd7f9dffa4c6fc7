package crypto

import (
	"crypto/subtle"
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt accepts, in bytes.
const MaxPasswordBytes = 72

// ErrMismatch is returned when a password does not match the stored value.
var ErrMismatch = errors.New("password mismatch")

var dummyHash = sync.OnceValue(func() []byte {
	hashed, err := bcrypt.GenerateFromPassword([]byte("edutrack-dummy-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return hashed
})

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares password against a stored credential. Rows written
// before hashing was introduced hold the password verbatim; those are
// compared in constant time.
func CheckPassword(stored, password string) error {
	if isBcryptHash(stored) {
		if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)); err != nil {
			return ErrMismatch
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) != 1 {
		return ErrMismatch
	}
	return nil
}

// CheckMissing runs a bcrypt comparison against a fixed hash so lookups of
// unknown accounts take as long as a real password check. It always
// returns ErrMismatch.
func CheckMissing(password string) error {
	_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
	return ErrMismatch
}

func isBcryptHash(value string) bool {
	if len(value) != 60 {
		return false
	}
	return strings.HasPrefix(value, "$2a$") || strings.HasPrefix(value, "$2b$") || strings.HasPrefix(value, "$2y$")
}
