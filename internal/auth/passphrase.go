package auth

import "golang.org/x/crypto/bcrypt"

func HashPassphrase(p string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassphrase reports whether p matches hash. An empty hash means the
// room is open.
func CheckPassphrase(hash, p string) bool {
	if hash == "" {
		return true
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(p)) == nil
}
