package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes with bcrypt; salt and cost travel inside the hash, so
// verification stays backward compatible if the cost changes.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
