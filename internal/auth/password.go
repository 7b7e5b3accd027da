package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes an account password at the configured bcrypt cost.
// Signup and password reset both store hashes produced here; plaintext never
// reaches the credential store.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a login attempt against the stored hash.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
