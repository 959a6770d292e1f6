package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	timeCost    = uint32(1)
	memoryCost  = uint32(64 * 1024)
	parallelism = uint8(1)
	hashLength  = uint32(32)
)

// HashPassword derives a salted argon2id digest, stored as "salt:hash".
func HashPassword(password string) (string, error) {
	salt, err := GenerateSalt(16)
	if err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), []byte(salt), timeCost, memoryCost, parallelism, hashLength)

	encodedHash := base64.StdEncoding.EncodeToString(hash)

	return fmt.Sprintf("%s:%s", salt, encodedHash), nil
}

// VerifyPassword re-derives the digest from password and the stored salt and
// compares in constant time. Returns false on any malformed stored hash.
func VerifyPassword(storedHash, password string) bool {
	parts := strings.Split(storedHash, ":")
	if len(parts) != 2 {
		return false
	}

	salt := parts[0]
	stored := parts[1]

	hash := argon2.IDKey([]byte(password), []byte(salt), timeCost, memoryCost, parallelism, hashLength)
	hashStr := base64.StdEncoding.EncodeToString(hash)

	return subtle.ConstantTimeCompare([]byte(stored), []byte(hashStr)) == 1
}

func GenerateSalt(length int) (string, error) {
	salt := make([]byte, length)
	_, err := rand.Read(salt)
	if err != nil {
		return "", fmt.Errorf("failed to generate salt: %v", err)
	}
	return base64.StdEncoding.EncodeToString(salt), nil
}
