// Package cryptox implements one-way hashing of plaintext secrets. The same
// facility covers user passwords and opaque refresh tokens: both are stored
// only as salted argon2id digests in the PHC string format.
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	algorithmID = "argon2id"

	timeCost    uint32 = 1
	memoryKB    uint32 = 64 * 1024
	parallelism uint8  = 4
	saltLength         = 16
	keyLength   uint32 = 32
)

// HashPassword derives a salted argon2id digest of plaintext and returns it
// as a self-contained PHC string. A fresh random salt is drawn per call, so
// two hashes of the same plaintext never match byte-for-byte.
func HashPassword(plaintext string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(plaintext), salt, timeCost, memoryKB, parallelism, keyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		memoryKB, timeCost, parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword reports whether plaintext reproduces the given PHC-encoded
// hash. Malformed or foreign input yields false, never an error; the actual
// digest comparison is constant time.
func VerifyPassword(encoded string, plaintext string) bool {
	params, salt, hash, err := decodePHC(encoded)
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(plaintext), salt,
		params.time, params.memory, params.parallelism, uint32(len(hash)))

	return subtle.ConstantTimeCompare(computed, hash) == 1
}

type phcParams struct {
	memory      uint32
	time        uint32
	parallelism uint8
}

func decodePHC(encoded string) (*phcParams, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, nil, nil, errors.New("invalid PHC format")
	}
	if parts[1] != algorithmID {
		return nil, nil, nil, errors.New("unsupported algorithm")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, nil, errors.New("invalid argon2 version")
	}
	if version != argon2.Version {
		return nil, nil, nil, errors.New("unsupported argon2 version")
	}

	params := &phcParams{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d",
		&params.memory, &params.time, &params.parallelism); err != nil {
		return nil, nil, nil, errors.New("invalid parameter format")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, errors.New("invalid salt encoding")
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, nil, errors.New("invalid hash encoding")
	}
	if len(hash) == 0 {
		return nil, nil, nil, errors.New("empty hash")
	}

	return params, salt, hash, nil
}
