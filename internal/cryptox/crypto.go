// Package cryptox holds the password digest functions used by the
// authentication gate.
//
// Two schemes are supported:
//   - sha256: unsalted SHA-256, lowercase hex (64 chars). Identical passwords
//     produce identical digests across accounts.
//   - argon2id: salted argon2id encoded in PHC string form
//     ($argon2id$v=19$m=...,t=...,p=...$salt$key).
//
// Verification looks at the stored digest, not at the configured scheme, so
// accounts created under one scheme keep working after switching to the other.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	SchemeSHA256   = "sha256"
	SchemeArgon2id = "argon2id"
)

const argon2Prefix = "$argon2id$"

// Limits for parameters read back from a stored digest. Anything outside
// them is treated as a corrupt row rather than fed to the KDF.
const (
	maxArgon2Time   = 64
	maxArgon2Memory = 1 << 20 // KiB, 1 GiB
	minArgon2KeyLen = 4
	maxArgon2KeyLen = 1024
	maxArgon2Salt   = 1024
)

var (
	ErrUnknownScheme  = errors.New("unknown password hash scheme")
	ErrMalformedHash  = errors.New("malformed password hash")
	ErrUnsupportedAlg = errors.New("unsupported password hash algorithm")
)

// PasswordHasher turns passwords into storable digests and checks them.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify returns (true, nil) on match, (false, nil) on mismatch and an
	// error only when digest cannot be parsed.
	Verify(password, digest string) (bool, error)
}

// SHA256Hex returns the lowercase hex SHA-256 digest of input's UTF-8 bytes.
func SHA256Hex(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// NewPasswordHasher returns the hasher for scheme.
func NewPasswordHasher(scheme string) (PasswordHasher, error) {
	switch strings.ToLower(scheme) {
	case "", SchemeSHA256:
		return SHA256Hasher{}, nil
	case SchemeArgon2id:
		return NewArgon2idHasher(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

// VerifyDigest checks password against a digest produced by either scheme.
func VerifyDigest(password, digest string) (bool, error) {
	if strings.HasPrefix(digest, "$") {
		return verifyArgon2id(password, digest)
	}
	candidate := SHA256Hex(password)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(digest)) == 1, nil
}

// SHA256Hasher is the reference, unsalted scheme.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password string) (string, error) {
	return SHA256Hex(password), nil
}

func (SHA256Hasher) Verify(password, digest string) (bool, error) {
	return VerifyDigest(password, digest)
}

// Argon2idHasher hashes with a fresh random salt per call.
type Argon2idHasher struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{
		Time:    1,
		Memory:  64 * 1024,
		Threads: 4,
		SaltLen: 16,
		KeyLen:  32,
	}
}

func (h *Argon2idHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.Time, h.Memory, h.Threads, h.KeyLen)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix,
		argon2.Version,
		h.Memory,
		h.Time,
		h.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *Argon2idHasher) Verify(password, digest string) (bool, error) {
	return VerifyDigest(password, digest)
}

func verifyArgon2id(password, digest string) (bool, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 {
		return false, ErrMalformedHash
	}
	if parts[1] != SchemeArgon2id {
		return false, fmt.Errorf("%w: %s", ErrUnsupportedAlg, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("%w: version: %v", ErrMalformedHash, err)
	}
	if version != argon2.Version {
		return false, fmt.Errorf("%w: version %d", ErrUnsupportedAlg, version)
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, fmt.Errorf("%w: params: %v", ErrMalformedHash, err)
	}
	if threads == 0 || threads > 255 {
		return false, fmt.Errorf("%w: threads %d", ErrMalformedHash, threads)
	}
	if time == 0 || time > maxArgon2Time {
		return false, fmt.Errorf("%w: time %d", ErrMalformedHash, time)
	}
	if memory < 8*threads || memory > maxArgon2Memory {
		return false, fmt.Errorf("%w: memory %d", ErrMalformedHash, memory)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("%w: key: %v", ErrMalformedHash, err)
	}
	if len(salt) == 0 || len(salt) > maxArgon2Salt {
		return false, fmt.Errorf("%w: salt length %d", ErrMalformedHash, len(salt))
	}
	if len(want) < minArgon2KeyLen || len(want) > maxArgon2KeyLen {
		return false, fmt.Errorf("%w: key length %d", ErrMalformedHash, len(want))
	}

	got := argon2.IDKey([]byte(password), salt, time, memory, uint8(threads), uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
