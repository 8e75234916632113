// Package auth provides credential hashing and session token handling.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrHashFormat is returned when a stored credential cannot be decoded.
var ErrHashFormat = errors.New("malformed password hash")

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(encoded, plaintext string) (bool, error)
}

// Minimum Argon2id parameters. Lower values passed to NewArgon2Hasher are raised.
const (
	MinMemoryKiB   uint32 = 19 * 1024
	MinIterations  uint32 = 2
	MinParallelism uint8  = 1
	MinSaltLength  uint32 = 16
	MinKeyLength   uint32 = 32
)

// Maximum Argon2id parameters. Higher values passed to NewArgon2Hasher are
// lowered, and stored hashes above them do not decode.
const (
	MaxMemoryKiB   uint32 = 1024 * 1024
	MaxIterations  uint32 = 64
	MaxParallelism uint8  = 64
)

// Argon2Params holds the configuration for Argon2id hashing.
type Argon2Params struct {
	// Memory is the amount of memory used in KiB.
	Memory uint32

	// Iterations is the number of passes over the memory.
	Iterations uint32

	// Parallelism is the number of threads to use.
	Parallelism uint8

	// SaltLength is the length of the random salt in bytes.
	SaltLength uint32

	// KeyLength is the length of the derived key in bytes.
	KeyLength uint32
}

// DefaultArgon2Params returns the minimum recommended Argon2id parameters.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      MinMemoryKiB,
		Iterations:  MinIterations,
		Parallelism: MinParallelism,
		SaltLength:  MinSaltLength,
		KeyLength:   MinKeyLength,
	}
}

func (p Argon2Params) normalized() Argon2Params {
	p.Memory = min(max(p.Memory, MinMemoryKiB), MaxMemoryKiB)
	p.Iterations = min(max(p.Iterations, MinIterations), MaxIterations)
	p.Parallelism = min(max(p.Parallelism, MinParallelism), MaxParallelism)
	if p.SaltLength < MinSaltLength {
		p.SaltLength = MinSaltLength
	}
	if p.KeyLength < MinKeyLength {
		p.KeyLength = MinKeyLength
	}
	return p
}

// Argon2Hasher implements Hasher using Argon2id and PHC-formatted strings.
type Argon2Hasher struct {
	params Argon2Params
}

// NewArgon2Hasher creates a hasher. Cost parameters are clamped to
// [Min, Max] so every hash it writes can be verified.
func NewArgon2Hasher(params Argon2Params) *Argon2Hasher {
	return &Argon2Hasher{params: params.normalized()}
}

// Params returns the effective parameters used for new hashes.
func (h *Argon2Hasher) Params() Argon2Params {
	return h.params
}

// Hash derives a key from plaintext with a fresh random salt.
// Returns $argon2id$v=19$m=<KiB>,t=<n>,p=<n>$<salt>$<key>
func (h *Argon2Hasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey(
		[]byte(plaintext),
		salt,
		h.params.Iterations,
		h.params.Memory,
		h.params.Parallelism,
		h.params.KeyLength,
	)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Iterations,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify re-derives the key with the parameters embedded in encoded and
// compares in constant time. A mismatch is (false, nil); an undecodable
// string is (false, ErrHashFormat).
func (h *Argon2Hasher) Verify(encoded, plaintext string) (bool, error) {
	params, salt, key, err := decodeArgon2Hash(encoded)
	if err != nil {
		return false, err
	}

	other := argon2.IDKey(
		[]byte(plaintext),
		salt,
		params.Iterations,
		params.Memory,
		params.Parallelism,
		params.KeyLength,
	)

	return subtle.ConstantTimeCompare(key, other) == 1, nil
}

func decodeArgon2Hash(encoded string) (Argon2Params, []byte, []byte, error) {
	var params Argon2Params

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return params, nil, nil, fmt.Errorf("%w: expected 5 sections", ErrHashFormat)
	}
	if parts[1] != "argon2id" {
		return params, nil, nil, fmt.Errorf("%w: unsupported algorithm %q", ErrHashFormat, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return params, nil, nil, fmt.Errorf("%w: version: %v", ErrHashFormat, err)
	}
	if version != argon2.Version {
		return params, nil, nil, fmt.Errorf("%w: incompatible version %d", ErrHashFormat, version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d",
		&params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return params, nil, nil, fmt.Errorf("%w: parameters: %v", ErrHashFormat, err)
	}
	if params.Memory == 0 || params.Memory > MaxMemoryKiB ||
		params.Iterations == 0 || params.Iterations > MaxIterations ||
		params.Parallelism == 0 || params.Parallelism > MaxParallelism {
		return params, nil, nil, fmt.Errorf("%w: parameters out of range", ErrHashFormat)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return params, nil, nil, fmt.Errorf("%w: salt encoding", ErrHashFormat)
	}
	params.SaltLength = uint32(len(salt)) //nolint:gosec // bounded by decode

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return params, nil, nil, fmt.Errorf("%w: key encoding", ErrHashFormat)
	}
	params.KeyLength = uint32(len(key)) //nolint:gosec // bounded by decode

	return params, salt, key, nil
}

var _ Hasher = (*Argon2Hasher)(nil)
