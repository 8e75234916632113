package auth

import (
	"fmt"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgon2Hasher_RoundTrip(t *testing.T) {
	t.Parallel()
	h := NewArgon2Hasher(DefaultArgon2Params())

	encoded, err := h.Hash("pw123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=19456,t=2,p=1$"))

	ok, err := h.Verify(encoded, "pw123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(encoded, "pw124")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgon2Hasher_FreshSaltPerCall(t *testing.T) {
	t.Parallel()
	h := NewArgon2Hasher(DefaultArgon2Params())

	first, err := h.Hash("same password")
	require.NoError(t, err)
	second, err := h.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	for _, encoded := range []string{first, second} {
		ok, err := h.Verify(encoded, "same password")
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestArgon2Hasher_RaisesWeakParams(t *testing.T) {
	t.Parallel()
	h := NewArgon2Hasher(Argon2Params{Memory: 1024, Iterations: 1, SaltLength: 4, KeyLength: 8})

	p := h.Params()
	assert.Equal(t, MinMemoryKiB, p.Memory)
	assert.Equal(t, MinIterations, p.Iterations)
	assert.Equal(t, MinParallelism, p.Parallelism)
	assert.Equal(t, MinSaltLength, p.SaltLength)
	assert.Equal(t, MinKeyLength, p.KeyLength)
}

func TestArgon2Hasher_VerifyUsesEmbeddedParams(t *testing.T) {
	t.Parallel()
	stronger := NewArgon2Hasher(Argon2Params{Memory: 32 * 1024, Iterations: 3, Parallelism: 2})
	encoded, err := stronger.Hash("correct horse")
	require.NoError(t, err)

	ok, err := NewArgon2Hasher(DefaultArgon2Params()).Verify(encoded, "correct horse")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestArgon2Hasher_MalformedHash(t *testing.T) {
	t.Parallel()
	h := NewArgon2Hasher(DefaultArgon2Params())

	valid, err := h.Hash("pw")
	require.NoError(t, err)
	parts := strings.Split(valid, "$")

	tests := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"plaintext", "pw"},
		{"bcrypt", "$2a$10$abcdefghijklmnopqrstuuN0P1A0bcdefghijklmnopqrstuvwxyz"},
		{"wrong algorithm", strings.Replace(valid, "argon2id", "argon2i", 1)},
		{"wrong version", strings.Replace(valid, "v=19", "v=16", 1)},
		{"zero iterations", strings.Replace(valid, "t=2", "t=0", 1)},
		{"huge memory", strings.Replace(valid, "m=19456", "m=99999999", 1)},
		{"bad salt", fmt.Sprintf("$%s$%s$%s$!!!$%s", parts[1], parts[2], parts[3], parts[5])},
		{"bad key", fmt.Sprintf("$%s$%s$%s$%s$***", parts[1], parts[2], parts[3], parts[4])},
		{"missing section", strings.Join(parts[:5], "$")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := h.Verify(tt.encoded, "pw")
			assert.False(t, ok)
			assert.ErrorIs(t, err, ErrHashFormat)
		})
	}
}

func TestArgon2Hasher_ClampsStrongParams(t *testing.T) {
	t.Parallel()
	p := NewArgon2Hasher(Argon2Params{Memory: 4 * 1024 * 1024, Iterations: 1000, Parallelism: 255}).Params()
	assert.Equal(t, MaxMemoryKiB, p.Memory)
	assert.Equal(t, MaxIterations, p.Iterations)
	assert.Equal(t, MaxParallelism, p.Parallelism)
}

func TestArgon2Hasher_RoundTripAboveIterationCap(t *testing.T) {
	t.Parallel()
	h := NewArgon2Hasher(Argon2Params{Iterations: 65})

	encoded, err := h.Hash("pw123")
	require.NoError(t, err)
	assert.Contains(t, encoded, ",t=64,")

	ok, err := h.Verify(encoded, "pw123")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestArgon2Hasher_NoFalsePositives(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping slow hashing property test in short mode")
	}
	t.Parallel()
	h := NewArgon2Hasher(DefaultArgon2Params())
	faker := gofakeit.New(42)

	const poolSize = 10
	const pairs = 1000

	type hashed struct {
		plaintext string
		encoded   string
	}
	pool := make([]hashed, 0, poolSize)
	for len(pool) < poolSize {
		p1 := faker.Password(true, true, true, true, false, faker.Number(1, 32))
		encoded, err := h.Hash(p1)
		require.NoError(t, err)
		pool = append(pool, hashed{plaintext: p1, encoded: encoded})
	}

	for i := 0; i < pairs; i++ {
		entry := pool[i%poolSize]
		p2 := faker.Password(true, true, true, true, false, faker.Number(1, 32))
		if p2 == entry.plaintext {
			continue
		}

		ok, err := h.Verify(entry.encoded, p2)
		require.NoError(t, err)
		require.False(t, ok, "pair %d: %q verified against the hash of %q", i, p2, entry.plaintext)
	}
}
