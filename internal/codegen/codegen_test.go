package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name            string
		alphabet        string
		shortCodeLength int
		adminKeyLength  int
		wantErr         error
	}{
		{
			name:            "empty alphabet",
			alphabet:        "",
			shortCodeLength: 6,
			adminKeyLength:  16,
			wantErr:         ErrInvalidAlphabet,
		},
		{
			name:            "too long alphabet",
			alphabet:        strings.Repeat("a", 256),
			shortCodeLength: 6,
			adminKeyLength:  16,
			wantErr:         ErrInvalidAlphabet,
		},
		{
			name:            "repeated characters",
			alphabet:        "abca",
			shortCodeLength: 6,
			adminKeyLength:  16,
			wantErr:         ErrInvalidAlphabet,
		},
		{
			name:            "zero short code length",
			alphabet:        DefaultAlphabet,
			shortCodeLength: 0,
			adminKeyLength:  16,
			wantErr:         ErrInvalidLength,
		},
		{
			name:            "negative admin key length",
			alphabet:        DefaultAlphabet,
			shortCodeLength: 6,
			adminKeyLength:  -1,
			wantErr:         ErrInvalidLength,
		},
		{
			name:            "success",
			alphabet:        DefaultAlphabet,
			shortCodeLength: DefaultShortCodeLength,
			adminKeyLength:  DefaultAdminKeyLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := New(tt.alphabet, tt.shortCodeLength, tt.adminKeyLength)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, gen)
				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, gen)
		})
	}
}

func TestGenerator_Generate(t *testing.T) {
	gen, err := New("ab", 6, 16)
	require.NoError(t, err)

	t.Run("invalid length", func(t *testing.T) {
		code, err := gen.Generate(0)

		assert.ErrorIs(t, err, ErrInvalidLength)
		assert.Empty(t, code)
	})

	t.Run("success", func(t *testing.T) {
		code, err := gen.Generate(32)

		assert.NoError(t, err)
		assert.Len(t, code, 32)
		assert.Empty(t, strings.Trim(code, "ab"))
	})
}

func TestGenerator_ShortCode(t *testing.T) {
	gen, err := New(DefaultAlphabet, DefaultShortCodeLength, DefaultAdminKeyLength)
	require.NoError(t, err)

	seen := make(map[string]struct{})

	for i := 0; i < 100; i++ {
		code, err := gen.ShortCode()

		require.NoError(t, err)
		assert.Len(t, code, DefaultShortCodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(DefaultAlphabet, r), "unexpected character %q", r)
		}

		seen[code] = struct{}{}
	}

	assert.Greater(t, len(seen), 1)
}

func TestGenerator_AdminKey(t *testing.T) {
	gen, err := New(DefaultAlphabet, DefaultShortCodeLength, DefaultAdminKeyLength)
	require.NoError(t, err)

	key, err := gen.AdminKey()

	assert.NoError(t, err)
	assert.Len(t, key, DefaultAdminKeyLength)
}
