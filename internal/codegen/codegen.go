// Package codegen produces the random codes used as short URLs and admin keys.
package codegen

import (
	"errors"
	"fmt"
	"unicode/utf8"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// DefaultAlphabet is the case-sensitive alphanumeric set codes are drawn from.
const DefaultAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const (
	DefaultShortCodeLength = 6
	DefaultAdminKeyLength  = 16
)

var (
	// ErrInvalidAlphabet is returned for an empty alphabet, an alphabet longer than 255 characters
	// or one with repeated characters.
	ErrInvalidAlphabet = errors.New("invalid alphabet")
	// ErrInvalidLength is returned for a non-positive code length.
	ErrInvalidLength = errors.New("invalid code length")
)

// Generator draws fixed-length codes uniformly from an alphabet. It makes no
// uniqueness guarantee; callers handle collisions.
type Generator struct {
	alphabet        string
	shortCodeLength int
	adminKeyLength  int
}

// New creates a Generator, validating the alphabet and both lengths.
func New(alphabet string, shortCodeLength, adminKeyLength int) (*Generator, error) {
	const op = "codegen.New"

	if err := validateAlphabet(alphabet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if shortCodeLength <= 0 || adminKeyLength <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidLength)
	}

	return &Generator{
		alphabet:        alphabet,
		shortCodeLength: shortCodeLength,
		adminKeyLength:  adminKeyLength,
	}, nil
}

func validateAlphabet(alphabet string) error {
	n := utf8.RuneCountInString(alphabet)
	if n == 0 || n > 255 {
		return ErrInvalidAlphabet
	}

	seen := make(map[rune]struct{}, n)
	for _, r := range alphabet {
		if _, ok := seen[r]; ok {
			return ErrInvalidAlphabet
		}
		seen[r] = struct{}{}
	}

	return nil
}

// Generate returns a code of the given length.
func (g *Generator) Generate(length int) (string, error) {
	const op = "codegen.Generator.Generate"

	if length <= 0 {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidLength)
	}

	code, err := gonanoid.Generate(g.alphabet, length)
	if err != nil {
		return "", fmt.Errorf("%s: failed to generate code: %w", op, err)
	}

	return code, nil
}

// ShortCode returns a candidate short URL of the configured length.
func (g *Generator) ShortCode() (string, error) {
	return g.Generate(g.shortCodeLength)
}

// AdminKey returns a new admin key of the configured length.
func (g *Generator) AdminKey() (string, error) {
	return g.Generate(g.adminKeyLength)
}
