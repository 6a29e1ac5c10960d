// Package entity defines the shortlink entity and the errors shared by the
// use case, repository and delivery layers.
package entity

import "errors"

var (
	// ErrInvalidInput is returned when a request lacks a full URL or asks for an empty short URL.
	ErrInvalidInput = errors.New("invalid input")
	// ErrShortCodeExists is returned when attempting to save a shortlink whose short URL is already taken.
	ErrShortCodeExists = errors.New("short code exists")
	// ErrShortlinkNotFound is returned when no shortlink matches the requested short URL.
	ErrShortlinkNotFound = errors.New("shortlink not found")
	// ErrUnauthorized is returned when a short URL and admin key pair does not match any shortlink.
	// It is used both for unknown short URLs and for wrong keys.
	ErrUnauthorized = errors.New("invalid short_url or admin_key")
)

// Shortlink maps a short URL to the full URL it redirects to.
type Shortlink struct {
	FullURL     string // FullURL is the redirect target.
	ShortURL    string // ShortURL is the public code, unique among live shortlinks.
	AdminKey    string // AdminKey authorizes reading stats and deleting the shortlink.
	CreatedAt   int64  // CreatedAt is the Unix time the shortlink was created.
	AccessCount int64  // AccessCount is the number of successful redirects.
}

// Path segments served by the router itself. They can never be used as short URLs.
var reservedShortURLs = map[string]struct{}{
	"status": {},
	"docs":   {},
}

// IsReservedShortURL reports whether shortURL would be shadowed by a fixed route.
// Routing is case-sensitive, so the comparison is exact.
func IsReservedShortURL(shortURL string) bool {
	_, reserved := reservedShortURLs[shortURL]
	return reserved
}
