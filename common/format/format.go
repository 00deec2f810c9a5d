// Package format holds the pure display helpers of the gallery page.
package format

import (
	"net/url"
	"strings"
)

// FallbackImageURL is served in place of images that are invalid or fail to load
const FallbackImageURL = "/images/Image-not-found.png"

// CompressAddress returns the first 6 and the last 4 characters of the address joined by an ellipsis.
// Strings shorter than 10 characters are not rejected, the two parts simply overlap.
func CompressAddress(address string) string {
	if address == "" {
		return ""
	}
	rs := []rune(address)
	head := rs
	if len(head) > 6 {
		head = head[:6]
	}
	tail := rs
	if len(tail) > 4 {
		tail = tail[len(tail)-4:]
	}
	return string(head) + "..." + string(tail)
}

// IsValidURL reports whether the string is a well-formed absolute URL
func IsValidURL(raw string) bool {
	s := strings.TrimSpace(raw)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if !validScheme(u.Scheme) {
		return false
	}
	return u.Host != "" || u.Opaque != "" || (u.Path != "" && u.Path != "/")
}

// ImageSource returns the image url of a card, the fallback is used when the url is invalid or failed
func ImageSource(imageURL string, failed bool) string {
	if failed || !IsValidURL(imageURL) {
		return FallbackImageURL
	}
	return imageURL
}

// scheme = ALPHA *( ALPHA / DIGIT / "+" / "-" / "." )
func validScheme(scheme string) bool {
	if scheme == "" {
		return false
	}
	for i, c := range scheme {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}
