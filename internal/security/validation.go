// Package security provides validation for untrusted image locations.
package security

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"strings"
)

// ErrPrivateHost is returned for URLs that resolve to this machine or a
// private network by their literal host.
var ErrPrivateHost = errors.New("URL points to a local or private host")

// ValidateImageURL checks that urlStr is an absolute HTTP(S) URL with a
// hostname. Unless allowPrivate is set, loopback, private and link-local
// hosts are rejected to prevent SSRF. Hostnames are not resolved.
func ValidateImageURL(urlStr string, allowPrivate bool) error {
	if urlStr == "" {
		return fmt.Errorf("empty URL")
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("invalid URL protocol (only http:// and https:// allowed): %s", parsed.Scheme)
	}
	if parsed.Hostname() == "" {
		return fmt.Errorf("URL must have a hostname")
	}
	if parsed.User != nil {
		return fmt.Errorf("URL must not contain credentials")
	}

	host := strings.ToLower(parsed.Hostname())
	if !allowPrivate && isLocalOrPrivateHost(host) {
		return fmt.Errorf("%w: %s", ErrPrivateHost, host)
	}
	return nil
}

// isLocalOrPrivateHost checks if a hostname is localhost or a literal
// loopback, private, link-local or unspecified address.
func isLocalOrPrivateHost(host string) bool {
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	return addr.IsLoopback() ||
		addr.IsPrivate() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsUnspecified()
}
