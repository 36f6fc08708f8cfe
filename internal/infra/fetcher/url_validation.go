package fetcher

import (
	"errors"
	"fmt"
	"net"
	"net/url"
)

var (
	// ErrInvalidURL marks URLs that cannot be fetched at all.
	ErrInvalidURL = errors.New("invalid url")
	// ErrPrivateIP marks URLs resolving into private address space.
	ErrPrivateIP = errors.New("url resolves to private address")
	// ErrTooManyRedirects marks redirect chains past the limit.
	ErrTooManyRedirects = errors.New("too many redirects")
	// ErrBodyTooLarge marks responses past the size limit.
	ErrBodyTooLarge = errors.New("response body too large")
	// ErrNoContent marks pages readability found nothing in.
	ErrNoContent = errors.New("no readable content")
)

// validateURL checks a URL before the enricher dereferences it. The
// scheme and host checks always apply; the private-IP check is skipped
// when denyPrivateIPs is false so tests can point at loopback servers.
func validateURL(urlStr string, denyPrivateIPs bool) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q not allowed", ErrInvalidURL, u.Scheme)
	}
	hostname := u.Hostname()
	if hostname == "" {
		return fmt.Errorf("%w: empty hostname", ErrInvalidURL)
	}

	if !denyPrivateIPs {
		return nil
	}

	ips, err := net.LookupIP(hostname)
	if err != nil {
		return fmt.Errorf("%w: DNS lookup failed for %s: %v", ErrInvalidURL, hostname, err)
	}
	for _, ip := range ips {
		if isPrivateIP(ip) {
			return fmt.Errorf("%w: %s resolves to %s", ErrPrivateIP, hostname, ip)
		}
	}
	return nil
}

// isPrivateIP reports whether ip is loopback, private, link-local or
// unspecified, for both IPv4 and IPv6.
func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified()
}
