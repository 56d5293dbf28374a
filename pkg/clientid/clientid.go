// Package clientid derives rate-limiting identifiers from incoming requests.
package clientid

import (
	"encoding/base64"
	"net"
	"net/http"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Unknown is the sentinel identifier when no client address is derivable.
const Unknown = "unknown"

// IP extracts the client IP from forwarding headers, preferring
// X-Forwarded-For (first hop), then X-Real-IP, then the socket address.
func IP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// The header may carry a proxy chain; the client is the first entry.
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		if ip := strings.TrimSpace(fwd); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return Unknown
}

// Key compresses an IP and User-Agent pair into a compact, deterministic
// rate-limit key. The raw address never becomes a map key, which keeps key
// size bounded regardless of header contents.
func Key(ip, userAgent string) string {
	sum := xxhash.Sum64String(ip + "\x00" + userAgent)
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(sum >> (56 - 8*i))
	}
	return base64.RawURLEncoding.EncodeToString(buf[:])
}
