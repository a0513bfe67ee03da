package relay

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// hostProfile maps hostnames the way a browser URL parser does: disallowed
// code points fail, but STD3 and hyphen rules are off so underscores and
// odd CDN labels stay legal.
var hostProfile = idna.New(
	idna.MapForLookup(),
	idna.StrictDomainName(false),
	idna.ValidateLabels(false),
	idna.Transitional(false),
)

// stripNewlines drops tab, CR and LF anywhere in a pasted URL.
var stripNewlines = strings.NewReplacer("\t", "", "\r", "", "\n", "")

// cleanTarget trims leading and trailing C0 controls and spaces, then removes
// embedded tab, CR and LF, the same cleanup a browser applies before parsing.
func cleanTarget(raw string) string {
	trimmed := strings.TrimFunc(raw, func(r rune) bool { return r <= 0x20 })
	return stripNewlines.Replace(trimmed)
}

// ParseTarget checks that raw is an absolute http or https URL with a usable
// host. Surrounding whitespace and embedded line breaks are removed first; the
// returned URL is the one to fetch.
func ParseTarget(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, ErrURLRequired
	}

	cleaned := cleanTarget(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: %q has no URL text", ErrInvalidURL, raw)
	}

	u, err := url.Parse(cleaned)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not an absolute URL", ErrInvalidURL, cleaned)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("%w: missing host in %q", ErrInvalidURL, cleaned)
	}
	if net.ParseIP(host) == nil {
		if _, err := hostProfile.ToASCII(host); err != nil {
			return nil, fmt.Errorf("%w: host %q: %v", ErrInvalidURL, host, err)
		}
	}
	return u, nil
}
