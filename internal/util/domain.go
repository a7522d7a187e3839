package util

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ETLDPlusOne returns the registrable domain of the URL host, falling back
// to the bare host for IPs, single-label hosts and unknown suffixes.
func ETLDPlusOne(u *url.URL) string {
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" || net.ParseIP(host) != nil {
		return host
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}

// SameBaseDomain reports whether two raw URLs share a registrable domain.
// Unparseable URLs never match.
func SameBaseDomain(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	da, db := ETLDPlusOne(ua), ETLDPlusOne(ub)
	return da != "" && da == db
}
