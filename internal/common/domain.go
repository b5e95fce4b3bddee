package common

import "strings"

// NormalizeDomain canonicalizes a user-supplied site hostname by stripping
// any scheme prefix and trailing slashes. The result is a bare hostname
// suitable for comparison and URL construction. Normalizing an already
// normalized value returns it unchanged. No resolvability check is made.
func NormalizeDomain(domain string) string {
	d := strings.TrimSpace(domain)
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimRight(d, "/")
	return d
}
