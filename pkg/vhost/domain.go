package vhost

import "regexp"

// domainPattern accepts one or more dot-terminated labels of [a-z0-9-]
// followed by a top-level label of 2 to 24 lowercase letters.
var domainPattern = regexp.MustCompile(`^([a-z0-9-]+\.)+[a-z]{2,24}$`)

// IsValidDomain reports whether domain is a plausible lowercase domain name.
func IsValidDomain(domain string) bool {
	return domainPattern.MatchString(domain)
}
