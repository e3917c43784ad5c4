package validation

import (
	"regexp"
	"strings"
)

// defaultSubdomainPattern accepts the characters a database identifier can
// legally carry.
var defaultSubdomainPattern = regexp.MustCompile(`^[a-z0-9]+$`)

// ExistsFunc reports whether a database name is already taken.
type ExistsFunc func(dbname string) (bool, error)

// SubdomainParser normalizes and validates a requested subdomain the same
// way at creation and at edit time. Checks run in a fixed order and the
// first failure wins: character set, collision, reserved word.
type SubdomainParser struct {
	// Domain is the wiki farm's base domain, e.g. "example.wiki". A
	// submitted value ending in ".<Domain>" is trimmed to its bare
	// subdomain first.
	Domain string
	// DatabaseSuffix is appended to the subdomain to form the database
	// name, e.g. "wiki".
	DatabaseSuffix string
	// Reserved lists subdomains that can never be requested.
	Reserved []string
	// Exists checks the database name against existing wikis. A nil func
	// skips the collision check.
	Exists ExistsFunc
	// Pattern overrides the legal-character constraint when set.
	Pattern *regexp.Regexp
}

// Parsed is the accepted form of a submitted subdomain.
type Parsed struct {
	Subdomain string
	DBName    string
	URL       string
}

// Parse lower-cases and validates the candidate. On rejection the returned
// error is a validation Error whose code selects the user-facing message;
// no partial result is returned.
func (p *SubdomainParser) Parse(candidate string) (Parsed, error) {
	subdomain := strings.ToLower(strings.TrimSpace(candidate))
	if p.Domain != "" {
		subdomain = strings.TrimSuffix(subdomain, "."+strings.ToLower(p.Domain))
	}

	pattern := p.Pattern
	if pattern == nil {
		pattern = defaultSubdomainPattern
	}
	if !pattern.MatchString(subdomain) {
		return Parsed{}, &Error{Code: CodeNotAlphanumeric}
	}

	dbname := subdomain + p.DatabaseSuffix

	if p.Exists != nil {
		taken, err := p.Exists(dbname)
		if err != nil {
			return Parsed{}, err
		}
		if taken {
			return Parsed{}, &Error{Code: CodeSubdomainTaken}
		}
	}

	for _, reserved := range p.Reserved {
		if strings.EqualFold(reserved, subdomain) {
			return Parsed{}, &Error{Code: CodeDisallowed}
		}
	}

	parsed := Parsed{
		Subdomain: subdomain,
		DBName:    dbname,
	}
	if p.Domain != "" {
		parsed.URL = subdomain + "." + strings.ToLower(p.Domain)
	}
	return parsed, nil
}
