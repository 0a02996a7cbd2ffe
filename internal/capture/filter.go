// Package capture decides which navigations belong in history. The store
// records whatever it is given; callers run URLs through a Filter first.
package capture

import (
	"net/url"
	"strings"

	"github.com/runnerr0/trailmark/internal/config"
)

// Reason explains why a URL was rejected.
type Reason string

const (
	Accepted        Reason = ""
	ReasonEmpty     Reason = "empty url"
	ReasonMalformed Reason = "malformed url"
	ReasonScheme    Reason = "non-navigable scheme"
	ReasonDenylist  Reason = "denylisted domain"
)

// Filter rejects internal pages and denylisted domains.
type Filter struct {
	skipSchemes map[string]bool
	denylist    []string
}

// NewFilter builds a Filter from capture settings. Matching is
// case-insensitive.
func NewFilter(cfg config.CaptureConfig) *Filter {
	f := &Filter{skipSchemes: make(map[string]bool, len(cfg.SkipSchemes))}
	for _, s := range cfg.SkipSchemes {
		f.skipSchemes[strings.ToLower(s)] = true
	}
	for _, d := range cfg.DenylistDomains {
		d = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(d), "."))
		if d != "" {
			f.denylist = append(f.denylist, d)
		}
	}
	return f
}

// Check reports whether rawURL should be recorded, and why not.
func (f *Filter) Check(rawURL string) (bool, Reason) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return false, ReasonEmpty
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return false, ReasonMalformed
	}
	if f.skipSchemes[strings.ToLower(u.Scheme)] {
		return false, ReasonScheme
	}
	if f.isDenied(strings.ToLower(u.Hostname())) {
		return false, ReasonDenylist
	}
	return true, Accepted
}

// Allow is Check without the reason.
func (f *Filter) Allow(rawURL string) bool {
	ok, _ := f.Check(rawURL)
	return ok
}

// isDenied matches a host against the denylist exactly or as a subdomain.
func (f *Filter) isDenied(host string) bool {
	if host == "" {
		return false
	}
	for _, d := range f.denylist {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
