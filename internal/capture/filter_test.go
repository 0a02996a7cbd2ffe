package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/runnerr0/trailmark/internal/config"
)

func TestFilter_DefaultSchemes(t *testing.T) {
	f := NewFilter(config.DefaultConfig().Capture)

	tests := []struct {
		url    string
		ok     bool
		reason Reason
	}{
		{"https://example.com/page", true, Accepted},
		{"http://example.com", true, Accepted},
		{"about:blank", false, ReasonScheme},
		{"ABOUT:config", false, ReasonScheme},
		{"data:text/html,<p>hi</p>", false, ReasonScheme},
		{"javascript:void(0)", false, ReasonScheme},
		{"view-source:https://example.com", false, ReasonScheme},
		{"file:///etc/hosts", false, ReasonScheme},
		{"", false, ReasonEmpty},
		{"   ", false, ReasonEmpty},
		{"example.com/no-scheme", false, ReasonMalformed},
		{"http://[::1", false, ReasonMalformed},
	}

	for _, tc := range tests {
		ok, reason := f.Check(tc.url)
		assert.Equal(t, tc.ok, ok, "allow %q", tc.url)
		assert.Equal(t, tc.reason, reason, "reason for %q", tc.url)
	}
}

func TestFilter_Denylist(t *testing.T) {
	f := NewFilter(config.CaptureConfig{
		SkipSchemes:     []string{"about"},
		DenylistDomains: []string{"bank.example", ".Secret.org", " "},
	})

	assert.False(t, f.Allow("https://bank.example/login"))
	assert.False(t, f.Allow("https://www.bank.example/"))
	assert.False(t, f.Allow("https://SECRET.org"))
	assert.True(t, f.Allow("https://notbank.example/"))
	assert.True(t, f.Allow("https://example.com"))

	ok, reason := f.Check("https://app.secret.org/x")
	assert.False(t, ok)
	assert.Equal(t, ReasonDenylist, reason)
}

func TestFilter_CustomSchemes(t *testing.T) {
	f := NewFilter(config.CaptureConfig{SkipSchemes: []string{"gopher"}})

	assert.False(t, f.Allow("gopher://old.example"))
	assert.True(t, f.Allow("about:blank"), "only configured schemes are skipped")
}
