package suppfetch_test

import (
	"testing"

	"github.com/fwojciec/suppfetch"
	"github.com/stretchr/testify/assert"
)

func TestRequestPolicy_Allow(t *testing.T) {
	t.Parallel()

	p := suppfetch.DefaultRequestPolicy()

	tests := []struct {
		name         string
		resourceType string
		url          string
		want         bool
	}{
		{"document allowed", "Document", "https://examine.com/supplements/creatine/", true},
		{"xhr allowed", "XHR", "https://examine.com/api/data", true},
		{"image blocked", "Image", "https://examine.com/a.png", false},
		{"stylesheet blocked", "stylesheet", "https://examine.com/a.css", false},
		{"font blocked", "Font", "https://examine.com/a.woff2", false},
		{"media blocked", "Media", "https://examine.com/a.mp4", false},
		{"script blocked", "Script", "https://examine.com/app.js", false},
		{"analytics blocked", "XHR", "https://www.google-analytics.com/collect", false},
		{"ad host blocked", "Document", "https://ads.example.net/frame", false},
		{"domain match is case-insensitive", "XHR", "https://DoubleClick.NET/x", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, p.Allow(tt.resourceType, tt.url))
		})
	}
}

func TestRequestPolicy_NilAllowsEverything(t *testing.T) {
	t.Parallel()

	var p *suppfetch.RequestPolicy
	assert.True(t, p.Allow("Image", "https://ads.example.com"))
}
