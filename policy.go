package suppfetch

import "strings"

// Resource types a RequestPolicy can block. Values match the browser's
// resource type names, compared case-insensitively.
const (
	ResourceImage      = "image"
	ResourceStylesheet = "stylesheet"
	ResourceFont       = "font"
	ResourceMedia      = "media"
	ResourceScript     = "script"
)

// RequestPolicy decides which subresource requests a page may make. Pages
// only need the server-rendered document; everything else slows navigation.
type RequestPolicy struct {
	// BlockedTypes are resource types aborted outright.
	BlockedTypes []string

	// BlockedDomains are substrings; a request whose URL contains any of them
	// is aborted.
	BlockedDomains []string
}

// DefaultRequestPolicy blocks heavy resource types and known tracking and ad hosts.
func DefaultRequestPolicy() *RequestPolicy {
	return &RequestPolicy{
		BlockedTypes: []string{
			ResourceImage,
			ResourceStylesheet,
			ResourceFont,
			ResourceMedia,
			ResourceScript,
		},
		BlockedDomains: []string{
			"google-analytics.com",
			"facebook.com",
			"doubleclick.net",
			"ads",
		},
	}
}

// Allow reports whether a request of the given resource type to url may proceed.
// A nil policy allows everything.
func (p *RequestPolicy) Allow(resourceType, url string) bool {
	if p == nil {
		return true
	}
	for _, t := range p.BlockedTypes {
		if strings.EqualFold(t, resourceType) {
			return false
		}
	}
	lower := strings.ToLower(url)
	for _, d := range p.BlockedDomains {
		if d != "" && strings.Contains(lower, strings.ToLower(d)) {
			return false
		}
	}
	return true
}
