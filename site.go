package suppfetch

import (
	"net/url"
	"strings"
)

// Site describes where entities live on the content site and how the site
// signals that one does not exist.
type Site struct {
	// BaseURL is the scheme and host, e.g. "https://examine.com".
	BaseURL string

	// EntityPath prefixes every entity page and every entity link on listing pages.
	EntityPath string

	// SearchPath is the search listing page; the query goes in the q parameter.
	SearchPath string

	// NotFoundTitle is the page title the site serves for unknown entities.
	NotFoundTitle string
}

// DefaultSite is examine.com.
func DefaultSite() Site {
	return Site{
		BaseURL:       "https://examine.com",
		EntityPath:    "/supplements/",
		SearchPath:    "/search/",
		NotFoundTitle: "404",
	}
}

// EntityURL returns the page URL for a sanitized query slug.
func (s Site) EntityURL(slug string) string {
	return strings.TrimRight(s.BaseURL, "/") + s.EntityPath + url.PathEscape(slug) + "/"
}

// SearchURL returns the search listing URL for a sanitized query slug.
func (s Site) SearchURL(slug string) string {
	return strings.TrimRight(s.BaseURL, "/") + s.SearchPath + "?q=" + url.QueryEscape(slug)
}

// IsNotFound reports whether a page title is the site's missing-entity marker.
func (s Site) IsNotFound(title string) bool {
	return s.NotFoundTitle != "" && strings.TrimSpace(title) == s.NotFoundTitle
}

// Host returns the host part of BaseURL, used as the rate limiting domain.
func (s Site) Host() string {
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return s.BaseURL
	}
	return u.Host
}
