// Package suppfetch looks up supplement information on a single content site
// by driving a headless browser. It turns a free-form query into either
// extracted, deduplicated and size-limited text keyed by search term, or a list
// of alternative entities when the site has nothing relevant.
//
// This package contains domain types, pure shaping logic and interfaces
// following Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., rod/, goquery/,
// sqlite/).
package suppfetch
