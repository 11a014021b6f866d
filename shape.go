package suppfetch

// SummaryLength is the maximum length, in runes, of a summarized match
// including the Ellipsis marker.
const SummaryLength = 200

// Ellipsis marks a truncated match.
const Ellipsis = "..."

// Shape deduplicates each term's matches, optionally summarizes them and caps
// them at maxResults per term. maxResults <= 0 leaves the lists uncapped. The
// number of terms is never reduced. Shape does not modify ms.
func Shape(ms *MatchSet, summarize bool, maxResults int) *MatchSet {
	out := NewMatchSet()
	for _, term := range ms.Terms() {
		matches, _ := ms.Get(term)

		var shaped []string
		for _, s := range matches {
			if summarize && s != NoMatches {
				s = Summarize(s)
			}
			shaped = appendUnique(shaped, s)
		}
		if maxResults > 0 && len(shaped) > maxResults {
			shaped = shaped[:maxResults]
		}
		if len(shaped) == 0 {
			shaped = []string{NoMatches}
		}
		out.Set(term, shaped)
	}
	return out
}

// Summarize truncates s to SummaryLength runes. The ellipsis is appended only
// when truncation happened, and counts toward the limit.
func Summarize(s string) string {
	r := []rune(s)
	if len(r) <= SummaryLength {
		return s
	}
	keep := SummaryLength - len([]rune(Ellipsis))
	return string(r[:keep]) + Ellipsis
}
