package goquery_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/suppfetch"
	"github.com/fwojciec/suppfetch/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const creatinePage = `<!DOCTYPE html>
<html>
<head><title>Creatine benefits, dosage, and side effects</title>
<script>var creatineTracking = "should not be visible";</script>
</head>
<body>
<nav><a href="/supplements/">All supplements</a></nav>
<main>
  <h1 id="page-title">Creatine</h1>
  <section id="overview">
    <p>Creatine is a molecule produced in the body. It stores high-energy phosphate groups.</p>
  </section>
  <section id="dosage-information" class="dosage-block">
    <h2>How to take</h2>
    <p>The standard dose is 5 g of creatine monohydrate per day.</p>
  </section>
  <div id="empty-anchor"></div>
  <div role="benefits-list"><ul><li>Strength</li><li>Power output</li></ul></div>
</main>
</body>
</html>`

func newDocument(t *testing.T, snap *suppfetch.Snapshot) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocument(snap)
	require.NoError(t, err)
	return doc
}

func TestNewDocument(t *testing.T) {
	t.Parallel()

	t.Run("rejects nil snapshot", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewDocument(nil)
		require.Error(t, err)
		assert.Equal(t, suppfetch.EEXTRACTION, suppfetch.ErrorCode(err))
	})

	t.Run("prefers snapshot text", func(t *testing.T) {
		t.Parallel()

		doc := newDocument(t, &suppfetch.Snapshot{Text: "rendered text", HTML: "<p>raw</p>"})
		assert.Equal(t, "rendered text", doc.Text())
	})

	t.Run("derives visible text from HTML", func(t *testing.T) {
		t.Parallel()

		doc := newDocument(t, &suppfetch.Snapshot{HTML: creatinePage})

		assert.Contains(t, doc.Text(), "Creatine is a molecule produced in the body.")
		assert.NotContains(t, doc.Text(), "should not be visible")
		assert.NotContains(t, doc.Text(), "Creatine benefits, dosage", "head content is not rendered")
		assert.Contains(t, doc.Text(), "Strength\nPower output")
	})
}

func TestDocument_WindowMatches(t *testing.T) {
	t.Parallel()

	t.Run("finds every occurrence case-insensitively", func(t *testing.T) {
		t.Parallel()

		doc := newDocument(t, &suppfetch.Snapshot{Text: "Creatine helps. Later, more CREATINE."})

		got := doc.WindowMatches("creatine", 3)

		assert.Equal(t, []string{"creatine he", "re creatine."}, got)
	})

	t.Run("clips windows at document boundaries", func(t *testing.T) {
		t.Parallel()

		doc := newDocument(t, &suppfetch.Snapshot{Text: "zinc"})

		assert.Equal(t, []string{"zinc"}, doc.WindowMatches("zinc", 200))
	})

	t.Run("window spans at most radius runes each side", func(t *testing.T) {
		t.Parallel()

		text := strings.Repeat("a", 500) + "zinc" + strings.Repeat("b", 500)
		doc := newDocument(t, &suppfetch.Snapshot{Text: text})

		got := doc.WindowMatches("zinc", 200)

		require.Len(t, got, 1)
		assert.Equal(t, 404, utf8.RuneCountInString(got[0]))
		assert.Equal(t, strings.Repeat("a", 200)+"zinc"+strings.Repeat("b", 200), got[0])
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		t.Parallel()

		doc := newDocument(t, &suppfetch.Snapshot{Text: "ééézincééé"})

		assert.Equal(t, []string{"ézincé"}, doc.WindowMatches("zinc", 1))
	})

	t.Run("no occurrences", func(t *testing.T) {
		t.Parallel()

		doc := newDocument(t, &suppfetch.Snapshot{Text: "magnesium"})

		assert.Empty(t, doc.WindowMatches("zinc", 200))
		assert.Empty(t, doc.WindowMatches("", 200))
	})
}

func TestDocument_IdentifierMatches(t *testing.T) {
	t.Parallel()

	doc := newDocument(t, &suppfetch.Snapshot{HTML: creatinePage})

	t.Run("matches id substrings", func(t *testing.T) {
		t.Parallel()

		got := doc.IdentifierMatches("dosage")

		require.Len(t, got, 1)
		assert.Contains(t, got[0], "The standard dose is 5 g")
		assert.True(t, strings.HasPrefix(got[0], "How to take"), "text is trimmed")
	})

	t.Run("is case-insensitive on the id", func(t *testing.T) {
		t.Parallel()

		assert.Len(t, doc.IdentifierMatches("OVERVIEW"), 1)
	})

	t.Run("skips elements without text", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, doc.IdentifierMatches("empty"))
	})
}

func TestDocument_SelectorMatch(t *testing.T) {
	t.Parallel()

	doc := newDocument(t, &suppfetch.Snapshot{HTML: creatinePage})

	t.Run("matches id attribute", func(t *testing.T) {
		t.Parallel()

		got, ok := doc.SelectorMatch("overview")
		require.True(t, ok)
		assert.Equal(t, "Creatine is a molecule produced in the body. It stores high-energy phosphate groups.", got)
	})

	t.Run("matches role attribute", func(t *testing.T) {
		t.Parallel()

		got, ok := doc.SelectorMatch("benefits")
		require.True(t, ok)
		assert.Contains(t, got, "Strength")
	})

	t.Run("returns first match only", func(t *testing.T) {
		t.Parallel()

		got, ok := doc.SelectorMatch("dosage")
		require.True(t, ok)
		assert.Contains(t, got, "How to take")
	})

	t.Run("nothing for missing field", func(t *testing.T) {
		t.Parallel()

		_, ok := doc.SelectorMatch("interactions")
		assert.False(t, ok)
	})

	t.Run("rejects unsanitized field", func(t *testing.T) {
		t.Parallel()

		_, ok := doc.SelectorMatch(`x"], *, [id*="`)
		assert.False(t, ok)
	})
}

func TestDocument_Elements(t *testing.T) {
	t.Parallel()

	doc := newDocument(t, &suppfetch.Snapshot{HTML: creatinePage})

	got := doc.Elements()

	require.Len(t, got, 4)
	assert.Equal(t, "page-title", got[0].ID)
	assert.Equal(t, "Creatine", got[0].Text)
	assert.Equal(t, "empty-anchor", got[3].ID)
	assert.Equal(t, goquery.NoTextContent, got[3].Text)
}

func TestDocument_EntityLinks(t *testing.T) {
	t.Parallel()

	const listing = `<html><body>
<a href="/supplements/">Index</a>
<a href="/supplements/vitamin-c/">  Vitamin
  C </a>
<a href="https://examine.com/supplements/vitamin-d/#faq">Vitamin D</a>
<a href="/supplements/vitamin-e/"><img src="e.png"></a>
<a href="/outcomes/energy/">Energy</a>
<a href="https://other.com/supplements/zinc/">Zinc elsewhere</a>
<a href="javascript:void(0)">js</a>
<a href="/supplements/vitamin-c/">Vitamin C again</a>
</body></html>`

	doc := newDocument(t, &suppfetch.Snapshot{
		URL:  "https://examine.com/search/?q=vitamin",
		HTML: listing,
	})

	got := doc.EntityLinks(suppfetch.DefaultSite())

	assert.Equal(t, []suppfetch.Suggestion{
		{Title: "Vitamin C", URL: "https://examine.com/supplements/vitamin-c/"},
		{Title: "Vitamin D", URL: "https://examine.com/supplements/vitamin-d/"},
		{Title: "", URL: "https://examine.com/supplements/vitamin-e/"},
		{Title: "Vitamin C again", URL: "https://examine.com/supplements/vitamin-c/"},
	}, got)
}

func TestDocument_EntityLinks_FallsBackToSiteURL(t *testing.T) {
	t.Parallel()

	doc := newDocument(t, &suppfetch.Snapshot{HTML: `<a href="/supplements/zinc/">Zinc</a>`})

	got := doc.EntityLinks(suppfetch.DefaultSite())

	assert.Equal(t, []suppfetch.Suggestion{{Title: "Zinc", URL: "https://examine.com/supplements/zinc/"}}, got)
}
