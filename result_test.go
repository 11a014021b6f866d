package suppfetch_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/suppfetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRelevant(t *testing.T) {
	t.Parallel()

	t.Run("false for empty set", func(t *testing.T) {
		t.Parallel()
		assert.False(t, suppfetch.IsRelevant(suppfetch.NewMatchSet()))
	})

	t.Run("false when every term holds the sentinel", func(t *testing.T) {
		t.Parallel()
		ms := suppfetch.NewMatchSet()
		ms.Add("dosage")
		ms.Add("creatine")
		assert.False(t, suppfetch.IsRelevant(ms))
	})

	t.Run("true when one term has content", func(t *testing.T) {
		t.Parallel()
		ms := suppfetch.NewMatchSet()
		ms.Add("dosage")
		ms.Add("creatine", "creatine is a compound")
		assert.True(t, suppfetch.IsRelevant(ms))
	})
}

func TestResult_JSON(t *testing.T) {
	t.Parallel()

	t.Run("found result", func(t *testing.T) {
		t.Parallel()

		ms := suppfetch.NewMatchSet()
		ms.Add("vitamin-c", "vitamin c is an antioxidant")
		r := suppfetch.NewFoundResult("vitamin-c", ms)

		b, err := json.Marshal(r)
		require.NoError(t, err)
		assert.JSONEq(t, `{"query":"vitamin c","data":{"vitamin-c":["vitamin c is an antioxidant"]}}`, string(b))
	})

	t.Run("not found result always carries a suggestions array", func(t *testing.T) {
		t.Parallel()

		r := suppfetch.NewNotFoundResult("zzz-nonexistent-supplement", nil)

		b, err := json.Marshal(r)
		require.NoError(t, err)
		assert.JSONEq(t, `{"query":"zzz nonexistent supplement","error":"No direct data found for the query: \"zzz nonexistent supplement\".","suggestions":[]}`, string(b))
	})

	t.Run("round trips both variants", func(t *testing.T) {
		t.Parallel()

		ms := suppfetch.NewMatchSet()
		ms.Add("b", "2")
		ms.Add("a", "1")
		for _, want := range []*suppfetch.Result{
			suppfetch.NewFoundResult("creatine", ms),
			suppfetch.NewNotFoundResult("zinc", []suppfetch.Suggestion{{Title: "Zinc", URL: "https://examine.com/supplements/zinc/"}}),
		} {
			b, err := json.Marshal(want)
			require.NoError(t, err)

			var got suppfetch.Result
			require.NoError(t, json.Unmarshal(b, &got))
			assert.Equal(t, want.Kind, got.Kind)
			assert.Equal(t, want.Query, got.Query)
			assert.Equal(t, want.Data.Terms(), got.Data.Terms())
			assert.Equal(t, want.Suggestions, got.Suggestions)
		}
	})
}
