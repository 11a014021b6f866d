//go:build integration

package gemini_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fwojciec/suppfetch"
	"github.com/fwojciec/suppfetch/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestAsker_Integration_ReturnsAnswer(t *testing.T) {
	t.Parallel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	require.NoError(t, err)

	asker := gemini.NewAsker(client)
	answer, err := asker.Ask(ctx, &suppfetch.Overview{
		Query:    "creatine",
		Title:    "Creatine",
		URL:      "https://examine.com/supplements/creatine/",
		Markdown: "The standard dose of creatine monohydrate is 5 grams per day.",
	}, "What is the standard daily dose?")

	require.NoError(t, err)
	assert.Contains(t, answer, "5")
}
