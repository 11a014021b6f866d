// Package gemini answers questions about supplements with Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/suppfetch"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// Ensure Asker implements suppfetch.Asker at compile time.
var _ suppfetch.Asker = (*Asker)(nil)

// Asker implements suppfetch.Asker using Google Gemini.
type Asker struct {
	client *genai.Client
}

// NewAsker creates a new Asker.
func NewAsker(client *genai.Client) *Asker {
	return &Asker{client: client}
}

// Ask answers question using the overview's markdown as the only context.
func (a *Asker) Ask(ctx context.Context, overview *suppfetch.Overview, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", suppfetch.Errorf(suppfetch.EINVALID, "question required")
	}
	if overview == nil || strings.TrimSpace(overview.Markdown) == "" {
		return "", suppfetch.Errorf(suppfetch.ENOTFOUND, "no supplement content to answer from")
	}

	result, err := a.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: BuildUserPrompt(overview, question)}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", suppfetch.Errorf(suppfetch.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You answer questions about dietary supplements. Answer based only on the supplement page provided. If the answer is not on the page, say so. Do not give medical advice beyond what the page states.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing the page and question.
func BuildUserPrompt(overview *suppfetch.Overview, question string) string {
	title := overview.Title
	if title == "" {
		title = overview.Query
	}

	var sb strings.Builder
	sb.WriteString("<page>\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", title)
	fmt.Fprintf(&sb, "<source>%s</source>\n", overview.URL)
	fmt.Fprintf(&sb, "<content>%s</content>\n", overview.Markdown)
	sb.WriteString("</page>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}
