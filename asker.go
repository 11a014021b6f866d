package suppfetch

import "context"

// Asker answers natural language questions about a supplement.
type Asker interface {
	// Ask answers question using only the overview as context.
	// Returns EINVALID if the question is empty.
	Ask(ctx context.Context, overview *Overview, question string) (string, error)
}
