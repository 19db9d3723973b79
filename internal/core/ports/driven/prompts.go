package driven

// Prompt names used with PromptStore.
const (
	// PromptAnswer grounds an answer in retrieved document snippets.
	PromptAnswer = "answer"

	// PromptFallback asks for a general-knowledge answer when
	// retrieval produced nothing usable.
	PromptFallback = "fallback"
)

// PromptStore loads prompt templates, allowing user customisation of
// generation behaviour without rebuilding.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)
}
