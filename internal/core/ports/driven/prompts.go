package driven

// PromptStore provides LLM prompt templates by name.
type PromptStore interface {
	// Load returns the current template for name. Stores backed by editable
	// files return the latest saved version.
	Load(name string) (string, error)
}

// PromptGroundedAnswer instructs the model to answer strictly from context.
// The template holds the {context} and {question} placeholders once each.
const PromptGroundedAnswer = "grounded_answer"
