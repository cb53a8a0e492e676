package driven

// PromptStore serves the templates sent to the enrichment model.
type PromptStore interface {
	// Load returns the template called name, or an error when no such prompt exists.
	Load(name string) (string, error)
}

// Prompt names used by enrichment.
const (
	// PromptCategorise takes the file name then the content, both %s.
	PromptCategorise = "categorise"

	// PromptExtractReceipt takes the content as %s.
	PromptExtractReceipt = "extract_receipt"
)
