package enrichment

import "github.com/custodia-labs/fieldarchive/internal/core/ports/driven"

// DefaultPrompts are the built-in templates, also used to seed a PromptStore.
var DefaultPrompts = map[string]string{
	driven.PromptCategorise: `Analyze the following document (%s) and suggest appropriate tags/categories. Return ONLY a JSON object with:
- tags: array of relevant tag strings (e.g., "meeting", "field-visit", "policy", "budget", etc.)
- category: string (the primary category)
- summary: string (one sentence summary)

Content:
%s`,

	driven.PromptExtractReceipt: `Extract expense/receipt data from the following text. Return ONLY valid JSON with these fields:
- vendor: string (the business/vendor name)
- date: string (in YYYY-MM-DD format)
- amount: number (the total amount)
- category: string (one of: travel, meals, supplies, lodging, fuel, parking, other)
- description: string (brief description of the expense)

If a field cannot be determined, use null.

Text:
%s`,
}
