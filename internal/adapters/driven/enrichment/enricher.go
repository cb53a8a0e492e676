package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
	"github.com/custodia-labs/fieldarchive/internal/logger"
)

// Ensure Enricher implements the interface.
var _ driven.Enricher = (*Enricher)(nil)

const (
	// DefaultCategory is used when the model gives no usable answer.
	DefaultCategory = "general"

	// MaxInputChars bounds the text sent to the model.
	MaxInputChars = 60000

	maxResponseTokens = 1024
)

// errNoJSON indicates the model reply contained no JSON object.
var errNoJSON = errors.New("no JSON object in response")

var jsonObject = regexp.MustCompile(`\{[\s\S]*\}`)

// Enricher categorises documents and extracts receipts with an LLM.
type Enricher struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// New creates an enricher. prompts may be nil, in which case the built-in
// templates are used.
func New(llm driven.LLMService, prompts driven.PromptStore) *Enricher {
	return &Enricher{llm: llm, prompts: prompts}
}

type categorisationJSON struct {
	Tags     []string `json:"tags"`
	Category *string  `json:"category"`
	Summary  *string  `json:"summary"`
}

// Categorise assigns tags, a category and a summary. A reply that cannot be
// parsed yields an empty categorisation in DefaultCategory.
func (e *Enricher) Categorise(ctx context.Context, text, fileName string) (*domain.Categorisation, error) {
	prompt := fmt.Sprintf(e.loadPrompt(driven.PromptCategorise), fileName, truncate(text))

	reply, err := e.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: maxResponseTokens})
	if err != nil {
		return nil, fmt.Errorf("categorise: %w", err)
	}

	var parsed categorisationJSON
	if err := decode(reply, categorisationSchema, &parsed); err != nil {
		logger.Warn("categorisation parse error for %s: %v", fileName, err)
		return &domain.Categorisation{Tags: []string{}, Category: DefaultCategory}, nil
	}

	result := &domain.Categorisation{
		Tags:     normaliseTags(parsed.Tags),
		Category: DefaultCategory,
	}
	if parsed.Category != nil && strings.TrimSpace(*parsed.Category) != "" {
		result.Category = strings.TrimSpace(*parsed.Category)
	}
	if parsed.Summary != nil {
		result.Summary = strings.TrimSpace(*parsed.Summary)
	}
	return result, nil
}

type receiptJSON struct {
	Vendor      *string  `json:"vendor"`
	Date        *string  `json:"date"`
	Amount      *float64 `json:"amount"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
}

// ExtractReceipt recovers expense fields. It returns nil and no error when
// the reply holds no JSON object.
func (e *Enricher) ExtractReceipt(ctx context.Context, text string) (*domain.Receipt, error) {
	prompt := fmt.Sprintf(e.loadPrompt(driven.PromptExtractReceipt), truncate(text))

	reply, err := e.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: maxResponseTokens})
	if err != nil {
		return nil, fmt.Errorf("extract receipt: %w", err)
	}

	var parsed receiptJSON
	if err := decode(reply, receiptSchema, &parsed); err != nil {
		if errors.Is(err, errNoJSON) {
			logger.Debug("receipt extraction: %v", err)
			return nil, nil
		}
		return nil, fmt.Errorf("extract receipt: %w", err)
	}

	return &domain.Receipt{
		Vendor:      deref(parsed.Vendor),
		Date:        deref(parsed.Date),
		Amount:      derefFloat(parsed.Amount),
		Category:    strings.ToLower(deref(parsed.Category)),
		Description: deref(parsed.Description),
	}, nil
}

// decode finds the JSON object in reply, validates it and unmarshals it into out.
func decode(reply string, schema *jsonschema.Schema, out any) error {
	match := jsonObject.FindString(reply)
	if match == "" {
		return errNoJSON
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(match)))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("validate response: %w", err)
	}
	if err := json.Unmarshal([]byte(match), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (e *Enricher) loadPrompt(name string) string {
	if e.prompts != nil {
		if prompt, err := e.prompts.Load(name); err == nil && prompt != "" {
			return prompt
		}
	}
	return DefaultPrompts[name]
}

func normaliseTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		out = append(out, t)
	}
	return out
}

func truncate(text string) string {
	if len(text) <= MaxInputChars {
		return text
	}
	cut := MaxInputChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
