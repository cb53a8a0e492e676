// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/fieldarchive/internal/adapters/driven/enrichment"
	anthropicllm "github.com/custodia-labs/fieldarchive/internal/adapters/driven/llm/anthropic"
	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	LLMService driven.LLMService
	Enricher   driven.Enricher
	Warnings   []string // Non-fatal issues that disabled enrichment.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init builds the enricher from settings. An unconfigured or unreachable
// provider disables enrichment with a warning rather than failing startup.
func Init(settings *domain.EnrichmentSettings, prompts driven.PromptStore) *InitResult {
	result := &InitResult{}

	llm, err := CreateAndValidateLLMService(settings)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		return result
	}
	if llm == nil {
		result.Warnings = append(result.Warnings, "enrichment disabled: no API key configured")
		return result
	}

	result.LLMService = llm
	result.Enricher = enrichment.New(llm, prompts)
	return result
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.EnrichmentSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Check [enrichment] in config.toml",
			domain.ErrEnricherUnavailable, err)
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Check [enrichment] in config.toml",
			domain.ErrEnricherUnavailable, err)
	}

	return svc, nil
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.EnrichmentSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// createAnthropicLLM creates an Anthropic LLM service.
func createAnthropicLLM(settings *domain.EnrichmentSettings) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
