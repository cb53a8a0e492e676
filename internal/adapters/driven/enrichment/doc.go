// Package enrichment implements driven.Enricher on top of an LLMService.
//
// Prompts come from a PromptStore so they can be edited without a rebuild.
// The model is asked for a JSON object; the first {...} span of the reply is
// parsed and validated against a JSON schema before it is trusted.
package enrichment
