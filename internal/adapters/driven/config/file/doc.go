// Package file reads settings and enrichment prompts from the archive home.
//
//   - ConfigStore: config.toml, flattened to dotted keys
//   - PromptStore: editable prompt templates under prompts/
package file
