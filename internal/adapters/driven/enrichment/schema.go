package enrichment

import "github.com/santhosh-tekuri/jsonschema/v5"

const categorisationSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "tags": {"type": ["array", "null"], "items": {"type": "string"}},
    "category": {"type": ["string", "null"]},
    "summary": {"type": ["string", "null"]}
  }
}`

const receiptSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "vendor": {"type": ["string", "null"]},
    "date": {
      "anyOf": [
        {"type": "null"},
        {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"}
      ]
    },
    "amount": {"type": ["number", "null"], "minimum": 0},
    "category": {"type": ["string", "null"]},
    "description": {"type": ["string", "null"]}
  }
}`

var (
	categorisationSchema = jsonschema.MustCompileString("categorisation.json", categorisationSchemaJSON)
	receiptSchema        = jsonschema.MustCompileString("receipt.json", receiptSchemaJSON)
)
