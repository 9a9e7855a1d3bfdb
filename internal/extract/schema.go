package extract

import (
	"encoding/json"
	"log"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// advisorySchema describes the invoice shape the extraction prompt asks for.
// The model is not guaranteed to honor it, so validation only flags results;
// it never rejects them.
const advisorySchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "invoice_info": {
      "type": "object",
      "properties": {
        "invoice_number": {"type": "string"},
        "date": {"type": "string"},
        "due_date": {"type": "string"},
        "currency": {"type": "string"},
        "total": {"type": ["number", "string"]}
      }
    },
    "seller": {"type": "object"},
    "buyer": {"type": "object"},
    "products": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "description": {"type": "string"},
          "quantity": {"type": ["number", "string"]},
          "unit_price": {"type": ["number", "string"]},
          "total": {"type": ["number", "string"]}
        }
      }
    },
    "totals": {"type": "object"}
  },
  "required": ["invoice_info"]
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
)

func compiled() *jsonschema.Schema {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("invoice.json", strings.NewReader(advisorySchema)); err != nil {
			log.Printf("extract: adding advisory schema resource: %v", err)
			return
		}
		schema, err := compiler.Compile("invoice.json")
		if err != nil {
			log.Printf("extract: compiling advisory schema: %v", err)
			return
		}
		compiledSchema = schema
	})
	return compiledSchema
}

// ValidateAdvisory reports whether data matches the advisory invoice schema.
func ValidateAdvisory(data json.RawMessage) bool {
	schema := compiled()
	if schema == nil {
		return false
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return false
	}
	return schema.Validate(v) == nil
}
