package llm

import (
	"fmt"
	"os"
)

// DefaultExtractionPrompt is the built-in system prompt that instructs the
// model to extract invoice fields as JSON. The shape it elicits is advisory:
// downstream consumers probe keys defensively and never assume the model
// honored it.
const DefaultExtractionPrompt = `You are an invoice data extraction assistant. You will receive the text of a single invoice, converted from PDF with layout preserved. Extract the invoice data and return it as JSON.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation — just the raw JSON object.

The JSON object must follow this structure:
{
  "invoice_info": {
    "invoice_number": "",
    "date": "",
    "due_date": "",
    "currency": "",
    "total": 0
  },
  "seller": {
    "name": "",
    "address": "",
    "tax_id": ""
  },
  "buyer": {
    "name": "",
    "address": "",
    "tax_id": ""
  },
  "products": [
    {
      "description": "",
      "quantity": 0,
      "unit_price": 0,
      "total": 0
    }
  ],
  "totals": {
    "subtotal": 0,
    "tax": 0,
    "discount": 0,
    "total": 0
  }
}

Extract EVERY line item into the "products" array. Do not skip, summarize, or merge items. If a field is not present in the document, use an empty string for text and 0 for numbers.`

// LoadPrompt returns the extraction prompt, reading it from promptFile when
// one is configured and falling back to the built-in prompt otherwise.
func LoadPrompt(promptFile string) (string, error) {
	if promptFile == "" {
		return DefaultExtractionPrompt, nil
	}
	data, err := os.ReadFile(promptFile)
	if err != nil {
		return "", fmt.Errorf("reading prompt file %s: %w", promptFile, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("prompt file %s is empty", promptFile)
	}
	return string(data), nil
}
