package llm

import (
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// GenerateRecordExpensesTool builds the extraction tool definition. Forcing
// the model through a function call with a closed category enum keeps the
// output parseable and the taxonomy closed; free-form JSON answers drift.
func GenerateRecordExpensesTool(categories []string) openai.Tool {
	expenseSchema := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"description": {
				Type:        jsonschema.String,
				Description: "Short plain description of the purchase, without amount or time words.",
			},
			"amount": {
				Type:        jsonschema.Number,
				Description: "Amount spent, non-negative.",
			},
			"category": {
				Type:        jsonschema.String,
				Enum:        categories,
				Description: "Spending category, strictly one of the listed values.",
			},
			"merchant": {
				Type:        jsonschema.String,
				Description: "Merchant name if the text names one, else empty string.",
			},
			"location": {
				Type:        jsonschema.String,
				Description: "Location if the text names one, else empty string.",
			},
			"paymentMethod": {
				Type:        jsonschema.String,
				Enum:        []string{"Cash", "Card", "Digital", "Unknown"},
				Description: "Payment method if the text hints at one.",
			},
			"tags": {
				Type:        jsonschema.Array,
				Items:       &jsonschema.Definition{Type: jsonschema.String},
				Description: "Short lowercase labels for the purchase, e.g. 'recurring', 'work', 'weekend'.",
			},
			"confidence": {
				Type:        jsonschema.Number,
				Description: "Extraction confidence between 0 and 1.",
			},
		},
		Required: []string{"description", "amount", "category", "confidence"},
	}

	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        "record_expenses",
			Description: "Record every expense mentioned in the user's paragraph with amount, category and metadata.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"monthlyExpenses": {
						Type:        jsonschema.Array,
						Items:       &expenseSchema,
						Description: "One entry per expense mentioned in the paragraph.",
					},
					"totalAmount": {
						Type:        jsonschema.Number,
						Description: "Sum of all expense amounts.",
					},
					"expenseCount": {
						Type:        jsonschema.Integer,
						Description: "Number of entries in monthlyExpenses.",
					},
					"categories": {
						Type:        jsonschema.Array,
						Items:       &jsonschema.Definition{Type: jsonschema.String},
						Description: "Distinct categories present, from the allowed list.",
					},
					"timeframe": {
						Type:        jsonschema.String,
						Description: "Timeframe the paragraph covers, e.g. 'this month'.",
					},
					"insights": {
						Type:        jsonschema.Array,
						Items:       &jsonschema.Definition{Type: jsonschema.String},
						Description: "Brief factual observations about the extracted spending.",
					},
				},
				Required: []string{"monthlyExpenses", "totalAmount", "expenseCount", "categories"},
			},
		},
	}
}
