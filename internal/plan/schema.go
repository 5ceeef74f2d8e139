package plan

import "github.com/secandoalei/secando/internal/llm"

// PlanSchema defines the JSON schema for plan generation responses.
var PlanSchema = &llm.Schema{
	Name:        "study-plan",
	Description: "A day-by-day study plan splitting a legal text into daily blocks",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"lawTitle": map[string]any{
				"type":        "string",
				"description": "Título da lei detectado no material",
			},
			"totalDays": map[string]any{
				"type": "integer",
			},
			"blocks": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"day":      map[string]any{"type": "integer"},
						"title":    map[string]any{"type": "string"},
						"articles": map[string]any{"type": "string"},
						"summary":  map[string]any{"type": "string"},
						"group": map[string]any{
							"type":        "string",
							"description": "Nome da categoria/aba do estudo",
						},
					},
					"required": []any{"day", "title", "articles", "summary", "group"},
				},
			},
		},
		"required": []any{"lawTitle", "totalDays", "blocks"},
	},
}
