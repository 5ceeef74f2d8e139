package quiz

import "github.com/secandoalei/secando/internal/llm"

func questionItem(withBlock bool) map[string]any {
	props := map[string]any{
		"id":            map[string]any{"type": "string"},
		"question":      map[string]any{"type": "string"},
		"options":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"correctAnswer": map[string]any{"type": "integer"},
		"explanation":   map[string]any{"type": "string"},
	}
	required := []any{"id", "question", "options", "correctAnswer", "explanation"}
	if withBlock {
		props["blockId"] = map[string]any{
			"type":        "integer",
			"description": "O número do dia (bloco) a que esta questão pertence",
		}
		required = append(required, "blockId")
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// QuizSchema is the response schema for block quizzes. Structured output
// APIs want an object at the root, so the array sits under "questions".
var QuizSchema = &llm.Schema{
	Name:        "block-quiz",
	Description: "Multiple-choice questions about one block of a legal text",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{"type": "array", "items": questionItem(false)},
		},
		"required": []any{"questions"},
	},
}

// MockSchema is the response schema for mock exams.
var MockSchema = &llm.Schema{
	Name:        "mock-exam",
	Description: "A mock exam mixing questions from several blocks of a legal text",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{"type": "array", "items": questionItem(true)},
		},
		"required": []any{"questions"},
	},
}
