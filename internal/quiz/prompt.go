package quiz

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/secandoalei/secando/internal/plan"
)

const systemPrompt = `Você é uma banca examinadora de concursos públicos brasileiros (FCC, CESPE, VUNESP).
Escreva questões de múltipla escolha fiéis à "letra da lei".

Regras:
- Responda em português do Brasil.
- Cada questão tem de 4 a 5 alternativas e exatamente uma correta.
- "correctAnswer" é o índice (começando em 0) da alternativa correta.
- A explicação cita o dispositivo legal que justifica o gabarito.`

func buildQuizMessage(b plan.Block, count int) string {
	text := b.Summary
	if strings.TrimSpace(text) == "" {
		text = fmt.Sprintf("%s (%s)", b.Title, b.Articles)
	}
	return fmt.Sprintf(
		"Com base neste resumo/texto de lei: %q, gere EXATAMENTE %d questões de múltipla escolha inéditas no estilo de concursos públicos de alto nível (ex: FCC, CESPE, VUNESP). "+
			`Foque na "letra da lei". As questões devem ser desafiadoras e cobrir diferentes partes do texto fornecido.`,
		text, count)
}

// mockContext renders the selected blocks as "Dia N (title): summary"
// paragraphs, cut to limit characters.
func mockContext(blocks []plan.Block, limit int) string {
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = fmt.Sprintf("Dia %d (%s): %s", b.Day, b.Title, b.Summary)
	}
	ctx := strings.Join(parts, "\n\n")
	if limit > 0 && utf8.RuneCountInString(ctx) > limit {
		ctx = string([]rune(ctx)[:limit])
	}
	return ctx
}

func buildMockMessage(blocks []plan.Block, count, limit int) string {
	return fmt.Sprintf(
		"Com base nos seguintes tópicos de lei, gere um simulado completo de %d questões inéditas. "+
			"Distribua as questões entre os tópicos fornecidos. Informe em \"blockId\" o número do dia de cada questão.\n"+
			"Contexto: %s",
		count, mockContext(blocks, limit))
}
