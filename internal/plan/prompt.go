package plan

import (
	"fmt"
	"strings"
)

const systemPrompt = `Você é um especialista em concursos públicos e em "lei seca" brasileira.
Seu trabalho é transformar textos legais em cronogramas de estudo diários, equilibrados e fiéis ao texto.

Regras:
- Responda sempre em português do Brasil.
- Cada bloco cobre um trecho contínuo da lei e informa os artigos exatos em "articles".
- O resumo ("summary") deve reproduzir o conteúdo essencial dos artigos, sem inventar dispositivos.
- Use exatamente o número de dias solicitado, numerados a partir de 1.`

// buildUserMessage constructs the prompt sent after the attachments.
func buildUserMessage(req Request, textLimit int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analise o conteúdo jurídico fornecido (texto, PDF ou imagens com texto/OCR) e crie um cronograma de estudos de %d dias para o projeto %q.\n", req.Days, strings.TrimSpace(req.Name))
	b.WriteString("Se o conteúdo estiver em formato de imagem, realize o reconhecimento do texto (OCR) primeiro.\n")
	b.WriteString("Divida o conteúdo logicamente em blocos diários.\n")

	if text := strings.TrimSpace(req.Source.Text); text != "" {
		b.WriteString("Texto Adicional: ")
		b.WriteString(truncateRunes(text, textLimit))
		b.WriteString("\n")
	}

	b.WriteString(`IMPORTANTE: Atribua cada dia a um "group" (categoria lógica), como por exemplo "Parte Geral", "Dos Crimes", "Disposições Finais", etc., para que possamos organizar em abas.`)
	return b.String()
}
