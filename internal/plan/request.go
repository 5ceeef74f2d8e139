package plan

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidRequest is returned for a plan request missing its name,
// material or a valid day count. Its message is shown to the user as is.
var ErrInvalidRequest = errors.New("Por favor, preencha o nome do projeto e forneça um texto, PDF ou imagem da lei.")

// MinDays and MaxDays bound the plan length.
const (
	MinDays = 1
	MaxDays = 60
)

var requestValidate *validator.Validate

func init() {
	requestValidate = validator.New()
	requestValidate.RegisterStructValidation(func(sl validator.StructLevel) {
		src := sl.Current().Interface().(Source)
		if src.Empty() {
			sl.ReportError(src.Text, "Text", "text", "material", "")
		}
	}, Source{})
}

type requestRules struct {
	Name   string `validate:"required,max=120"`
	Days   int    `validate:"gte=1"`
	Source Source
}

// ValidateRequest checks a request against the limits. maxDays <= 0 means
// the package default.
func ValidateRequest(req Request, maxDays int) error {
	if maxDays <= 0 {
		maxDays = MaxDays
	}
	rules := requestRules{
		Name:   strings.TrimSpace(req.Name),
		Days:   req.Days,
		Source: req.Source,
	}
	if err := requestValidate.Struct(rules); err != nil {
		return ErrInvalidRequest
	}
	if req.Days > maxDays {
		return ErrInvalidRequest
	}
	return nil
}

func trimmedLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

// truncateRunes cuts s to at most n characters.
func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
