// Package export renders plans and exam results as documents.
package export

import (
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/secandoalei/secando/internal/plan"
	"github.com/secandoalei/secando/internal/quiz"
)

const (
	margin       = 20.0
	planBreakY   = 250.0
	resultBreakY = 240.0
	footerText   = "Simulado gerado por IA - Secando a Lei"
)

type rgb struct{ r, g, b int }

var (
	navy      = rgb{0, 11, 26}
	white     = rgb{255, 255, 255}
	slate     = rgb{100, 116, 139}
	ink       = rgb{15, 23, 42}
	body      = rgb{51, 65, 85}
	rule      = rgb{226, 232, 240}
	badgeBg   = rgb{238, 242, 255}
	badgeFg   = rgb{79, 70, 229}
	questionB = rgb{241, 245, 249}
	good      = rgb{16, 185, 129}
	bad       = rgb{244, 63, 94}
	comment   = rgb{71, 85, 105}
	footer    = rgb{148, 163, 184}
)

// doc wraps fpdf with the cp1252 translator the core fonts need for
// Portuguese accents.
type doc struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	width float64
	y     float64
}

func newDoc(title string) *doc {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetTitle(title, true)
	pdf.SetCreator("Secando a Lei", true)
	pdf.AddPage()
	w, _ := pdf.GetPageSize()
	return &doc{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), width: w}
}

func (d *doc) content() float64 { return d.width - 2*margin }

func (d *doc) color(c rgb) { d.pdf.SetTextColor(c.r, c.g, c.b) }

func (d *doc) font(style string, size float64) { d.pdf.SetFont("Helvetica", style, size) }

// lines writes txt wrapped to the content width, each line advancing by
// step, and returns the number of lines.
func (d *doc) lines(txt string, step float64) int {
	wrapped := d.pdf.SplitLines([]byte(d.tr(txt)), d.content())
	for i, l := range wrapped {
		d.pdf.Text(margin, d.y+float64(i)*step, string(l))
	}
	return len(wrapped)
}

func (d *doc) header(subtitle string) {
	d.pdf.SetFillColor(navy.r, navy.g, navy.b)
	d.pdf.Rect(0, 0, d.width, 40, "F")
	d.color(white)
	d.font("B", 22)
	d.pdf.Text(margin, 20, "Secando a Lei")
	d.font("", 10)
	d.pdf.Text(margin, 28, d.tr(subtitle))
	d.y = 55
}

func (d *doc) hr() {
	d.pdf.SetDrawColor(rule.r, rule.g, rule.b)
	d.pdf.Line(margin, d.y, d.width-margin, d.y)
}

func (d *doc) breakPast(limit float64) {
	if d.y > limit {
		d.pdf.AddPage()
		d.y = 20
	}
}

func (d *doc) output(w io.Writer) error {
	if err := d.pdf.Error(); err != nil {
		return err
	}
	return d.pdf.Output(w)
}

// WritePlanPDF renders the study schedule.
func WritePlanPDF(w io.Writer, p *plan.Plan) error {
	d := newDoc("Cronograma - " + p.Name)
	d.header("Projeto: " + p.Name)

	d.color(navy)
	d.font("B", 18)
	n := d.lines(p.LawTitle, 8)
	d.y += float64(n)*8 + 5

	d.font("I", 12)
	d.color(slate)
	d.pdf.Text(margin, d.y, d.tr(fmt.Sprintf("Cronograma de %d dias gerado por IA", p.TotalDays)))
	d.y += 15

	d.hr()
	d.y += 15

	for _, b := range p.Blocks {
		d.breakPast(planBreakY)

		d.pdf.SetFillColor(badgeBg.r, badgeBg.g, badgeBg.b)
		d.pdf.RoundedRect(margin, d.y-5, 25, 8, 2, "1234", "F")
		d.color(badgeFg)
		d.font("B", 10)
		d.pdf.Text(margin+3, d.y+1, fmt.Sprintf("DIA %d", b.Day))
		d.y += 12

		d.color(ink)
		d.font("B", 14)
		n := d.lines(b.Title, 7)
		d.y += float64(n) * 7

		d.color(slate)
		d.font("", 10)
		d.pdf.Text(margin, d.y, d.tr(fmt.Sprintf("Grupo: %s | Foco: %s", b.GroupName(), b.Articles)))
		d.y += 8

		d.color(body)
		d.font("", 11)
		n = d.lines(b.Summary, 6)
		d.y += float64(n)*6 + 15
	}

	return d.output(w)
}

var spaces = regexp.MustCompile(`\s+`)

// PlanFilename is the suggested file name for a plan PDF.
func PlanFilename(p *plan.Plan) string {
	return "Cronograma_" + spaces.ReplaceAllString(p.Name, "_") + ".pdf"
}

// ExamResult is a finished mock exam ready for the answer sheet.
type ExamResult struct {
	Questions []quiz.Question
	Answers   map[int]int
	Elapsed   time.Duration
	Date      time.Time
}

// ResultFromExam captures a finished exam.
func ResultFromExam(e *quiz.Exam, at time.Time) ExamResult {
	return ExamResult{Questions: e.Questions, Answers: e.Answers, Elapsed: e.Elapsed, Date: at}
}

// Score counts correct answers.
func (r ExamResult) Score() int {
	n := 0
	for i, q := range r.Questions {
		if a, ok := r.Answers[i]; ok && q.IsCorrect(a) {
			n++
		}
	}
	return n
}

// WriteResultsPDF renders the commented answer sheet of a mock exam.
func WriteResultsPDF(w io.Writer, r ExamResult) error {
	d := newDoc("Gabarito Comentado do Simulado")
	d.pdf.SetFooterFunc(func() {
		d.font("", 8)
		d.color(footer)
		d.pdf.Text(margin, 285, d.tr(fmt.Sprintf("%s © %d", footerText, r.Date.Year())))
	})
	d.header("Gabarito Comentado do Simulado")

	d.color(navy)
	d.font("B", 16)
	d.pdf.Text(margin, d.y, d.tr(fmt.Sprintf("Resultado: %d de %d acertos", r.Score(), len(r.Questions))))
	d.y += 8

	d.font("", 11)
	d.color(slate)
	d.pdf.Text(margin, d.y, d.tr(fmt.Sprintf("Tempo total: %s | Data: %s", quiz.FormatElapsed(r.Elapsed), r.Date.Format("02/01/2006"))))
	d.y += 15

	d.hr()
	d.y += 15

	for i, q := range r.Questions {
		d.breakPast(resultBreakY)

		d.pdf.SetFillColor(questionB.r, questionB.g, questionB.b)
		d.pdf.Rect(margin, d.y-5, d.content(), 10, "F")
		d.color(ink)
		d.font("B", 11)
		d.pdf.Text(margin+5, d.y+2, d.tr(fmt.Sprintf("QUESTÃO %d (Foco: Dia %d)", i+1, q.BlockDay)))
		d.y += 15

		d.font("", 11)
		d.color(body)
		n := d.lines(q.Text, 6)
		d.y += float64(n)*6 + 5

		d.font("B", 11)
		answer, answered := r.Answers[i]
		status := "Sua Resposta: Não respondida"
		switch {
		case answered && q.IsCorrect(answer):
			d.color(good)
			status = "Sua Resposta: " + q.Option(answer)
		case answered:
			d.color(bad)
			status = "Sua Resposta: " + q.Option(answer)
		default:
			d.color(slate)
		}
		n = d.lines(status, 6)
		d.y += float64(n)*6 + 2

		d.color(good)
		n = d.lines("Gabarito Oficial: "+q.Option(q.Correct), 6)
		d.y += float64(n)*6 + 5

		d.color(comment)
		d.font("I", 10)
		n = d.lines("Comentário: "+q.Explanation, 5)
		d.y += float64(n)*5 + 20
	}

	return d.output(w)
}

// ResultsFilename is the suggested file name for an answer sheet.
func ResultsFilename(at time.Time) string {
	return fmt.Sprintf("Resultado_Simulado_%d.pdf", at.UnixMilli())
}
