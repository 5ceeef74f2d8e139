package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/secandoalei/secando/internal/plan"
)

const planSheet = "Cronograma"

var planHeader = []any{"Dia", "Grupo", "Título", "Artigos", "Resumo", "Concluído"}

// PlanXLSXFilename is the suggested file name for a plan spreadsheet.
func PlanXLSXFilename(p *plan.Plan) string {
	return "Cronograma_" + spaces.ReplaceAllString(p.Name, "_") + ".xlsx"
}

// WritePlanXLSX writes the plan as a spreadsheet with one row per block.
func WritePlanXLSX(w io.Writer, p *plan.Plan) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), planSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(planSheet, "A1", &planHeader); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"000B1A"}},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(planSheet, "A1", "F1", headerStyle); err != nil {
		return err
	}

	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return err
	}

	for i, b := range p.Blocks {
		row := i + 2
		done := "Não"
		if p.IsCompleted(b.Day) {
			done = "Sim"
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := []any{b.Day, b.GroupName(), b.Title, b.Articles, b.Summary, done}
		if err := f.SetSheetRow(planSheet, cell, &values); err != nil {
			return err
		}
	}
	if len(p.Blocks) > 0 {
		last := fmt.Sprintf("E%d", len(p.Blocks)+1)
		if err := f.SetCellStyle(planSheet, "A2", last, wrap); err != nil {
			return err
		}
	}

	widths := map[string]float64{"A": 6, "B": 20, "C": 36, "D": 22, "E": 80, "F": 11}
	for col, wd := range widths {
		if err := f.SetColWidth(planSheet, col, col, wd); err != nil {
			return err
		}
	}
	if err := f.SetPanes(planSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	return f.Write(w)
}

// ReadPlanXLSX reads blocks and completed days back from a spreadsheet in
// the WritePlanXLSX layout. Rows without a numeric day are skipped.
func ReadPlanXLSX(r io.Reader) ([]plan.Block, []int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(planSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read rows: %w", err)
	}

	var (
		blocks    []plan.Block
		completed []int
	)
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		day, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			continue
		}
		col := func(n int) string {
			if n < len(row) {
				return strings.TrimSpace(row[n])
			}
			return ""
		}
		blocks = append(blocks, plan.Block{
			Day:      day,
			Group:    col(1),
			Title:    col(2),
			Articles: col(3),
			Summary:  col(4),
		})
		if strings.EqualFold(col(5), "Sim") {
			completed = append(completed, day)
		}
	}
	return blocks, completed, nil
}
