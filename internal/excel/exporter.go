package excel

import (
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/example/levelup/internal/pool"
	"github.com/example/levelup/pkg/models"
)

// Sheet names written by ExportWeights
const (
	GridSheet    = "Weights"
	FactsSheet   = "Facts"
	ResultsSheet = "Results"
)

// ExportWeights writes the pool and the round history to an .xlsx file.
// GridSheet shows weights as a multiplication table, FactsSheet lists one
// key/weight pair per row and can be read back with ImportWeights.
func ExportWeights(p *pool.Pool, results []models.QuizResult, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", GridSheet); err != nil {
		return errors.Wrap(err, "failed to rename sheet")
	}
	if _, err := f.NewSheet(FactsSheet); err != nil {
		return errors.Wrap(err, "failed to create facts sheet")
	}
	if _, err := f.NewSheet(ResultsSheet); err != nil {
		return errors.Wrap(err, "failed to create results sheet")
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "failed to create header style")
	}

	if err := writeGrid(f, p, bold); err != nil {
		return err
	}
	if err := writeFacts(f, p, bold); err != nil {
		return err
	}
	if err := writeResults(f, results, bold); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "failed to save %s", path)
	}
	return nil
}

func writeGrid(f *excelize.File, p *pool.Pool, headerStyle int) error {
	if err := setCell(f, GridSheet, 1, 1, "×"); err != nil {
		return err
	}
	for n := models.MinOperand; n <= models.MaxOperand; n++ {
		offset := n - models.MinOperand + 2
		if err := setCell(f, GridSheet, offset, 1, n); err != nil {
			return err
		}
		if err := setCell(f, GridSheet, 1, offset, n); err != nil {
			return err
		}
	}
	for _, fact := range p.Facts() {
		col := fact.Key.B - models.MinOperand + 2
		row := fact.Key.A - models.MinOperand + 2
		if err := setCell(f, GridSheet, col, row, fact.Weight); err != nil {
			return err
		}
	}

	last, err := excelize.CoordinatesToCellName(models.MaxOperand-models.MinOperand+2, 1)
	if err != nil {
		return errors.Wrap(err, "failed to resolve header range")
	}
	if err := f.SetCellStyle(GridSheet, "A1", last, headerStyle); err != nil {
		return errors.Wrap(err, "failed to style grid header")
	}
	return nil
}

func writeFacts(f *excelize.File, p *pool.Pool, headerStyle int) error {
	if err := setRow(f, FactsSheet, 1, "fact", "weight"); err != nil {
		return err
	}
	for i, fact := range p.Facts() {
		if err := setRow(f, FactsSheet, i+2, fact.Key.String(), fact.Weight); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(FactsSheet, "A1", "B1", headerStyle); err != nil {
		return errors.Wrap(err, "failed to style facts header")
	}
	return nil
}

func writeResults(f *excelize.File, results []models.QuizResult, headerStyle int) error {
	if err := setRow(f, ResultsSheet, 1, "id", "score", "total", "started_at", "finished_at"); err != nil {
		return err
	}
	for i, r := range results {
		if err := setRow(f, ResultsSheet, i+2, r.ID, r.Score, r.Total, r.StartedAt, r.FinishedAt); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(ResultsSheet, "A1", "E1", headerStyle); err != nil {
		return errors.Wrap(err, "failed to style results header")
	}
	return f.SetColWidth(ResultsSheet, "A", "A", 38)
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	for i, v := range values {
		if err := setCell(f, sheet, i+1, row, v); err != nil {
			return err
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return errors.Wrap(err, "invalid cell coordinates")
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return errors.Wrapf(err, "failed to write %s!%s", sheet, cell)
	}
	return nil
}
