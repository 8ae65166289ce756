package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/example/levelup/internal/pool"
	"github.com/example/levelup/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath     string // Path to the Excel or CSV file
	KeyColumn    string // Column with the fact key, e.g. "7x8"
	WeightColumn string // Column with the weight
	SheetName    string // Name of the sheet to import
	StartRow     int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration, matching
// the Facts sheet written by ExportWeights
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		KeyColumn:    "A",
		WeightColumn: "B",
		SheetName:    FactsSheet,
		StartRow:     2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Updated        int
	Skipped        int
	Errors         []string
}

// ImportWeights reads fact weights from an Excel or CSV file into the pool.
// Rows that cannot be parsed are skipped and reported in the result.
func ImportWeights(config ImportConfig, p *pool.Pool) (*ImportResult, error) {
	keyIdx := columnToIndex(config.KeyColumn)
	if keyIdx < 0 {
		return nil, errors.Errorf("invalid key column %q", config.KeyColumn)
	}
	weightIdx := columnToIndex(config.WeightColumn)
	if weightIdx < 0 {
		return nil, errors.Errorf("invalid weight column %q", config.WeightColumn)
	}

	var (
		rows [][]string
		err  error
	)
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}

	for i, row := range rows {
		rowNum := i + 1
		if rowNum < config.StartRow {
			continue
		}
		if isBlank(row) {
			continue
		}
		result.TotalProcessed++

		if err := processRow(row, keyIdx, weightIdx, p); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		result.Updated++
	}

	return result, nil
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get rows from sheet %s", sheet)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "error reading CSV")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// processRow applies a single key/weight row to the pool
func processRow(row []string, keyIdx, weightIdx int, p *pool.Pool) error {
	if keyIdx >= len(row) || weightIdx >= len(row) {
		return fmt.Errorf("missing columns")
	}

	key, err := models.ParseFactKey(row[keyIdx])
	if err != nil {
		return err
	}
	weight, err := parseIntInRange(row[weightIdx], pool.MinWeight, pool.MaxWeight)
	if err != nil {
		return fmt.Errorf("invalid weight %q", row[weightIdx])
	}

	p.SetWeight(key, weight)
	return nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Helper function to convert Excel column letter to index.
// Returns -1 unless column is one or more letters.
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	if column == "" {
		return -1
	}
	index := 0
	for i := 0; i < len(column); i++ {
		c := column[i]
		if c < 'A' || c > 'Z' {
			return -1
		}
		index = index*26 + int(c-'A'+1)
	}
	return index - 1
}

// Helper function to parse integer within a range, clamping out-of-range values
func parseIntInRange(s string, min, max int) (int, error) {
	val, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return min, err
	}
	if val < min {
		return min, nil
	}
	if val > max {
		return max, nil
	}
	return val, nil
}
