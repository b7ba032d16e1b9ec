package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

var errNoTables = errors.New("export needs at least one table")

// Table is one worksheet: a header row followed by data rows.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]any
}

// WriteXLSX renders each table on its own sheet, in order, and writes the workbook to w.
func WriteXLSX(w io.Writer, tables ...Table) error {
	if len(tables) == 0 {
		return errNoTables
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	for i, table := range tables {
		if table.Sheet == "" {
			return fmt.Errorf("table %d has no sheet name", i)
		}
		if i == 0 {
			if err := xl.SetSheetName(defaultSheet, table.Sheet); err != nil {
				return fmt.Errorf("name sheet %q: %w", table.Sheet, err)
			}
		} else if _, err := xl.NewSheet(table.Sheet); err != nil {
			return fmt.Errorf("create sheet %q: %w", table.Sheet, err)
		}
		if err := writeTable(xl, table); err != nil {
			return err
		}
	}

	xl.SetActiveSheet(0)
	if _, err := xl.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeTable(xl *excelize.File, table Table) error {
	header := make([]any, len(table.Headers))
	for i, h := range table.Headers {
		header[i] = h
	}
	if err := xl.SetSheetRow(table.Sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", table.Sheet, err)
	}
	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := xl.SetSheetRow(table.Sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", table.Sheet, i+1, err)
		}
	}
	return nil
}
