package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

// ReadTable reads a delimited or Excel file. Files ending in .xlsx are read
// from their first sheet; anything else is parsed as delimited text.
func ReadTable(path, name string, delimiter rune) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s table: %w", name, err)
	}
	defer f.Close()

	return ReadTableFrom(f, filepath.Base(path), name, delimiter)
}

// ReadTableFrom reads a table from r. filename only selects the format.
func ReadTableFrom(r io.Reader, filename, name string, delimiter rune) (*RawTable, error) {
	var (
		rows  [][]string
		lines []int
		err   error
	)
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		rows, lines, err = readXLSX(r)
	} else {
		rows, lines, err = readDelimited(r, delimiter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s table: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s table is empty", name)
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = NormalizeColumnName(h)
	}

	return &RawTable{
		Name:   name,
		Header: header,
		Rows:   rows[1:],
		Lines:  lines[1:],
	}, nil
}

func readDelimited(r io.Reader, delimiter rune) ([][]string, []int, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	var (
		rows  [][]string
		lines []int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, record)
		lines = append(lines, line)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], utf8BOM)
	}
	return rows, lines, nil
}

func readXLSX(r io.Reader) ([][]string, []int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	// blank rows are skipped like blank lines in delimited text
	var (
		rows  [][]string
		lines []int
	)
	for i, row := range all {
		if len(row) == 0 {
			continue
		}
		rows = append(rows, row)
		lines = append(lines, i+1)
	}
	return rows, lines, nil
}

// WriteCSV writes the table with its normalized header
func (t *RawTable) WriteCSV(w io.Writer, delimiter rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delimiter

	if err := writer.Write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
