package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadFromFile loads the transaction ledger from a CSV or XLSX file.
// The ledger is required at startup; a missing file is a fatal error.
func LoadFromFile(path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("ledger file not found: %s: %w", path, err)
	}

	var (
		table *Table
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		table, err = loadCSV(path)
	case ".xlsx":
		table, err = loadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported ledger format: %s (use .csv or .xlsx)", path)
	}
	if err != nil {
		return nil, err
	}

	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ledger %s: %w", path, err)
	}

	slog.Info("Loaded transaction ledger", "path", path, "transactions", table.Len())
	return table, nil
}

func loadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger header: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []Transaction
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read ledger row %d: %w", line, err)
		}
		line++

		tx, err := rowToTransaction(row, index, line)
		if err != nil {
			return nil, err
		}
		records = append(records, tx)
	}

	return NewTable(records), nil
}

func loadXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("ledger sheet %s is empty", sheet)
	}

	index, err := columnIndex(rows[0])
	if err != nil {
		return nil, err
	}

	var records []Transaction
	for i, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		// excelize drops trailing empty cells; pad to header width.
		for len(row) < len(rows[0]) {
			row = append(row, "")
		}
		tx, err := rowToTransaction(row, index, i+2)
		if err != nil {
			return nil, err
		}
		records = append(records, tx)
	}

	return NewTable(records), nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.ToLower(name))] = i
	}

	for _, required := range RequiredColumns {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("ledger is missing required column %q", required)
		}
	}
	return index, nil
}

func rowToTransaction(row []string, index map[string]int, line int) (Transaction, error) {
	field := func(name string) string {
		i := index[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rawAmount := field("valor")
	amount, err := strconv.ParseFloat(rawAmount, 64)
	if err != nil {
		return Transaction{}, fmt.Errorf("ledger row %d: invalid amount %q: %w", line, rawAmount, err)
	}

	return Transaction{
		ID:          field("id_transacao"),
		Date:        field("data"),
		Employee:    field("funcionario"),
		Role:        field("cargo"),
		Description: field("descricao"),
		Amount:      amount,
		Category:    field("categoria"),
		Department:  field("departamento"),
	}, nil
}
