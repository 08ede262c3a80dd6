// Package enrich implements the store-code to email reference join. The
// contract is exact-match on the store code string with a fixed sentinel on
// miss, so callers can wire the join in without null handling of their own.
package enrich

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

// NoEmailSentinel is attached when a store code has no reference entry.
const NoEmailSentinel = "NO EMAIL"

// Table is the immutable store-code → email reference.
type Table struct {
	emails map[string]string
}

type entry struct {
	StoreCode string `csv:"store_code"`
	Email     string `csv:"email"`
}

// NewTable builds a table from an in-memory mapping (used by tests and by
// callers with their own source format).
func NewTable(emails map[string]string) *Table {
	m := make(map[string]string, len(emails))
	for k, v := range emails {
		m[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return &Table{emails: m}
}

// Load reads the reference table, dispatching on file extension.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store email table: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(f)
	default:
		return ReadCSV(f)
	}
}

// ReadCSV reads a table with store_code and email header columns.
func ReadCSV(r io.Reader) (*Table, error) {
	var entries []entry
	if err := gocsv.Unmarshal(r, &entries); err != nil {
		return nil, fmt.Errorf("parse store email csv: %w", err)
	}

	emails := make(map[string]string, len(entries))
	for _, e := range entries {
		code := strings.TrimSpace(e.StoreCode)
		if code == "" {
			continue
		}
		if _, seen := emails[code]; !seen {
			emails[code] = strings.TrimSpace(e.Email)
		}
	}
	return &Table{emails: emails}, nil
}

// ReadXLSX reads a table from the first sheet of a workbook; the header row
// must carry store_code and email columns (matched case-insensitively).
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open store email workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("store email workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return NewTable(nil), nil
	}

	codeCol, emailCol := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "store_code":
			if codeCol < 0 {
				codeCol = i
			}
		case "email":
			if emailCol < 0 {
				emailCol = i
			}
		}
	}
	if codeCol < 0 || emailCol < 0 {
		return nil, fmt.Errorf("store email workbook missing store_code/email columns")
	}

	cell := func(row []string, col int) string {
		if col >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[col])
	}

	emails := make(map[string]string, len(rows)-1)
	for _, row := range rows[1:] {
		code := cell(row, codeCol)
		if code == "" {
			continue
		}
		if _, seen := emails[code]; !seen {
			emails[code] = cell(row, emailCol)
		}
	}
	return &Table{emails: emails}, nil
}

// Lookup returns the email for an exact store code match.
func (t *Table) Lookup(code string) (string, bool) {
	email, ok := t.emails[code]
	return email, ok
}

// EmailFor returns the matched email or the no-email sentinel. The code is
// compared exactly as extracted; no numeric coercion happens here.
func (t *Table) EmailFor(code string) string {
	if email, ok := t.emails[code]; ok && email != "" {
		return email
	}
	return NoEmailSentinel
}

// Len returns the number of configured store codes.
func (t *Table) Len() int { return len(t.emails) }
