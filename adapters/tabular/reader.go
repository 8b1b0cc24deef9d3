package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"tabwise/domain/core"
)

// RawSheet is one unprocessed table of cells as read from the source file.
// Rows may be ragged; the cleaner deals with that.
type RawSheet struct {
	Name string
	Rows [][]string
}

// Reader decodes tabular file content supplied as an in-memory byte buffer.
// Nothing is ever written to persistent storage.
type Reader struct{}

// NewReader creates a reader
func NewReader() *Reader {
	return &Reader{}
}

// Read decodes the buffer into raw sheets. The filename extension selects
// the decoder: .csv is parsed as a single delimited table, everything else
// is treated as an XLSX workbook with one raw sheet per workbook sheet.
// Undecodable content fails with core.ErrUnsupportedFormat.
func (r *Reader) Read(content []byte, filename string) ([]RawSheet, error) {
	if len(content) == 0 {
		return nil, core.NewUnsupportedFormatError(filename, fmt.Errorf("empty file"))
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".csv" {
		return r.readCSV(content, filename)
	}
	return r.readWorkbook(content, filename)
}

func (r *Reader) readWorkbook(content []byte, filename string) ([]RawSheet, error) {
	start := time.Now()
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, core.NewUnsupportedFormatError(filename, err)
	}
	defer f.Close()

	var sheets []RawSheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			log.Printf("[Reader] skipping sheet %q: %v", name, err)
			continue
		}
		sheets = append(sheets, RawSheet{Name: name, Rows: rows})
	}

	if len(sheets) == 0 {
		return nil, core.NewUnsupportedFormatError(filename, fmt.Errorf("workbook has no readable sheets"))
	}

	log.Printf("[Reader] workbook %q read in %.2fms (%d sheets)",
		filename, float64(time.Since(start).Nanoseconds())/1e6, len(sheets))
	return sheets, nil
}

func (r *Reader) readCSV(content []byte, filename string) ([]RawSheet, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.NewUnsupportedFormatError(filename, err)
		}
		rows = append(rows, record)
	}

	if len(rows) == 0 {
		return nil, core.NewUnsupportedFormatError(filename, fmt.Errorf("no rows"))
	}

	log.Printf("[Reader] CSV %q read (%d rows)", filename, len(rows))
	return []RawSheet{{Name: "Sheet1", Rows: rows}}, nil
}
