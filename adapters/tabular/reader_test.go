package tabular

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"tabwise/domain/core"
)

func TestRead_CSV(t *testing.T) {
	content := []byte("name,amount\nalice,10\nbob,20\n")

	sheets, err := NewReader().Read(content, "data.csv")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if len(sheets) != 1 {
		t.Fatalf("sheets = %d, want 1", len(sheets))
	}
	if sheets[0].Name != "Sheet1" {
		t.Errorf("Name = %q, want Sheet1", sheets[0].Name)
	}
	if len(sheets[0].Rows) != 3 {
		t.Errorf("Rows = %d, want 3", len(sheets[0].Rows))
	}
	if sheets[0].Rows[1][0] != "alice" {
		t.Errorf("Rows[1][0] = %q", sheets[0].Rows[1][0])
	}
}

func TestRead_CSVQuotedAndRagged(t *testing.T) {
	content := []byte("a,b\n\"x, y\",1\nonly\n")

	sheets, err := NewReader().Read(content, "data.csv")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	rows := sheets[0].Rows
	if rows[1][0] != "x, y" {
		t.Errorf("quoted cell = %q, want %q", rows[1][0], "x, y")
	}
	if len(rows[2]) != 1 {
		t.Errorf("ragged row width = %d, want 1", len(rows[2]))
	}
}

func TestRead_XLSX(t *testing.T) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", "Ventas")
	f.SetCellValue("Ventas", "A1", "mes")
	f.SetCellValue("Ventas", "B1", "ingreso")
	f.SetCellValue("Ventas", "A2", "enero")
	f.SetCellValue("Ventas", "B2", 1200)

	f.NewSheet("Costs")
	f.SetCellValue("Costs", "A1", "item")
	f.SetCellValue("Costs", "A2", "hosting")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("building workbook: %v", err)
	}

	sheets, err := NewReader().Read(buf.Bytes(), "report.xlsx")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if len(sheets) != 2 {
		t.Fatalf("sheets = %d, want 2", len(sheets))
	}
	if sheets[0].Name != "Ventas" || sheets[1].Name != "Costs" {
		t.Errorf("sheet names = %q, %q", sheets[0].Name, sheets[1].Name)
	}
	if sheets[0].Rows[0][0] != "mes" {
		t.Errorf("header cell = %q, want mes", sheets[0].Rows[0][0])
	}
	if sheets[0].Rows[1][1] != "1200" {
		t.Errorf("value cell = %q, want 1200", sheets[0].Rows[1][1])
	}
}

func TestRead_UnsupportedContent(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		filename string
	}{
		{"empty buffer", nil, "data.csv"},
		{"garbage workbook", []byte("this is not a workbook"), "data.xlsx"},
		{"empty csv", []byte(""), "data.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader().Read(tt.content, tt.filename)
			if !errors.Is(err, core.ErrUnsupportedFormat) {
				t.Errorf("err = %v, want ErrUnsupportedFormat", err)
			}
		})
	}
}
