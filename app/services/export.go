package services

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/address-normalizer/app/models"
	"github.com/xuri/excelize/v2"
)

const resultSheet = "Normalized"

var resultHeaders = []string{
	"Input", "Success", "Refined Address", "Road Address", "Jibun Address",
	"Zip Code", "Building", "Mgmt No", "Strategy", "AI Corrected", "Message",
}

// ReadAddressFile đọc danh sách địa chỉ từ .xlsx (cột đầu của sheet đầu) hoặc
// file văn bản mỗi dòng một địa chỉ. Dòng trống bị bỏ qua.
func ReadAddressFile(path string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSX(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return ReadLines(f)
}

// ReadLines mỗi dòng khác rỗng là một địa chỉ
func ReadLines(r io.Reader) ([]string, error) {
	var rows []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			rows = append(rows, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return rows, nil
}

func readXLSX(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("open xlsx: no sheet in %s", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if v := strings.TrimSpace(row[0]); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

// WriteResultsFile ghi kết quả bulk: .xlsx một dòng mỗi địa chỉ, các đuôi khác là NDJSON
func WriteResultsFile(path string, inputs []string, results []*models.NormalizationResult) error {
	if len(inputs) != len(results) {
		return fmt.Errorf("write results: %d inputs but %d results", len(inputs), len(results))
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return writeXLSX(path, inputs, results)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := WriteNDJSON(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteNDJSON mỗi kết quả một dòng JSON
func WriteNDJSON(w io.Writer, results []*models.NormalizationResult) error {
	enc := json.NewEncoder(w)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	}
	return nil
}

func writeXLSX(path string, inputs []string, results []*models.NormalizationResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, header := range resultHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(resultSheet, cell, header)
		f.SetCellStyle(resultSheet, cell, cell, headerStyle)
	}

	for i, r := range results {
		if r == nil {
			r = &models.NormalizationResult{}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			inputs[i], r.Success, r.RefinedAddress, r.RoadAddress, r.LotAddress,
			r.PostalCode, r.BuildingName, r.MgmtNo, r.MatchStrategy, r.AICorrected, r.Message,
		}
		if err := f.SetSheetRow(resultSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	for i := range resultHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(resultSheet, col, col, 20)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}
