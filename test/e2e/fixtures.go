// Package e2e provides end-to-end tests; this file renders query/response
// pairs into the dataset formats the ingestion layer accepts.
package e2e

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ishaandev07/WebDevDynamics/internal/models"
)

// DatasetExtensions lists the upload formats exercised by the E2E and
// integration suites. The ingestion layer also accepts .ndjson, which shares
// the .jsonl code path.
var DatasetExtensions = []string{".json", ".jsonl", ".csv", ".xlsx"}

// RenderDataset serializes pairs into the format implied by ext.
func RenderDataset(ext string, pairs []models.RecordInput) ([]byte, error) {
	switch ext {
	case ".json":
		return json.Marshal(pairs)
	case ".jsonl", ".ndjson":
		return renderJSONLines(pairs)
	case ".csv":
		return renderCSV(pairs)
	case ".xlsx":
		return renderXLSX(pairs)
	default:
		return nil, fmt.Errorf("no fixture renderer for %q", ext)
	}
}

func renderJSONLines(pairs []models.RecordInput) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, p := range pairs {
		if err := enc.Encode(p); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func renderCSV(pairs []models.RecordInput) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"query", "response"}); err != nil {
		return nil, err
	}
	for _, p := range pairs {
		if err := w.Write([]string{p.Query, p.Response}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func renderXLSX(pairs []models.RecordInput) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]string{"query", "response"}); err != nil {
		return nil, err
	}
	for i, p := range pairs {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &[]string{p.Query, p.Response}); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
