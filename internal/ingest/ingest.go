// Package ingest parses uploaded dataset files into corpus record inputs.
// Supported formats: JSON array, JSON lines, CSV, and XLSX. Field-name aliases
// (question/answer, complaint_text/response_text, ...) are resolved here so the
// corpus store only ever sees query/response pairs.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ishaandev07/WebDevDynamics/internal/models"
)

// Column aliases seen across customer dataset exports, in resolution order.
var (
	queryAliases    = []string{"query", "question", "input", "complaint", "complaint_text", "customer_query", "prompt"}
	responseAliases = []string{"response", "answer", "output", "response_text", "agent_response", "completion", "reply"}
)

// ErrUnsupportedFormat is returned for file extensions ingest cannot parse.
var ErrUnsupportedFormat = fmt.Errorf("unsupported dataset format")

// ParseDataset parses r into record inputs based on the file's extension
// (.json, .jsonl, .csv, .xlsx). Rows missing a query or response are skipped;
// callers learn the accepted count from the corpus store.
func ParseDataset(filename string, r io.Reader) ([]models.RecordInput, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return ParseJSON(r)
	case ".jsonl", ".ndjson":
		return ParseJSONLines(r)
	case ".csv":
		return ParseCSV(r)
	case ".xlsx":
		return ParseXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// ParseJSON parses a JSON array of row objects. A single object is accepted as
// a one-row dataset.
func ParseJSON(r io.Reader) ([]models.RecordInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)

	var rows []map[string]json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		var single map[string]json.RawMessage
		if err2 := json.Unmarshal(data, &single); err2 != nil {
			return nil, fmt.Errorf("failed to parse JSON dataset: %w", err)
		}
		rows = []map[string]json.RawMessage{single}
	}

	var inputs []models.RecordInput
	for _, row := range rows {
		if in, ok := resolveRow(row); ok {
			inputs = append(inputs, in)
		}
	}
	return inputs, nil
}

// ParseJSONLines parses newline-delimited JSON objects. Blank lines are
// skipped; a malformed line drops that row only.
func ParseJSONLines(r io.Reader) ([]models.RecordInput, error) {
	var inputs []models.RecordInput
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var row map[string]json.RawMessage
		if err := json.Unmarshal(line, &row); err != nil {
			continue
		}
		if in, ok := resolveRow(row); ok {
			inputs = append(inputs, in)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return inputs, nil
}

// ParseCSV parses a CSV with a header row naming the columns.
func ParseCSV(r io.Reader) ([]models.RecordInput, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	queryCol, responseCol, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var inputs []models.RecordInput
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if queryCol >= len(row) || responseCol >= len(row) {
			continue
		}
		inputs = append(inputs, models.RecordInput{
			Query:    strings.TrimSpace(row[queryCol]),
			Response: strings.TrimSpace(row[responseCol]),
		})
	}
	return inputs, nil
}

// ParseXLSX parses the first sheet of an XLSX workbook; row 1 is the header.
func ParseXLSX(r io.Reader) ([]models.RecordInput, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	queryCol, responseCol, err := resolveColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var inputs []models.RecordInput
	for _, row := range rows[1:] {
		if queryCol >= len(row) || responseCol >= len(row) {
			continue
		}
		inputs = append(inputs, models.RecordInput{
			Query:    strings.TrimSpace(row[queryCol]),
			Response: strings.TrimSpace(row[responseCol]),
		})
	}
	return inputs, nil
}

// resolveColumns maps a header row to (query, response) column positions.
func resolveColumns(header []string) (int, int, error) {
	norm := make([]string, len(header))
	for i, h := range header {
		norm[i] = strings.ToLower(strings.TrimSpace(h))
	}
	queryCol, responseCol := -1, -1
	for _, alias := range queryAliases {
		for i, h := range norm {
			if h == alias {
				queryCol = i
				break
			}
		}
		if queryCol >= 0 {
			break
		}
	}
	for _, alias := range responseAliases {
		for i, h := range norm {
			if h == alias {
				responseCol = i
				break
			}
		}
		if responseCol >= 0 {
			break
		}
	}
	if queryCol < 0 || responseCol < 0 {
		return 0, 0, fmt.Errorf("no query/response columns in header %v", header)
	}
	return queryCol, responseCol, nil
}

// resolveRow extracts a query/response pair from one JSON row, trying field
// aliases and then the chat-transcript shape {"messages": [{role, content}...]}.
func resolveRow(row map[string]json.RawMessage) (models.RecordInput, bool) {
	query := stringField(row, queryAliases)
	response := stringField(row, responseAliases)
	if query != "" && response != "" {
		return models.RecordInput{Query: query, Response: response}, true
	}

	if raw, ok := row["messages"]; ok {
		var messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		}
		if err := json.Unmarshal(raw, &messages); err == nil {
			var user, assistant string
			for _, m := range messages {
				switch m.Role {
				case "user":
					if user == "" {
						user = strings.TrimSpace(m.Content)
					}
				case "assistant":
					if user != "" && assistant == "" {
						assistant = strings.TrimSpace(m.Content)
					}
				}
			}
			if user != "" && assistant != "" {
				return models.RecordInput{Query: user, Response: assistant}, true
			}
		}
	}
	return models.RecordInput{}, false
}

func stringField(row map[string]json.RawMessage, aliases []string) string {
	for _, alias := range aliases {
		raw, ok := row[alias]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
