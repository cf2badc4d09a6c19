package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/agentscape/pkg/errors"
)

// Format is a dataset serialization.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat resolves a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported dataset format %q (must be csv, json, or yaml)", s)
}

// DetectFormat picks a format from the extension of path.
func DetectFormat(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// ReadFile reads and parses the dataset at path, detecting the format from
// its extension.
func ReadFile(path string) ([]Record, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s not found", path)
		}
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Read(f, format)
}

// Parse parses data in the given format.
func Parse(data []byte, format Format) ([]Record, error) {
	return Read(bytes.NewReader(data), format)
}

// Read parses r in the given format.
func Read(r io.Reader, format Format) ([]Record, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported dataset format %q", format)
}

// ReadJSON parses a JSON array of records.
func ReadJSON(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "invalid JSON dataset")
	}
	return records, nil
}

// ReadYAML parses a YAML sequence of records.
func ReadYAML(r io.Reader) ([]Record, error) {
	var records []Record
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "invalid YAML dataset")
	}
	return records, nil
}

// csvColumns maps header names to record setters.
var csvColumns = map[string]func(*Record, string) error{
	"name":                         func(r *Record, v string) error { r.Name = v; return nil },
	"category":                     func(r *Record, v string) error { r.Category = v; return nil },
	"description":                  func(r *Record, v string) error { r.Description = v; return nil },
	"url":                          func(r *Record, v string) error { r.URL = v; return nil },
	"logo_url":                     func(r *Record, v string) error { r.LogoURL = v; return nil },
	"code_level":                   floatColumn(func(r *Record) **float64 { return &r.CodeLevel }),
	"complexity":                   floatColumn(func(r *Record) **float64 { return &r.Complexity }),
	"learning_curve":               floatColumn(func(r *Record) **float64 { return &r.LearningCurve }),
	"code_level_justification":     func(r *Record, v string) error { r.CodeLevelJustification = v; return nil },
	"complexity_justification":     func(r *Record, v string) error { r.ComplexityJustification = v; return nil },
	"learning_curve_justification": func(r *Record, v string) error { r.LearningCurveJustification = v; return nil },
}

func floatColumn(field func(*Record) **float64) func(*Record, string) error {
	return func(r *Record, v string) error {
		if v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", v)
		}
		if math.IsNaN(f) {
			return nil
		}
		*field(r) = &f
		return nil
	}
}

// ReadCSV parses CSV with a header row. Header names are matched
// case-insensitively; a "name" column is required. Blank lines are skipped
// and rows may have fewer cells than the header.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "invalid CSV header")
	}

	setters := make([]func(*Record, string) error, len(header))
	names := make([]string, len(header))
	hasName := false
	for i, h := range header {
		col := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		names[i] = col
		setters[i] = csvColumns[col]
		hasName = hasName || col == "name"
	}
	if !hasName {
		return nil, errors.New(errors.ErrCodeInvalidDataset, "CSV header has no name column")
	}

	var records []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "invalid CSV row")
		}
		if blank(row) {
			continue
		}
		var rec Record
		for i, cell := range row {
			if i >= len(setters) || setters[i] == nil {
				continue
			}
			if err := setters[i](&rec, strings.TrimSpace(cell)); err != nil {
				line, _ := cr.FieldPos(i)
				return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "line %d, column %s", line, names[i])
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
