package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/moamenhredeen/oasgen/internal/models"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"go.yaml.in/yaml/v4"
)

// Format represents the output format type
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// GeneratedHeader prefixes YAML documents written by the generator.
const GeneratedHeader = "# Code generated by oasgen. DO NOT EDIT.\n"

// FileName returns the document file name for a format, e.g. openapi.yaml.
func FileName(base string, format Format) string {
	if base == "" {
		base = "openapi"
	}
	return base + "." + string(format)
}

// EncodeDocument renders doc in format to w. CSV is not a document format.
func EncodeDocument(w io.Writer, doc *v3.Document, format Format) error {
	var (
		out []byte
		err error
	)
	switch format {
	case FormatYAML:
		out, err = doc.Render()
		if err == nil {
			out = append([]byte(GeneratedHeader), out...)
		}
	case FormatJSON:
		out, err = doc.RenderJSON("  ")
	default:
		return fmt.Errorf("unsupported document format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// ExportOperations exports the operation list to the specified format
func ExportOperations(ops []models.Operation, format Format, filePath string) error {
	w, closer, err := getWriter(filePath)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	return WriteOperations(w, ops, format)
}

// WriteOperations writes the operation list to w
func WriteOperations(w io.Writer, ops []models.Operation, format Format) error {
	switch format {
	case FormatJSON:
		return exportOperationsJSON(w, ops)
	case FormatCSV:
		return exportOperationsCSV(w, ops)
	case FormatYAML:
		return exportOperationsYAML(w, ops)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// getWriter returns an io.Writer for output (stdout or file)
func getWriter(filePath string) (io.Writer, io.Closer, error) {
	if filePath == "" {
		return os.Stdout, nil, nil
	}

	f, err := os.Create(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f, nil
}

// exportOperationsJSON exports operations as JSON
func exportOperationsJSON(w io.Writer, ops []models.Operation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ops)
}

// exportOperationsYAML exports operations as YAML
func exportOperationsYAML(w io.Writer, ops []models.Operation) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ops); err != nil {
		return err
	}
	return enc.Close()
}

// exportOperationsCSV exports operations as CSV
func exportOperationsCSV(w io.Writer, ops []models.Operation) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	// Write header
	header := []string{
		"method", "path", "operation_id", "summary", "tags", "deprecated", "callback",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	// Write rows
	for _, op := range ops {
		row := []string{
			op.Method,
			op.Path,
			op.OperationID,
			op.Summary,
			strings.Join(op.Tags, ";"),
			strconv.FormatBool(op.Deprecated),
			strconv.FormatBool(op.Callback),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ParseFormat parses a string into a Format, returning error if invalid
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("invalid format '%s': must be 'yaml', 'json' or 'csv'", s)
	}
}

// ParseDocumentFormat is ParseFormat restricted to formats a document can be
// written in.
func ParseDocumentFormat(s string) (Format, error) {
	f, err := ParseFormat(s)
	if err != nil {
		return "", err
	}
	if f == FormatCSV {
		return "", fmt.Errorf("invalid document format '%s': must be 'yaml' or 'json'", s)
	}
	return f, nil
}
