package output

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/moamenhredeen/oasgen/internal/models"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"github.com/pb33f/libopenapi/orderedmap"
)

func sampleDocument() *v3.Document {
	paths := orderedmap.New[string, *v3.PathItem]()
	responses := &v3.Responses{Default: &v3.Response{Description: "default"}}
	paths.Set("/pets", &v3.PathItem{Get: &v3.Operation{OperationId: "listPets", Responses: responses}})
	return &v3.Document{
		Version: "3.0.1",
		Info:    &base.Info{Title: "Pets", Version: "1.0.0"},
		Paths:   &v3.Paths{PathItems: paths},
	}
}

func sampleOperations() []models.Operation {
	return []models.Operation{
		{Method: "GET", Path: "/pets", OperationID: "listPets", Tags: []string{"pets", "read"}},
		{Method: "POST", Path: "/pets", OperationID: "createPets", Tags: []string{}, Deprecated: true},
	}
}

func TestEncodeDocumentYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeDocument(&buf, sampleDocument(), FormatYAML); err != nil {
		t.Fatalf("EncodeDocument failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, GeneratedHeader) {
		t.Errorf("YAML output misses the generated header")
	}
	for _, want := range []string{"openapi: 3.0.1", "listPets", "/pets"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML output misses %q:\n%s", want, out)
		}
	}
}

func TestEncodeDocumentJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeDocument(&buf, sampleDocument(), FormatJSON); err != nil {
		t.Fatalf("EncodeDocument failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["openapi"] != "3.0.1" {
		t.Errorf("unexpected openapi version %v", decoded["openapi"])
	}
}

func TestEncodeDocumentRejectsCSV(t *testing.T) {
	if err := EncodeDocument(&bytes.Buffer{}, sampleDocument(), FormatCSV); err == nil {
		t.Error("expected an error for csv")
	}
}

func TestWriteOperationsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOperations(&buf, sampleOperations(), FormatCSV); err != nil {
		t.Fatalf("WriteOperations failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "method,path,operation_id,summary,tags,deprecated,callback" {
		t.Errorf("unexpected header %s", lines[0])
	}
	if lines[1] != "GET,/pets,listPets,,pets;read,false,false" {
		t.Errorf("unexpected row %s", lines[1])
	}
}

func TestWriteOperationsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOperations(&buf, sampleOperations(), FormatJSON); err != nil {
		t.Fatalf("WriteOperations failed: %v", err)
	}
	var decoded []models.Operation
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(decoded) != 2 || !decoded[1].Deprecated {
		t.Errorf("unexpected decoded operations %+v", decoded)
	}
}

func TestWriteOperationsYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOperations(&buf, sampleOperations(), FormatYAML); err != nil {
		t.Fatalf("WriteOperations failed: %v", err)
	}
	if !strings.Contains(buf.String(), "operation_id: createPets") {
		t.Errorf("unexpected YAML:\n%s", buf.String())
	}
}

func TestExportOperationsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.csv")
	if err := ExportOperations(sampleOperations(), FormatCSV, path); err != nil {
		t.Fatalf("ExportOperations failed: %v", err)
	}
	if err := ExportOperations(sampleOperations(), FormatCSV, filepath.Join(t.TempDir(), "missing", "ops.csv")); err == nil {
		t.Error("expected an error for an unwritable path")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"yaml", FormatYAML, false},
		{"YML", FormatYAML, false},
		{"json", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
	if _, err := ParseDocumentFormat("csv"); err == nil {
		t.Error("csv accepted as document format")
	}
	if FileName("", FormatJSON) != "openapi.json" {
		t.Errorf("unexpected file name %s", FileName("", FormatJSON))
	}
}
