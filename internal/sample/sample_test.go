package sample

import (
	"encoding/json"
	"testing"

	"github.com/moamenhredeen/oasgen/internal/parser"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	"github.com/pb33f/libopenapi/orderedmap"
)

func TestValueScalars(t *testing.T) {
	tests := []struct {
		name   string
		schema *base.Schema
		want   any
	}{
		{"string", &base.Schema{Type: []string{"string"}}, "string"},
		{"uuid", &base.Schema{Type: []string{"string"}, Format: "uuid"}, "123e4567-e89b-12d3-a456-426614174000"},
		{"date", &base.Schema{Type: []string{"string"}, Format: "date"}, "2026-01-01"},
		{"integer", &base.Schema{Type: []string{"integer"}, Format: "int32"}, int64(0)},
		{"boolean", &base.Schema{Type: []string{"boolean"}}, true},
		{"format only", &base.Schema{Format: "email"}, "user@example.com"},
		{"untyped", &base.Schema{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Value(tt.schema)
			if err != nil {
				t.Fatalf("Value failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if _, err := Value(nil); err == nil {
		t.Error("expected an error for a nil schema")
	}
}

const doc = `openapi: 3.0.1
info:
  title: Samples
  version: 1.0.0
paths:
  /pets:
    post:
      operationId: createPet
      requestBody:
        content:
          text/plain:
            schema:
              type: string
          application/json:
            schema:
              $ref: "#/components/schemas/Pet"
      responses:
        "201":
          description: created
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: "#/components/schemas/Pet"
    get:
      operationId: listPets
      responses:
        default:
          description: default
          content:
            text/plain:
              example: all pets
components:
  schemas:
    Pet:
      type: object
      properties:
        id:
          type: integer
          format: int64
        name:
          type: string
          example: Rex
        status:
          type: string
          enum: [available, sold]
        born:
          type: string
          format: date
`

func TestRequestAndResponseBodies(t *testing.T) {
	p, err := parser.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	post, err := p.GetOperationDetails("/pets", "POST")
	if err != nil {
		t.Fatalf("GetOperationDetails failed: %v", err)
	}
	body, err := RequestBody(post.RequestBody)
	if err != nil {
		t.Fatalf("RequestBody failed: %v", err)
	}
	if body.MediaType != "application/json" {
		t.Errorf("expected the json media type to be preferred, got %s", body.MediaType)
	}
	var pet map[string]any
	if err := json.Unmarshal(body.Data, &pet); err != nil {
		t.Fatalf("example is not json: %v", err)
	}
	if pet["name"] != "Rex" || pet["status"] != "available" || pet["born"] != "2026-01-01" || pet["id"] != float64(0) {
		t.Errorf("unexpected example %v", pet)
	}

	resp, err := Response(post.Responses)
	if err != nil {
		t.Fatalf("Response failed: %v", err)
	}
	var pets []map[string]any
	if err := json.Unmarshal(resp.Data, &pets); err != nil || len(pets) != 1 {
		t.Errorf("expected a one element array, got %s", resp.Data)
	}

	get, err := p.GetOperationDetails("/pets", "GET")
	if err != nil {
		t.Fatalf("GetOperationDetails failed: %v", err)
	}
	if _, err := RequestBody(get.RequestBody); err == nil {
		t.Error("expected an error for a missing request body")
	}
	resp, err = Response(get.Responses)
	if err != nil {
		t.Fatalf("Response failed: %v", err)
	}
	if resp.MediaType != "text/plain" || string(resp.Data) != "all pets" {
		t.Errorf("unexpected default response example %s %q", resp.MediaType, resp.Data)
	}
}

func TestRecursiveSchemaTerminates(t *testing.T) {
	node := &base.Schema{Type: []string{"object"}, Properties: orderedmap.New[string, *base.SchemaProxy]()}
	node.Properties.Set("next", base.CreateSchemaProxy(node))

	v, err := Value(node)
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	depth := 0
	for m, ok := v.(map[string]any); ok; m, ok = m["next"].(map[string]any) {
		depth++
	}
	if depth == 0 || depth > maxDepth+1 {
		t.Errorf("unexpected nesting depth %d", depth)
	}
}
