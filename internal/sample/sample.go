// Package sample derives example payloads from document schemas so generated
// documents can be reviewed with concrete bodies.
package sample

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"

	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"github.com/pb33f/libopenapi/orderedmap"
	"go.yaml.in/yaml/v4"
)

// maxDepth bounds recursion through self referencing models.
const maxDepth = 6

// Value returns an example value for schema. Declared examples win over
// defaults, defaults over enum values, and the rest is derived from the type
// and format. Output is deterministic.
func Value(schema *base.Schema) (any, error) {
	if schema == nil {
		return nil, fmt.Errorf("schema is nil")
	}
	return value(schema, 0), nil
}

func value(schema *base.Schema, depth int) any {
	if schema == nil || depth > maxDepth {
		return nil
	}
	if v, ok := decode(schema.Example); ok {
		return v
	}
	if v, ok := decode(schema.Default); ok {
		return v
	}
	if len(schema.Enum) > 0 {
		if v, ok := decode(schema.Enum[0]); ok {
			return v
		}
	}
	if len(schema.AllOf) > 0 {
		merged := objectValue(schema, depth)
		for _, part := range schema.AllOf {
			if m, ok := value(proxySchema(part), depth+1).(map[string]any); ok {
				maps.Copy(merged, m)
			}
		}
		return merged
	}

	typ := ""
	if len(schema.Type) > 0 {
		typ = schema.Type[0]
	}
	switch typ {
	case "string":
		return stringValue(schema)
	case "integer":
		if schema.Minimum != nil {
			return int64(*schema.Minimum)
		}
		return int64(0)
	case "number":
		if schema.Minimum != nil {
			return *schema.Minimum
		}
		return 0.0
	case "boolean":
		return true
	case "array":
		return []any{itemValue(schema, depth)}
	case "object":
		return objectValue(schema, depth)
	}
	if schema.Properties != nil && schema.Properties.Len() > 0 {
		return objectValue(schema, depth)
	}
	if schema.Format != "" {
		return formatValue(schema.Format)
	}
	return nil
}

func stringValue(schema *base.Schema) string {
	if schema.Format != "" {
		if s, ok := formatValue(schema.Format).(string); ok {
			return s
		}
	}
	if schema.MinLength != nil && *schema.MinLength > 6 {
		return strings.Repeat("s", int(*schema.MinLength))
	}
	return "string"
}

func itemValue(schema *base.Schema, depth int) any {
	if schema.Items == nil || !schema.Items.IsA() || schema.Items.A == nil {
		return "string"
	}
	return value(schema.Items.A.Schema(), depth+1)
}

func objectValue(schema *base.Schema, depth int) map[string]any {
	result := map[string]any{}
	if schema.Properties == nil {
		return result
	}
	for pair := schema.Properties.First(); pair != nil; pair = pair.Next() {
		result[pair.Key()] = value(proxySchema(pair.Value()), depth+1)
	}
	return result
}

func proxySchema(p *base.SchemaProxy) *base.Schema {
	if p == nil {
		return nil
	}
	return p.Schema()
}

func formatValue(format string) any {
	switch format {
	case "date":
		return "2026-01-01"
	case "date-time":
		return "2026-01-01T00:00:00Z"
	case "time":
		return "00:00:00"
	case "email":
		return "user@example.com"
	case "uri", "url":
		return "https://example.com"
	case "uuid":
		return "123e4567-e89b-12d3-a456-426614174000"
	case "binary", "byte":
		return ""
	case "int32", "int64":
		return int64(0)
	case "float", "double":
		return 0.0
	default:
		return "string"
	}
}

// decode turns a literal node into a plain Go value.
func decode(node *yaml.Node) (any, bool) {
	if node == nil {
		return nil, false
	}
	var v any
	if err := node.Decode(&v); err != nil {
		return node.Value, true
	}
	return v, true
}

// Body is an example payload for one media type.
type Body struct {
	MediaType string
	Data      []byte
}

// RequestBody renders an example for the request body, preferring a JSON
// media type.
func RequestBody(rb *v3.RequestBody) (*Body, error) {
	if rb == nil || rb.Content == nil || rb.Content.Len() == 0 {
		return nil, fmt.Errorf("no content defined in request body")
	}
	return content(rb.Content)
}

// Response renders an example for the first 2xx response, falling back to
// the default response.
func Response(responses *v3.Responses) (*Body, error) {
	if responses == nil {
		return nil, fmt.Errorf("no responses defined")
	}
	var chosen *v3.Response
	if responses.Codes != nil {
		for pair := responses.Codes.First(); pair != nil; pair = pair.Next() {
			if strings.HasPrefix(pair.Key(), "2") {
				chosen = pair.Value()
				break
			}
		}
	}
	if chosen == nil {
		chosen = responses.Default
	}
	if chosen == nil || chosen.Content == nil || chosen.Content.Len() == 0 {
		return nil, fmt.Errorf("no response content defined")
	}
	return content(chosen.Content)
}

func content(c *orderedmap.Map[string, *v3.MediaType]) (*Body, error) {
	var mediaType string
	var mt *v3.MediaType
	for pair := c.First(); pair != nil; pair = pair.Next() {
		if mt == nil || (strings.Contains(pair.Key(), "json") && !strings.Contains(mediaType, "json")) {
			mediaType, mt = pair.Key(), pair.Value()
		}
	}
	if mt == nil {
		return nil, fmt.Errorf("no media type defined")
	}

	var v any
	if ex, ok := decode(mt.Example); ok {
		v = ex
	} else if mt.Schema != nil {
		v = value(mt.Schema.Schema(), 0)
	}
	if v == nil {
		return nil, fmt.Errorf("no schema found for %s", mediaType)
	}
	if s, ok := v.(string); ok && !strings.Contains(mediaType, "json") {
		return &Body{MediaType: mediaType, Data: []byte(s)}, nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode example: %w", err)
	}
	return &Body{MediaType: mediaType, Data: data}, nil
}
