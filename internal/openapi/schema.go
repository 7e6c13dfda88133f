package openapi

import (
	"strings"

	"github.com/moamenhredeen/oasgen/internal/element"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	"github.com/pb33f/libopenapi/orderedmap"
)

const componentSchemaPrefix = "#/components/schemas/"

type scalar struct{ typ, format string }

var scalarTypes = map[string]scalar{
	"String":              {"string", ""},
	"CharSequence":        {"string", ""},
	"char":                {"string", ""},
	"Character":           {"string", ""},
	"int":                 {"integer", "int32"},
	"Integer":             {"integer", "int32"},
	"short":               {"integer", "int32"},
	"Short":               {"integer", "int32"},
	"byte":                {"integer", "int32"},
	"Byte":                {"integer", "int32"},
	"long":                {"integer", "int64"},
	"Long":                {"integer", "int64"},
	"BigInteger":          {"integer", ""},
	"float":               {"number", "float"},
	"Float":               {"number", "float"},
	"double":              {"number", "double"},
	"Double":              {"number", "double"},
	"BigDecimal":          {"number", ""},
	"Number":              {"number", ""},
	"boolean":             {"boolean", ""},
	"Boolean":             {"boolean", ""},
	"UUID":                {"string", "uuid"},
	"URI":                 {"string", "uri"},
	"URL":                 {"string", "uri"},
	"LocalDate":           {"string", "date"},
	"Date":                {"string", "date-time"},
	"LocalDateTime":       {"string", "date-time"},
	"OffsetDateTime":      {"string", "date-time"},
	"ZonedDateTime":       {"string", "date-time"},
	"Instant":             {"string", "date-time"},
	"LocalTime":           {"string", "partial-time"},
	"Duration":            {"string", ""},
	"Object":              {"object", ""},
	"JsonNode":            {"object", ""},
	"CompletedFileUpload": {"string", "binary"},
	"StreamingFileUpload": {"string", "binary"},
	"File":                {"string", "binary"},
}

// Wrappers whose schema is that of their single type argument.
var unwrapTypes = map[string]bool{
	"Optional": true, "CompletableFuture": true, "CompletionStage": true,
	"Mono": true, "Single": true, "Maybe": true,
	"HttpResponse": true, "MutableHttpResponse": true,
}

var arrayTypes = map[string]bool{
	"List": true, "ArrayList": true, "Set": true, "HashSet": true,
	"Collection": true, "Iterable": true, "Stream": true,
	"Flux": true, "Flowable": true, "Publisher": true, "Observable": true,
}

var mapTypes = map[string]bool{"Map": true, "HashMap": true, "LinkedHashMap": true, "TreeMap": true}

// TypeSchema maps a Java type name to a schema. Types that are not scalars,
// collections or known wrappers become component schema references. It
// returns nil for void.
func (d *Document) TypeSchema(javaType string) *base.SchemaProxy {
	t := strings.TrimSpace(javaType)
	if t == "" || t == "void" || t == "Void" {
		return nil
	}
	if strings.HasSuffix(t, "[]") {
		inner := strings.TrimSpace(strings.TrimSuffix(t, "[]"))
		if inner == "byte" {
			return base.CreateSchemaProxy(&base.Schema{Type: []string{"string"}, Format: "byte"})
		}
		return arraySchema(d.TypeSchema(inner))
	}
	raw, args := splitGeneric(t)
	name := element.SimpleName(raw)
	switch {
	case unwrapTypes[name]:
		if len(args) == 1 {
			if s := d.TypeSchema(args[0]); s != nil {
				return s
			}
		}
		return base.CreateSchemaProxy(&base.Schema{})
	case arrayTypes[name]:
		var items *base.SchemaProxy
		if len(args) == 1 {
			items = d.TypeSchema(args[0])
		}
		s := arraySchema(items)
		if name == "Set" || name == "HashSet" {
			unique := true
			s.Schema().UniqueItems = &unique
		}
		return s
	case mapTypes[name]:
		return base.CreateSchemaProxy(&base.Schema{Type: []string{"object"}})
	}
	if sc, ok := scalarTypes[name]; ok {
		return base.CreateSchemaProxy(&base.Schema{Type: []string{sc.typ}, Format: sc.format})
	}
	if name == "" || strings.ToLower(name[:1]) == name[:1] {
		return base.CreateSchemaProxy(&base.Schema{Type: []string{"string"}})
	}
	return d.schemaRef(name)
}

func arraySchema(items *base.SchemaProxy) *base.SchemaProxy {
	if items == nil {
		items = base.CreateSchemaProxy(&base.Schema{})
	}
	return base.CreateSchemaProxy(&base.Schema{
		Type:  []string{"array"},
		Items: &base.DynamicValue[*base.SchemaProxy, bool]{A: items},
	})
}

// splitGeneric splits "Map<String, List<Pet>>" into "Map" and its top level
// type arguments.
func splitGeneric(t string) (string, []string) {
	open := strings.Index(t, "<")
	if open < 0 || !strings.HasSuffix(t, ">") {
		return t, nil
	}
	raw := strings.TrimSpace(t[:open])
	body := t[open+1 : len(t)-1]
	var args []string
	depth, start := 0, 0
	for i, r := range body {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(body[start:i]))
				start = i + 1
			}
		}
	}
	if last := strings.TrimSpace(body[start:]); last != "" {
		args = append(args, last)
	}
	for i, a := range args {
		a = strings.TrimPrefix(a, "? extends ")
		a = strings.TrimPrefix(a, "? super ")
		if a == "?" {
			a = "Object"
		}
		args[i] = a
	}
	return raw, args
}

// SchemaFor converts @Schema (or @ArraySchema) on a declaration of javaType.
// Members the annotation leaves out are derived from the type.
func (d *Document) SchemaFor(a element.Annotation, javaType string) *base.SchemaProxy {
	if a.Name == "ArraySchema" {
		elem := strings.TrimSuffix(javaType, "[]")
		if _, args := splitGeneric(javaType); len(args) == 1 {
			elem = args[0]
		}
		var items *base.SchemaProxy
		if inner, ok := a.Nested("schema"); ok {
			items = d.SchemaFor(inner, elem)
		} else {
			items = d.TypeSchema(elem)
		}
		proxy := arraySchema(items)
		s := proxy.Schema()
		if n, ok := a.Nested("arraySchema"); ok {
			s.Description = n.String("description")
		}
		return proxy
	}
	if ref := a.String("ref"); ref != "" {
		if strings.HasPrefix(ref, componentSchemaPrefix) {
			return d.schemaRef(strings.TrimPrefix(ref, componentSchemaPrefix))
		}
		if !strings.Contains(ref, "/") {
			return d.schemaRef(ref)
		}
		return base.CreateSchemaProxyRef(ref)
	}
	if impl := a.String("implementation"); impl != "" && impl != "Void" {
		javaType = impl
	}

	var s *base.Schema
	typ := a.String("type")
	if typ == "" && javaType != "" {
		proxy := d.TypeSchema(javaType)
		if proxy == nil || proxy.IsReference() {
			if !hasSchemaDetails(a) {
				return proxy
			}
			// A reference cannot carry siblings in 3.0, wrap it.
			s = &base.Schema{}
			if proxy != nil {
				s.AllOf = []*base.SchemaProxy{proxy}
			}
		} else {
			s = proxy.Schema()
		}
	} else {
		s = &base.Schema{}
		if typ != "" {
			s.Type = []string{typ}
		}
	}
	applySchemaDetails(s, a)
	return base.CreateSchemaProxy(s)
}

func hasSchemaDetails(a element.Annotation) bool {
	for _, k := range []string{"description", "format", "example", "defaultValue", "allowableValues", "nullable", "deprecated", "title", "pattern"} {
		if a.Has(k) {
			return true
		}
	}
	return false
}

func applySchemaDetails(s *base.Schema, a element.Annotation) {
	if v := a.String("format"); v != "" {
		s.Format = v
	}
	if v := a.String("description"); v != "" {
		s.Description = v
	}
	if v := a.String("title"); v != "" {
		s.Title = v
	}
	if v := a.String("pattern"); v != "" {
		s.Pattern = v
	}
	if v, ok := a.StringOK("example"); ok && v != "" {
		s.Example = scalarNode(v)
	}
	if v, ok := a.StringOK("defaultValue"); ok && v != "" {
		s.Default = scalarNode(v)
	}
	for _, v := range a.Strings("allowableValues") {
		s.Enum = append(s.Enum, scalarNode(v))
	}
	if a.Bool("nullable") {
		t := true
		s.Nullable = &t
	}
	if a.Bool("deprecated") {
		t := true
		s.Deprecated = &t
	}
}

// AddProperty adds a property to a component schema built from a model
// class. The first declaration of a property name wins.
func (d *Document) AddProperty(model *base.Schema, name string, prop *base.SchemaProxy, required bool) {
	if model == nil || name == "" || prop == nil {
		return
	}
	if model.Properties == nil {
		model.Properties = orderedmap.New[string, *base.SchemaProxy]()
	}
	if _, ok := model.Properties.Get(name); ok {
		return
	}
	model.Properties.Set(name, prop)
	if required && !contains(model.Required, name) {
		model.Required = append(model.Required, name)
	}
}
