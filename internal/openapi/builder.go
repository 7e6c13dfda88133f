package openapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/moamenhredeen/oasgen/internal/element"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"github.com/pb33f/libopenapi/orderedmap"
)

// Route is an operation and where it belongs in the path table.
type Route struct {
	Path      string
	Method    string
	Operation *v3.Operation
}

type media struct {
	consumes []string
	produces []string
}

var mediaTypeConstants = map[string]string{
	"APPLICATION_JSON":                  "application/json",
	"APPLICATION_XML":                   "application/xml",
	"APPLICATION_YAML":                  "application/x-yaml",
	"APPLICATION_FORM_URLENCODED":       "application/x-www-form-urlencoded",
	"APPLICATION_OCTET_STREAM":          "application/octet-stream",
	"APPLICATION_JSON_STREAM":           "application/x-json-stream",
	"APPLICATION_HAL_JSON":              "application/hal+json",
	"APPLICATION_PDF":                   "application/pdf",
	"MULTIPART_FORM_DATA":               "multipart/form-data",
	"TEXT_PLAIN":                        "text/plain",
	"TEXT_HTML":                         "text/html",
	"TEXT_XML":                          "text/xml",
	"TEXT_CSV":                          "text/csv",
	"TEXT_EVENT_STREAM":                 "text/event-stream",
	"TEXT_JSON":                         "text/json",
	"ALL":                               "*/*",
	"APPLICATION_VND_ERROR":             "application/vnd.error+json",
	"APPLICATION_JSON_PATCH":            "application/json-patch+json",
	"APPLICATION_JSON_MERGE_PATCH":      "application/merge-patch+json",
	"APPLICATION_PROBLEM_JSON":          "application/problem+json",
	"APPLICATION_GRAPHQL":               "application/graphql",
	"APPLICATION_CBOR":                  "application/cbor",
	"IMAGE_PNG":                         "image/png",
	"IMAGE_JPEG":                        "image/jpeg",
	"IMAGE_GIF":                         "image/gif",
	"APPLICATION_X_WWW_FORM_URLENCODED": "application/x-www-form-urlencoded",
}

// MediaTypes reads a media type list member. Constant references such as
// MediaType.TEXT_PLAIN are resolved to their value.
func MediaTypes(a element.Annotation, member string) []string {
	var out []string
	for _, v := range a.Strings(member) {
		if i := strings.LastIndex(v, "."); i >= 0 && !strings.Contains(v, "/") {
			if mt, ok := mediaTypeConstants[v[i+1:]]; ok {
				v = mt
			}
		} else if mt, ok := mediaTypeConstants[v]; ok {
			v = mt
		}
		out = appendUnique(out, v)
	}
	return out
}

func (d *Document) resolveMedia(el element.Element, annotation string, mapping element.Annotation, member string, class []string) []string {
	if a, ok := el.Annotation(annotation); ok {
		if v := MediaTypes(a, "value"); len(v) > 0 {
			return v
		}
	}
	if v := MediaTypes(mapping, member); len(v) > 0 {
		return v
	}
	if len(class) > 0 {
		return class
	}
	return []string{d.opts.DefaultMediaType}
}

// BuildOperation builds the operation for a routed method. The operation id
// is made unique against every operation already in the document.
func (d *Document) BuildOperation(cc *ClassContext, m element.MethodElement, mapping Mapping) Route {
	if cc == nil {
		cc = NewClassContext()
	}
	path := JoinPath(cc.Path, mapping.Path)
	mt := media{
		consumes: d.resolveMedia(m, "Consumes", mapping.Annotation, "consumes", cc.Consumes),
		produces: d.resolveMedia(m, "Produces", mapping.Annotation, "produces", cc.Produces),
	}
	op := &v3.Operation{}

	// Class level security and servers.
	op.Security = append(op.Security, cc.Security...)
	op.Servers = append(op.Servers, cc.Servers...)

	// Method level declarations.
	for _, a := range element.Callbacks.Collect(m) {
		d.addCallback(op, a, mt, m)
	}
	for _, a := range element.SecurityRequirements.Collect(m) {
		addSecurity(op, SecurityRequirement(a))
	}
	for _, a := range element.Servers.Collect(m) {
		addServer(op, Server(a))
	}
	for _, a := range element.Tags.Collect(m) {
		if name := a.String("name"); name != "" {
			op.Tags = appendUnique(op.Tags, name)
		}
		if TagHasDetails(a) {
			d.AddTag(Tag(a))
		}
	}
	if a, ok := m.Annotation("ExternalDocumentation"); ok {
		op.ExternalDocs = ExternalDoc(a)
	}

	if a, ok := m.Annotation("Operation"); ok {
		d.applyOperation(op, a, mt, m)
	}

	// Explicit responses, parameters and body only add.
	for _, a := range element.ApiResponses.Collect(m) {
		d.addResponse(op, a, mt, m.ReturnType())
	}
	for _, a := range element.Parameters.Collect(m) {
		addParameter(op, d.Parameter(a, ""))
	}
	if a, ok := m.Annotation("RequestBody"); ok && op.RequestBody == nil {
		op.RequestBody = d.RequestBody(a, mt.consumes, bodyType(m))
	}

	if d.opts.InferParameters {
		d.inferParameters(op, m, path, mt)
	}

	for _, t := range cc.Tags {
		op.Tags = appendUnique(op.Tags, t)
	}
	if op.ExternalDocs == nil {
		op.ExternalDocs = cc.ExternalDocs
	}

	id := op.OperationId
	if id == "" {
		id = m.Name()
	}
	op.OperationId = d.UniqueOperationID(id)

	if responseCount(op) == 0 {
		setResponse(op, "default", d.defaultResponse(mt.produces))
	}
	return Route{Path: path, Method: mapping.Method, Operation: op}
}

// applyOperation merges @Operation into op.
func (d *Document) applyOperation(op *v3.Operation, a element.Annotation, mt media, m element.MethodElement) {
	if v := a.String("summary"); v != "" {
		op.Summary = v
	}
	if v := a.String("description"); v != "" {
		op.Description = v
	}
	if v := a.String("operationId"); v != "" {
		op.OperationId = v
	}
	if a.Bool("deprecated") {
		t := true
		op.Deprecated = &t
	}
	op.Tags = appendUnique(op.Tags, a.Strings("tags")...)
	if op.ExternalDocs == nil {
		op.ExternalDocs = nestedExternalDoc(a, "externalDocs")
	}
	returnType := ""
	if m != nil {
		returnType = m.ReturnType()
	}
	for _, r := range a.NestedAll("responses") {
		d.addResponse(op, r, mt, returnType)
	}
	for _, s := range a.NestedAll("servers") {
		addServer(op, Server(s))
	}
	for _, p := range a.NestedAll("parameters") {
		addParameter(op, d.Parameter(p, ""))
	}
	for _, s := range a.NestedAll("security") {
		addSecurity(op, SecurityRequirement(s))
	}
	if rb, ok := a.Nested("requestBody"); ok && op.RequestBody == nil {
		javaType := ""
		if m != nil {
			javaType = bodyType(m)
		}
		op.RequestBody = d.RequestBody(rb, mt.consumes, javaType)
	}
	for _, e := range Extensions(a.NestedAll("extensions")) {
		op.Extensions = setExtension(op.Extensions, e)
	}
}

func (d *Document) addCallback(op *v3.Operation, a element.Annotation, mt media, el element.Element) {
	name := a.String("name")
	expr := a.String("callbackUrlExpression")
	if name == "" || expr == "" {
		d.warn(el, "callback without name or url expression is ignored")
		return
	}
	if op.Callbacks == nil {
		op.Callbacks = orderedmap.New[string, *v3.Callback]()
	}
	if _, ok := op.Callbacks.Get(name); ok {
		return
	}
	item := &v3.PathItem{}
	for _, oa := range a.NestedAll("operation") {
		method := oa.String("method")
		slot := operationSlot(item, method)
		if slot == nil {
			d.warn(el, "callback %s: unsupported HTTP method %q", name, method)
			continue
		}
		cbOp := &v3.Operation{}
		d.applyOperation(cbOp, oa, mt, nil)
		cbOp.OperationId = d.UniqueOperationID(cbOp.OperationId)
		if responseCount(cbOp) == 0 {
			setResponse(cbOp, "default", d.defaultResponse(mt.produces))
		}
		*slot = cbOp
	}
	cb := &v3.Callback{Expression: orderedmap.New[string, *v3.PathItem]()}
	cb.Expression.Set(expr, item)
	op.Callbacks.Set(name, cb)
}

func (d *Document) addResponse(op *v3.Operation, a element.Annotation, mt media, returnType string) {
	code := a.String("responseCode")
	if code == "" {
		code = "default"
	}
	if hasResponse(op, code) {
		return
	}
	setResponse(op, code, d.Response(a, mt.produces, returnType))
}

// Response converts @ApiResponse. Content without a media type is listed
// under every produced media type. Success responses without an explicit
// schema use returnType.
func (d *Document) Response(a element.Annotation, produces []string, returnType string) *v3.Response {
	code := a.String("responseCode")
	if code != "" && code != "default" && !strings.HasPrefix(code, "2") {
		returnType = ""
	}
	r := &v3.Response{Description: a.String("description")}
	if r.Description == "" {
		r.Description = responseDescription(code)
	}
	if list := a.NestedAll("content"); len(list) > 0 {
		r.Content = d.content(list, produces, returnType)
	}
	for _, h := range a.NestedAll("headers") {
		name := h.String("name")
		if name == "" {
			continue
		}
		if r.Headers == nil {
			r.Headers = orderedmap.New[string, *v3.Header]()
		}
		header := &v3.Header{Description: h.String("description"), Required: h.Bool("required"), Deprecated: h.Bool("deprecated")}
		if s, ok := h.Nested("schema"); ok {
			header.Schema = d.SchemaFor(s, "")
		} else {
			header.Schema = base.CreateSchemaProxy(&base.Schema{Type: []string{"string"}})
		}
		r.Headers.Set(name, header)
	}
	for _, e := range Extensions(a.NestedAll("extensions")) {
		r.Extensions = setExtension(r.Extensions, e)
	}
	return r
}

func responseDescription(code string) string {
	if n, err := strconv.Atoi(code); err == nil {
		if text := http.StatusText(n); text != "" {
			return text
		}
	}
	return "default"
}

func (d *Document) defaultResponse(produces []string) *v3.Response {
	content := orderedmap.New[string, *v3.MediaType]()
	for _, mt := range produces {
		content.Set(mt, &v3.MediaType{Schema: base.CreateSchemaProxy(&base.Schema{})})
	}
	return &v3.Response{Description: "default", Content: content}
}

// content converts @Content annotations. javaType supplies the schema when
// the annotation declares none.
func (d *Document) content(list []element.Annotation, defaults []string, javaType string) *orderedmap.Map[string, *v3.MediaType] {
	out := orderedmap.New[string, *v3.MediaType]()
	for _, c := range list {
		targets := defaults
		if mt := c.String("mediaType"); mt != "" {
			targets = []string{mt}
		}
		for _, mt := range targets {
			if _, ok := out.Get(mt); ok {
				continue
			}
			m := &v3.MediaType{Schema: d.contentSchema(c, javaType)}
			if ex := c.String("example"); ex != "" {
				m.Example = scalarNode(ex)
			}
			out.Set(mt, m)
		}
	}
	if out.Len() == 0 {
		return nil
	}
	return out
}

func (d *Document) contentSchema(c element.Annotation, javaType string) *base.SchemaProxy {
	if s, ok := c.Nested("schema"); ok {
		if proxy := d.SchemaFor(s, javaType); proxy != nil {
			return proxy
		}
	}
	if s, ok := c.Nested("array"); ok {
		return d.SchemaFor(s, javaType)
	}
	if proxy := d.TypeSchema(javaType); proxy != nil {
		return proxy
	}
	return base.CreateSchemaProxy(&base.Schema{})
}

// Parameter converts @Parameter declared for a value of javaType. Hidden or
// unnamed parameters yield nil.
func (d *Document) Parameter(a element.Annotation, javaType string) *v3.Parameter {
	name := a.String("name")
	if name == "" || a.Bool("hidden") {
		return nil
	}
	in := strings.ToLower(EnumName(a.String("in")))
	if in == "" || in == "default" {
		in = "query"
	}
	p := &v3.Parameter{
		Name:            name,
		In:              in,
		Description:     a.String("description"),
		Deprecated:      a.Bool("deprecated"),
		AllowEmptyValue: a.Bool("allowEmptyValue"),
	}
	if required := in == "path" || a.Bool("required"); required || a.Has("required") {
		p.Required = &required
	}
	if s, ok := a.Nested("schema"); ok {
		p.Schema = d.SchemaFor(s, javaType)
	} else if arr, ok := a.Nested("array"); ok {
		p.Schema = d.SchemaFor(arr, javaType)
	} else if javaType != "" {
		p.Schema = d.TypeSchema(javaType)
	}
	if p.Schema == nil {
		p.Schema = base.CreateSchemaProxy(&base.Schema{Type: []string{"string"}})
	}
	if ex := a.String("example"); ex != "" {
		p.Example = scalarNode(ex)
	}
	return p
}

// RequestBody converts @RequestBody. Without @Content the body is listed
// under every consumed media type with the schema of javaType.
func (d *Document) RequestBody(a element.Annotation, consumes []string, javaType string) *v3.RequestBody {
	rb := &v3.RequestBody{Description: a.String("description")}
	if a.Bool("required") {
		t := true
		rb.Required = &t
	}
	rb.Content = d.content(a.NestedAll("content"), consumes, javaType)
	if rb.Content == nil {
		rb.Content = d.bodyContent(consumes, javaType)
	}
	return rb
}

func (d *Document) bodyContent(consumes []string, javaType string) *orderedmap.Map[string, *v3.MediaType] {
	content := orderedmap.New[string, *v3.MediaType]()
	for _, mt := range consumes {
		schema := d.TypeSchema(javaType)
		if schema == nil {
			schema = base.CreateSchemaProxy(&base.Schema{})
		}
		content.Set(mt, &v3.MediaType{Schema: schema})
	}
	return content
}

// bodyType returns the type of the @Body parameter of m, if any.
func bodyType(m element.MethodElement) string {
	for _, p := range m.Parameters() {
		if p.HasAnnotation("Body") {
			return p.Type()
		}
	}
	return ""
}

// Parameter types supplied by the framework rather than the request.
var hostTypes = map[string]bool{
	"HttpRequest": true, "HttpHeaders": true, "HttpParameters": true,
	"Cookies": true, "Principal": true, "Authentication": true,
	"Locale": true, "Continuation": true, "HttpResponse": true,
	"MutableHttpResponse": true,
}

var binding = map[string]string{
	"PathVariable": "path",
	"QueryValue":   "query",
	"Header":       "header",
	"CookieValue":  "cookie",
}

func (d *Document) inferParameters(op *v3.Operation, m element.MethodElement, path string, mt media) {
	vars := PathVariables(path)
	for _, param := range m.Parameters() {
		if param.HasAnnotation("Hidden") {
			continue
		}
		if param.HasAnnotation("Body") {
			if op.RequestBody == nil {
				t := true
				op.RequestBody = &v3.RequestBody{Required: &t, Content: d.bodyContent(mt.consumes, param.Type())}
			}
			continue
		}
		raw, _ := splitGeneric(param.Type())
		if hostTypes[element.SimpleName(raw)] {
			continue
		}

		name, in, defaultValue := param.Name(), "", ""
		for _, a := range param.Annotations() {
			loc, ok := binding[a.Name]
			if !ok {
				continue
			}
			in = loc
			if v := a.String("value"); v != "" {
				name = v
			} else if v := a.String("name"); v != "" {
				name = v
			}
			defaultValue = a.String("defaultValue")
			break
		}
		if in == "" {
			in = "query"
			if contains(vars, name) {
				in = "path"
			}
		}
		if hasParameterNamed(op, name) {
			continue
		}

		p := &v3.Parameter{Name: name, In: in, Schema: d.TypeSchema(param.Type())}
		if p.Schema == nil {
			p.Schema = base.CreateSchemaProxy(&base.Schema{Type: []string{"string"}})
		}
		if defaultValue != "" && !p.Schema.IsReference() {
			p.Schema.Schema().Default = scalarNode(defaultValue)
		}
		required := in == "path" || (defaultValue == "" && !optionalParameter(param))
		p.Required = &required
		if a, ok := param.Annotation("Parameter"); ok {
			if a.Bool("hidden") {
				continue
			}
			p.Description = a.String("description")
			p.Deprecated = a.Bool("deprecated")
			if a.Has("required") && in != "path" {
				r := a.Bool("required")
				p.Required = &r
			}
			if s, ok := a.Nested("schema"); ok {
				p.Schema = d.SchemaFor(s, param.Type())
			}
		}
		addParameter(op, p)
	}
}

func optionalParameter(p element.ParameterElement) bool {
	if p.HasAnnotation("Nullable") {
		return true
	}
	raw, _ := splitGeneric(p.Type())
	return element.SimpleName(raw) == "Optional"
}

func hasParameterNamed(op *v3.Operation, name string) bool {
	for _, p := range op.Parameters {
		if p.Name == name {
			return true
		}
	}
	return false
}
