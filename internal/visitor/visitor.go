// Package visitor walks controller declarations and accumulates a single
// OpenAPI document, written once through the host when the walk finishes.
package visitor

import (
	"fmt"
	"log/slog"

	"github.com/moamenhredeen/oasgen/internal/element"
	"github.com/moamenhredeen/oasgen/internal/openapi"
	"github.com/moamenhredeen/oasgen/internal/output"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
)

// Options configure a Visitor.
type Options struct {
	Document openapi.Options
	// Base seeds the document. It is extended in place.
	Base *v3.Document
	// FileName is the output file name without extension.
	FileName string
	// Formats lists the document formats written by Finish.
	Formats []output.Format
	Logger  *slog.Logger
}

// Visitor receives declarations from a host in traversal order.
type Visitor struct {
	opts   Options
	logger *slog.Logger

	doc   *openapi.Document
	class *openapi.ClassContext
}

// New creates a Visitor. Zero options fall back to the defaults: the
// Micronaut routing table, application/json and a single openapi.yaml.
func New(opts Options) *Visitor {
	if opts.Document.Mappings == nil && opts.Document.DefaultMediaType == "" {
		opts.Document = openapi.DefaultOptions()
	}
	if opts.FileName == "" {
		opts.FileName = "openapi"
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []output.Format{output.FormatYAML}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Visitor{opts: opts, logger: logger}
}

// Document returns the document being built, nil before Start.
func (v *Visitor) Document() *openapi.Document { return v.doc }

// Start begins a new document.
func (v *Visitor) Start(ctx Context) {
	v.doc = openapi.NewDocument(v.opts.Base, ctx, v.opts.Document)
	v.class = openapi.NewClassContext()
}

func (v *Visitor) ensureStarted(ctx Context) {
	if v.doc == nil {
		v.Start(ctx)
	}
}

// VisitClass collects the class level declarations. The class context is
// reset unless c is an inner class.
func (v *Visitor) VisitClass(c element.ClassElement, ctx Context) {
	v.ensureStarted(ctx)
	if !c.IsInner() {
		v.class = openapi.NewClassContext()
	}
	cc := v.class
	cc.Model, cc.ModelName = nil, ""

	if a, ok := c.Annotation("OpenAPIDefinition"); ok {
		v.applyDefinition(a)
	}

	for _, a := range element.SecuritySchemes.Collect(c) {
		name, scheme := openapi.SecurityScheme(a)
		if name == "" {
			ctx.Warn("security scheme without a name is ignored", c)
			continue
		}
		v.doc.AddSecurityScheme(name, scheme)
	}
	for _, a := range element.SecurityRequirements.Collect(c) {
		if r := openapi.SecurityRequirement(a); r != nil {
			cc.Security = append(cc.Security, r)
		}
	}
	for _, a := range element.Tags.Collect(c) {
		cc.AddTag(a.String("name"))
		if openapi.TagHasDetails(a) {
			v.doc.AddTag(openapi.Tag(a))
		}
	}
	for _, a := range element.Servers.Collect(c) {
		if s := openapi.Server(a); s != nil {
			cc.Servers = append(cc.Servers, s)
		}
	}
	if a, ok := c.Annotation("ExternalDocumentation"); ok {
		cc.ExternalDocs = openapi.ExternalDoc(a)
	}

	controller, isController := c.Annotation("Controller")
	if isController {
		cc.Path = controller.String("value")
		cc.Consumes = openapi.MediaTypes(controller, "consumes")
		cc.Produces = openapi.MediaTypes(controller, "produces")
	}
	if a, ok := c.Annotation("Consumes"); ok {
		if mt := openapi.MediaTypes(a, "value"); len(mt) > 0 {
			cc.Consumes = mt
		}
	}
	if a, ok := c.Annotation("Produces"); ok {
		if mt := openapi.MediaTypes(a, "value"); len(mt) > 0 {
			cc.Produces = mt
		}
	}
	if c.HasAnnotation("Hidden") {
		cc.Hidden = true
	}

	if s, ok := c.Annotation("Schema"); ok && !isController && !s.Bool("hidden") {
		name := s.String("name")
		if name == "" {
			name = c.SimpleName()
		}
		cc.ModelName = name
		cc.Model = v.doc.RegisterSchema(name)
		if desc := s.String("description"); desc != "" {
			cc.Model.Description = desc
		}
		v.logger.Debug("collecting model schema", "class", c.Name(), "schema", name)
	}
}

func (v *Visitor) applyDefinition(a element.Annotation) {
	if info, ok := a.Nested("info"); ok {
		v.doc.SetInfo(openapi.Info(info))
	}
	for _, t := range a.NestedAll("tags") {
		v.doc.AddTag(openapi.Tag(t))
	}
	for _, s := range a.NestedAll("servers") {
		v.doc.AddServer(openapi.Server(s))
	}
	for _, s := range a.NestedAll("security") {
		v.doc.AddSecurity(openapi.SecurityRequirement(s))
	}
	if ed, ok := a.Nested("externalDocs"); ok {
		v.doc.SetExternalDocs(openapi.ExternalDoc(ed))
	}
	for _, e := range openapi.Extensions(a.NestedAll("extensions")) {
		v.doc.SetExtension(e)
	}
}

// VisitMethod turns a routed method into an operation. Constructors, hidden
// methods, methods of hidden classes and methods without a routing
// annotation are skipped.
func (v *Visitor) VisitMethod(m element.MethodElement, ctx Context) {
	v.ensureStarted(ctx)
	cc := v.class
	if cc.Hidden || m.IsConstructor() || m.HasAnnotation("Hidden") {
		return
	}
	if op, ok := m.Annotation("Operation"); ok && op.Bool("hidden") {
		return
	}
	mapping, ok := v.doc.Options().Mappings.Resolve(m)
	if !ok {
		return
	}
	if !openapi.IsMethod(mapping.Method) {
		ctx.Warn(fmt.Sprintf("unsupported HTTP method %q on %s", mapping.Method, m.Name()), m)
		return
	}
	route := v.doc.BuildOperation(cc, m, mapping)
	v.doc.AddRoute(route.Path, route.Method, route.Operation)
	v.logger.Debug("added operation", "method", route.Method, "path", route.Path, "operationId", route.Operation.OperationId)
}

// VisitField adds a property to the component schema of a model class.
func (v *Visitor) VisitField(f element.FieldElement, ctx Context) {
	v.ensureStarted(ctx)
	cc := v.class
	if cc.Model == nil || f.IsStatic() || f.HasAnnotation("JsonIgnore") || f.HasAnnotation("Hidden") {
		return
	}
	name := f.Name()
	if jp, ok := f.Annotation("JsonProperty"); ok {
		if n := jp.String("value"); n != "" {
			name = n
		}
	}

	required := f.HasAnnotation("NotNull") || f.HasAnnotation("NotBlank") || f.HasAnnotation("NotEmpty")
	prop := v.doc.TypeSchema(f.Type())
	if s, ok := f.Annotation("Schema"); ok {
		if s.Bool("hidden") {
			return
		}
		if n := s.String("name"); n != "" {
			name = n
		}
		prop = v.doc.SchemaFor(s, f.Type())
		required = required || s.Bool("required")
	} else if s, ok := f.Annotation("ArraySchema"); ok {
		prop = v.doc.SchemaFor(s, f.Type())
	}
	if prop == nil {
		ctx.Warn(fmt.Sprintf("field %s of %s has no schema", f.Name(), cc.ModelName), f)
		return
	}
	v.doc.AddProperty(cc.Model, name, prop, required)
}

// Finish completes the document and writes it in every configured format.
// Failures are reported as warnings.
func (v *Visitor) Finish(ctx Context) {
	v.ensureStarted(ctx)
	doc := v.doc.Finish()
	for _, format := range v.opts.Formats {
		name := output.FileName(v.opts.FileName, format)
		w, err := ctx.CreateOutputFile(name)
		if err != nil {
			ctx.Warn(fmt.Sprintf("unable to create %s: %v", name, err), nil)
			continue
		}
		if err := output.EncodeDocument(w, doc, format); err != nil {
			ctx.Warn(fmt.Sprintf("unable to write %s: %v", name, err), nil)
		}
		if err := w.Close(); err != nil {
			ctx.Warn(fmt.Sprintf("unable to close %s: %v", name, err), nil)
		}
	}
}
