// Package openapi accumulates an OpenAPI 3 document from annotated controller
// declarations. Operations are built per routed method, merged into a shared
// path table and finalized once when the traversal ends.
package openapi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/moamenhredeen/oasgen/internal/element"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"github.com/pb33f/libopenapi/orderedmap"
)

// Version is the OpenAPI version written to new documents.
const Version = "3.0.1"

// DefaultMediaType is used when neither the method nor its class declare one.
const DefaultMediaType = "application/json"

// Reporter receives non-fatal problems found while building the document.
// The element may be nil for document level problems.
type Reporter interface {
	Warn(msg string, el element.Element)
}

// Options tune document construction.
type Options struct {
	// DefaultMediaType applies when no consumes/produces are declared.
	DefaultMediaType string
	// InferParameters derives parameters and request bodies from the method
	// signature.
	InferParameters bool
	// Mappings maps routing annotations to verbs.
	Mappings Mappings

	// Title, Version and Description fill the info block when the traversal
	// did not declare one.
	Title       string
	Version     string
	Description string
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		DefaultMediaType: DefaultMediaType,
		InferParameters:  true,
		Mappings:         DefaultMappings(),
		Title:            "API",
		Version:          "1.0.0",
	}
}

// Document is the document under construction.
type Document struct {
	doc      *v3.Document
	reporter Reporter
	opts     Options

	ids     map[string]struct{}
	tags    []*base.Tag
	schemas *orderedmap.Map[string, *base.SchemaProxy]
	schemes *orderedmap.Map[string, *v3.SecurityScheme]
	refs    []string
}

// NewDocument starts a document. A non-nil seed is extended in place, its
// operation ids and tags take part in deduplication.
func NewDocument(seed *v3.Document, r Reporter, opts Options) *Document {
	if seed == nil {
		seed = &v3.Document{Version: Version}
	}
	if seed.Version == "" {
		seed.Version = Version
	}
	if opts.DefaultMediaType == "" {
		opts.DefaultMediaType = DefaultMediaType
	}
	if opts.Mappings == nil {
		opts.Mappings = DefaultMappings()
	}
	d := &Document{
		doc:      seed,
		reporter: r,
		opts:     opts,
		ids:      map[string]struct{}{},
		schemas:  orderedmap.New[string, *base.SchemaProxy](),
		schemes:  orderedmap.New[string, *v3.SecurityScheme](),
	}
	if seed.Paths != nil && seed.Paths.PathItems != nil {
		for pair := seed.Paths.PathItems.First(); pair != nil; pair = pair.Next() {
			d.reserveItem(pair.Value())
		}
	}
	return d
}

// Model returns the underlying libopenapi document.
func (d *Document) Model() *v3.Document { return d.doc }

// Options returns the effective options.
func (d *Document) Options() Options { return d.opts }

func (d *Document) warn(el element.Element, format string, args ...any) {
	if d.reporter != nil {
		d.reporter.Warn(fmt.Sprintf(format, args...), el)
	}
}

func (d *Document) reserveItem(item *v3.PathItem) {
	for _, mo := range Operations(item) {
		d.reserve(mo.Operation.OperationId)
		if mo.Operation.Callbacks == nil {
			continue
		}
		for cb := mo.Operation.Callbacks.First(); cb != nil; cb = cb.Next() {
			if cb.Value() == nil || cb.Value().Expression == nil {
				continue
			}
			for exp := cb.Value().Expression.First(); exp != nil; exp = exp.Next() {
				d.reserveItem(exp.Value())
			}
		}
	}
}

func (d *Document) reserve(id string) {
	if id != "" {
		d.ids[strings.ToLower(id)] = struct{}{}
	}
}

// UniqueOperationID returns id, or id suffixed with "_1", "_2", ... when an
// operation id equal to it ignoring case is already taken, and reserves the
// result.
func (d *Document) UniqueOperationID(id string) string {
	if id == "" {
		return ""
	}
	candidate := id
	for n := 1; ; n++ {
		if _, taken := d.ids[strings.ToLower(candidate)]; !taken {
			break
		}
		candidate = fmt.Sprintf("%s_%d", id, n)
	}
	d.reserve(candidate)
	return candidate
}

// AddRoute stores op in the verb slot of the path item for path. It reports
// false, with a warning, when method has no slot.
func (d *Document) AddRoute(path, method string, op *v3.Operation) bool {
	if !IsMethod(method) {
		d.warn(nil, "unsupported HTTP method %q for %s", method, path)
		return false
	}
	if d.doc.Paths == nil {
		d.doc.Paths = &v3.Paths{}
	}
	if d.doc.Paths.PathItems == nil {
		d.doc.Paths.PathItems = orderedmap.New[string, *v3.PathItem]()
	}
	item, ok := d.doc.Paths.PathItems.Get(path)
	if !ok || item == nil {
		item = &v3.PathItem{}
		d.doc.Paths.PathItems.Set(path, item)
	}
	slot := operationSlot(item, method)
	if *slot != nil {
		d.warn(nil, "replacing %s %s (operation %s)", strings.ToUpper(method), path, (*slot).OperationId)
	}
	*slot = op
	return true
}

// AddTag records a document level tag. Later tags with the same name are
// dropped when the document is finished.
func (d *Document) AddTag(t *base.Tag) {
	if t != nil && t.Name != "" {
		d.tags = append(d.tags, t)
	}
}

// AddServer appends a document level server unless an equal one exists.
func (d *Document) AddServer(s *v3.Server) {
	if s == nil {
		return
	}
	for _, have := range d.doc.Servers {
		if serverEqual(have, s) {
			return
		}
	}
	d.doc.Servers = append(d.doc.Servers, s)
}

// AddSecurity appends a document level security requirement unless an equal
// one exists.
func (d *Document) AddSecurity(r *base.SecurityRequirement) {
	if r == nil {
		return
	}
	for _, have := range d.doc.Security {
		if securityEqual(have, r) {
			return
		}
	}
	d.doc.Security = append(d.doc.Security, r)
}

// AddSecurityScheme registers a component security scheme. The first scheme
// registered under a name wins.
func (d *Document) AddSecurityScheme(name string, s *v3.SecurityScheme) {
	if name == "" || s == nil {
		return
	}
	if _, ok := d.schemes.Get(name); ok {
		return
	}
	d.schemes.Set(name, s)
}

// SecurityScheme returns a registered component security scheme.
func (d *Document) SecurityScheme(name string) (*v3.SecurityScheme, bool) {
	return d.schemes.Get(name)
}

// RegisterSchema returns the component schema for name, creating an empty
// object schema on first use.
func (d *Document) RegisterSchema(name string) *base.Schema {
	if proxy, ok := d.schemas.Get(name); ok {
		return proxy.Schema()
	}
	s := &base.Schema{
		Type:       []string{"object"},
		Properties: orderedmap.New[string, *base.SchemaProxy](),
	}
	d.schemas.Set(name, base.CreateSchemaProxy(s))
	return s
}

// HasSchema reports whether a component schema is defined, in the seed
// document or during the traversal.
func (d *Document) HasSchema(name string) bool {
	if _, ok := d.schemas.Get(name); ok {
		return true
	}
	c := d.doc.Components
	if c != nil && c.Schemas != nil {
		if _, ok := c.Schemas.Get(name); ok {
			return true
		}
	}
	return false
}

func (d *Document) schemaRef(name string) *base.SchemaProxy {
	if !contains(d.refs, name) {
		d.refs = append(d.refs, name)
	}
	return base.CreateSchemaProxyRef(componentSchemaPrefix + name)
}

// SetInfo replaces the info block.
func (d *Document) SetInfo(info *base.Info) {
	if info != nil {
		d.doc.Info = info
	}
}

// SetExternalDocs sets the document external docs if unset.
func (d *Document) SetExternalDocs(ed *base.ExternalDoc) {
	if ed != nil && d.doc.ExternalDocs == nil {
		d.doc.ExternalDocs = ed
	}
}

// SetExtension sets a document extension if the key is unset.
func (d *Document) SetExtension(e Extension) {
	d.doc.Extensions = setExtension(d.doc.Extensions, e)
}

// Finish completes the document: unresolved schema references get a
// placeholder, collected components and tags are merged in and a missing
// info block is filled from the options.
func (d *Document) Finish() *v3.Document {
	for _, name := range d.refs {
		if d.HasSchema(name) {
			continue
		}
		d.warn(nil, "schema %s is referenced but never defined, using a placeholder", name)
		d.schemas.Set(name, base.CreateSchemaProxy(&base.Schema{Type: []string{"object"}}))
	}

	if d.schemas.Len() > 0 || d.schemes.Len() > 0 {
		d.mergeComponents()
	}

	if len(d.tags) > 0 {
		d.doc.Tags = mergeTags(d.doc.Tags, d.tags)
	}

	if d.doc.Info == nil {
		d.doc.Info = &base.Info{
			Title:       d.opts.Title,
			Version:     d.opts.Version,
			Description: d.opts.Description,
		}
	}
	if d.doc.Paths == nil {
		d.doc.Paths = &v3.Paths{PathItems: orderedmap.New[string, *v3.PathItem]()}
	}
	return d.doc
}

func (d *Document) mergeComponents() {
	c := d.doc.Components
	if c == nil {
		c = &v3.Components{}
		d.doc.Components = c
	}
	if d.schemas.Len() > 0 {
		if c.Schemas == nil {
			c.Schemas = orderedmap.New[string, *base.SchemaProxy]()
		}
		for pair := d.schemas.First(); pair != nil; pair = pair.Next() {
			if _, ok := c.Schemas.Get(pair.Key()); !ok {
				c.Schemas.Set(pair.Key(), pair.Value())
			}
		}
	}
	if d.schemes.Len() > 0 {
		if c.SecuritySchemes == nil {
			c.SecuritySchemes = orderedmap.New[string, *v3.SecurityScheme]()
		}
		for pair := d.schemes.First(); pair != nil; pair = pair.Next() {
			if _, ok := c.SecuritySchemes.Get(pair.Key()); !ok {
				c.SecuritySchemes.Set(pair.Key(), pair.Value())
			}
		}
	}
}

// mergeTags keeps the first tag per name, existing tags first, sorted by name.
func mergeTags(existing, discovered []*base.Tag) []*base.Tag {
	seen := map[string]bool{}
	var merged []*base.Tag
	for _, t := range append(append([]*base.Tag{}, existing...), discovered...) {
		if t == nil || seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		merged = append(merged, t)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Name < merged[j].Name
	})
	return merged
}
