package openapi

import (
	"strings"

	"github.com/moamenhredeen/oasgen/internal/element"
)

// Mappings maps routing annotation names to HTTP verbs. An empty verb means
// the verb is read from the annotation's "method" member.
type Mappings map[string]string

// DefaultMappings returns the routing table for the Micronaut HTTP
// annotations.
func DefaultMappings() Mappings {
	return Mappings{
		"Get":              MethodGet,
		"Post":             MethodPost,
		"Put":              MethodPut,
		"Delete":           MethodDelete,
		"Patch":            MethodPatch,
		"Head":             MethodHead,
		"Options":          MethodOptions,
		"Trace":            MethodTrace,
		"CustomHttpMethod": "",
	}
}

// Mapping is a routing annotation resolved to its verb and relative path.
type Mapping struct {
	Method     string
	Path       string
	Annotation element.Annotation
}

// Resolve returns the first routing annotation declared on el.
func (m Mappings) Resolve(el element.Element) (Mapping, bool) {
	for _, a := range el.Annotations() {
		verb, ok := m[a.Name]
		if !ok {
			continue
		}
		if verb == "" {
			verb = a.String("method")
		}
		path := a.String("value")
		if path == "" {
			path = a.String("uri")
		}
		return Mapping{Method: strings.ToUpper(verb), Path: path, Annotation: a}, true
	}
	return Mapping{}, false
}
