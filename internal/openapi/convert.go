package openapi

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/moamenhredeen/oasgen/internal/element"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"github.com/pb33f/libopenapi/orderedmap"
	"go.yaml.in/yaml/v4"
)

// EnumName strips the type qualifier from an enum constant reference such as
// ParameterIn.QUERY.
func EnumName(v string) string {
	if i := strings.LastIndex(v, "."); i >= 0 {
		return v[i+1:]
	}
	return v
}

// Extension is a single "x-" key and its value node.
type Extension struct {
	Key   string
	Value *yaml.Node
}

// Tag converts @Tag.
func Tag(a element.Annotation) *base.Tag {
	name := a.String("name")
	if name == "" {
		return nil
	}
	t := &base.Tag{
		Name:         name,
		Description:  a.String("description"),
		ExternalDocs: nestedExternalDoc(a, "externalDocs"),
	}
	for _, e := range Extensions(a.NestedAll("extensions")) {
		t.Extensions = setExtension(t.Extensions, e)
	}
	return t
}

// TagHasDetails reports whether @Tag carries more than a name.
func TagHasDetails(a element.Annotation) bool {
	if a.String("description") != "" || len(a.NestedAll("extensions")) > 0 {
		return true
	}
	return nestedExternalDoc(a, "externalDocs") != nil
}

// ExternalDoc converts @ExternalDocumentation. It returns nil when neither a
// url nor a description is declared.
func ExternalDoc(a element.Annotation) *base.ExternalDoc {
	url, desc := a.String("url"), a.String("description")
	if url == "" && desc == "" {
		return nil
	}
	return &base.ExternalDoc{URL: url, Description: desc}
}

func nestedExternalDoc(a element.Annotation, key string) *base.ExternalDoc {
	if n, ok := a.Nested(key); ok {
		return ExternalDoc(n)
	}
	return nil
}

// Server converts @Server.
func Server(a element.Annotation) *v3.Server {
	url := a.String("url")
	if url == "" {
		return nil
	}
	s := &v3.Server{URL: url, Description: a.String("description")}
	for _, v := range a.NestedAll("variables") {
		name := v.String("name")
		if name == "" {
			continue
		}
		if s.Variables == nil {
			s.Variables = orderedmap.New[string, *v3.ServerVariable]()
		}
		s.Variables.Set(name, &v3.ServerVariable{
			Enum:        v.Strings("allowableValues"),
			Default:     v.String("defaultValue"),
			Description: v.String("description"),
		})
	}
	return s
}

// SecurityRequirement converts @SecurityRequirement.
func SecurityRequirement(a element.Annotation) *base.SecurityRequirement {
	name := a.String("name")
	if name == "" {
		return nil
	}
	scopes := a.Strings("scopes")
	if scopes == nil {
		scopes = []string{}
	}
	reqs := orderedmap.New[string, []string]()
	reqs.Set(name, scopes)
	return &base.SecurityRequirement{Requirements: reqs}
}

var securityTypes = map[string]string{
	"APIKEY":        "apiKey",
	"HTTP":          "http",
	"OAUTH2":        "oauth2",
	"OPENIDCONNECT": "openIdConnect",
	"MUTUALTLS":     "mutualTLS",
}

// SecurityScheme converts @SecurityScheme, returning the component name.
func SecurityScheme(a element.Annotation) (string, *v3.SecurityScheme) {
	name := a.String("name")
	typ := EnumName(a.String("type"))
	if mapped, ok := securityTypes[strings.ToUpper(typ)]; ok {
		typ = mapped
	}
	s := &v3.SecurityScheme{
		Type:             typ,
		Description:      a.String("description"),
		Name:             a.String("paramName"),
		In:               strings.ToLower(EnumName(a.String("in"))),
		Scheme:           a.String("scheme"),
		BearerFormat:     a.String("bearerFormat"),
		OpenIdConnectUrl: a.String("openIdConnectUrl"),
	}
	if s.In == "default" {
		s.In = ""
	}
	if f, ok := a.Nested("flows"); ok {
		s.Flows = oauthFlows(f)
	}
	for _, e := range Extensions(a.NestedAll("extensions")) {
		s.Extensions = setExtension(s.Extensions, e)
	}
	return name, s
}

func oauthFlows(a element.Annotation) *v3.OAuthFlows {
	flow := func(key string) *v3.OAuthFlow {
		n, ok := a.Nested(key)
		if !ok {
			return nil
		}
		f := &v3.OAuthFlow{
			AuthorizationUrl: n.String("authorizationUrl"),
			TokenUrl:         n.String("tokenUrl"),
			RefreshUrl:       n.String("refreshUrl"),
			Scopes:           orderedmap.New[string, string](),
		}
		for _, s := range n.NestedAll("scopes") {
			f.Scopes.Set(s.String("name"), s.String("description"))
		}
		if f.AuthorizationUrl == "" && f.TokenUrl == "" && f.RefreshUrl == "" && f.Scopes.Len() == 0 {
			return nil
		}
		return f
	}
	flows := &v3.OAuthFlows{
		Implicit:          flow("implicit"),
		Password:          flow("password"),
		ClientCredentials: flow("clientCredentials"),
		AuthorizationCode: flow("authorizationCode"),
	}
	if flows.Implicit == nil && flows.Password == nil && flows.ClientCredentials == nil && flows.AuthorizationCode == nil {
		return nil
	}
	return flows
}

// Info converts @Info.
func Info(a element.Annotation) *base.Info {
	info := &base.Info{
		Title:          a.String("title"),
		Version:        a.String("version"),
		Description:    a.String("description"),
		TermsOfService: a.String("termsOfService"),
	}
	if c, ok := a.Nested("contact"); ok {
		if c.String("name") != "" || c.String("url") != "" || c.String("email") != "" {
			info.Contact = &base.Contact{Name: c.String("name"), URL: c.String("url"), Email: c.String("email")}
		}
	}
	if l, ok := a.Nested("license"); ok && l.String("name") != "" {
		info.License = &base.License{Name: l.String("name"), URL: l.String("url")}
	}
	for _, e := range Extensions(a.NestedAll("extensions")) {
		info.Extensions = setExtension(info.Extensions, e)
	}
	return info
}

// Extensions converts @Extension annotations. A named extension groups its
// properties into a mapping, an unnamed one contributes each property as a
// separate key. Values are parsed as YAML when parseValue is set.
func Extensions(list []element.Annotation) []Extension {
	var out []Extension
	for _, a := range list {
		props := a.NestedAll("properties")
		if name := a.String("name"); name != "" {
			node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			for _, p := range props {
				node.Content = append(node.Content, stringNode(p.String("name")), propertyNode(p, a.Bool("parseValue")))
			}
			out = append(out, Extension{Key: extensionKey(name), Value: node})
			continue
		}
		for _, p := range props {
			if p.String("name") == "" {
				continue
			}
			out = append(out, Extension{Key: extensionKey(p.String("name")), Value: propertyNode(p, a.Bool("parseValue") || p.Bool("parseValue"))})
		}
	}
	return out
}

func extensionKey(name string) string {
	if strings.HasPrefix(name, "x-") {
		return name
	}
	return "x-" + name
}

func propertyNode(p element.Annotation, parse bool) *yaml.Node {
	value := p.String("value")
	if parse {
		var doc yaml.Node
		if err := yaml.Unmarshal([]byte(value), &doc); err == nil && len(doc.Content) == 1 {
			return doc.Content[0]
		}
	}
	return stringNode(value)
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// scalarNode returns a node for an example or default value, letting YAML
// resolve its type.
func scalarNode(s string) *yaml.Node {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(s), &doc); err == nil && len(doc.Content) == 1 && doc.Content[0].Kind == yaml.ScalarNode {
		return doc.Content[0]
	}
	return stringNode(s)
}

func setExtension(m *orderedmap.Map[string, *yaml.Node], e Extension) *orderedmap.Map[string, *yaml.Node] {
	if m == nil {
		m = orderedmap.New[string, *yaml.Node]()
	}
	if _, ok := m.Get(e.Key); !ok {
		m.Set(e.Key, e.Value)
	}
	return m
}

func serverEqual(a, b *v3.Server) bool {
	return a.URL == b.URL && a.Description == b.Description
}

func securityEqual(a, b *base.SecurityRequirement) bool {
	return reflect.DeepEqual(requirementPairs(a), requirementPairs(b))
}

func requirementPairs(r *base.SecurityRequirement) []string {
	if r == nil || r.Requirements == nil {
		return nil
	}
	var out []string
	for pair := r.Requirements.First(); pair != nil; pair = pair.Next() {
		out = append(out, fmt.Sprintf("%s%v", pair.Key(), pair.Value()))
	}
	return out
}

func addServer(op *v3.Operation, s *v3.Server) {
	if s == nil {
		return
	}
	for _, have := range op.Servers {
		if serverEqual(have, s) {
			return
		}
	}
	op.Servers = append(op.Servers, s)
}

func addSecurity(op *v3.Operation, r *base.SecurityRequirement) {
	if r == nil {
		return
	}
	for _, have := range op.Security {
		if securityEqual(have, r) {
			return
		}
	}
	op.Security = append(op.Security, r)
}

func addParameter(op *v3.Operation, p *v3.Parameter) {
	if p == nil {
		return
	}
	for _, have := range op.Parameters {
		if have.Name == p.Name && have.In == p.In {
			return
		}
	}
	op.Parameters = append(op.Parameters, p)
}

func hasResponse(op *v3.Operation, code string) bool {
	if op.Responses == nil {
		return false
	}
	if code == "default" {
		return op.Responses.Default != nil
	}
	if op.Responses.Codes == nil {
		return false
	}
	_, ok := op.Responses.Codes.Get(code)
	return ok
}

func setResponse(op *v3.Operation, code string, r *v3.Response) {
	if op.Responses == nil {
		op.Responses = &v3.Responses{}
	}
	if code == "default" {
		op.Responses.Default = r
		return
	}
	if op.Responses.Codes == nil {
		op.Responses.Codes = orderedmap.New[string, *v3.Response]()
	}
	op.Responses.Codes.Set(code, r)
}

func responseCount(op *v3.Operation) int {
	if op.Responses == nil {
		return 0
	}
	n := 0
	if op.Responses.Default != nil {
		n++
	}
	if op.Responses.Codes != nil {
		n += op.Responses.Codes.Len()
	}
	return n
}
