//go:build cgo

package javasrc

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/moamenhredeen/oasgen/internal/element"
)

// Parse parses Java source into its top level classes, interfaces and
// records. Syntax errors are logged; whatever parsed is still returned.
func (r *Reader) Parse(ctx context.Context, source []byte) ([]*element.Class, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	root := tree.RootNode()
	if root.HasError() {
		r.logger.Warn("java source contains syntax errors")
	}

	f := &file{src: source}
	var classes []*element.Class
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "package_declaration":
			f.pkg = f.packageName(child)
		case "class_declaration", "interface_declaration", "record_declaration":
			classes = append(classes, f.class(child, f.pkg, false))
		}
	}
	return classes, nil
}

type file struct {
	src []byte
	pkg string
}

func (f *file) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(f.src)
}

func (f *file) packageName(n *sitter.Node) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "scoped_identifier" || c.Type() == "identifier" {
			return f.text(c)
		}
	}
	return ""
}

func (f *file) class(n *sitter.Node, pkg string, inner bool) *element.Class {
	c := &element.Class{
		Decl:    f.decl(n),
		Package: pkg,
		Inner:   inner,
	}
	isInterface := n.Type() == "interface_declaration"
	if n.Type() == "record_declaration" {
		if params := n.ChildByFieldName("parameters"); params != nil {
			for _, p := range f.parameters(params) {
				c.Props = append(c.Props, &element.Field{Decl: p.Decl, TypeName: p.TypeName})
			}
		}
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return c
	}
	nestedPkg := c.DeclName
	if pkg != "" {
		nestedPkg = pkg + "." + c.DeclName
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "method_declaration":
			m := f.method(member, false)
			if isInterface && !m.Mods.Private {
				m.Mods.Public = true
			}
			c.Members = append(c.Members, m)
		case "constructor_declaration", "compact_constructor_declaration":
			c.Members = append(c.Members, f.method(member, true))
		case "field_declaration", "constant_declaration":
			c.Props = append(c.Props, f.fields(member)...)
		case "class_declaration", "interface_declaration", "record_declaration":
			c.Nested = append(c.Nested, f.class(member, nestedPkg, true))
		}
	}
	return c
}

// decl reads the name, modifiers and annotations of a declaration.
func (f *file) decl(n *sitter.Node) element.Decl {
	d := element.Decl{DeclName: f.text(n.ChildByFieldName("name"))}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c != nil && c.Type() == "modifiers" {
			d.Mods, d.DeclAnnotations = f.modifiers(c)
		}
	}
	return d
}

func (f *file) modifiers(n *sitter.Node) (element.Modifiers, []element.Annotation) {
	var (
		mods element.Modifiers
		anns []element.Annotation
	)
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		switch c.Type() {
		case "public":
			mods.Public = true
		case "private":
			mods.Private = true
		case "static":
			mods.Static = true
		case "abstract":
			mods.Abstract = true
		case "final":
			mods.Final = true
		case "annotation", "marker_annotation":
			anns = append(anns, f.annotation(c))
		}
	}
	return mods, anns
}

func (f *file) method(n *sitter.Node, constructor bool) *element.Method {
	m := &element.Method{
		Decl:        f.decl(n),
		Constructor: constructor,
		Returns:     f.text(n.ChildByFieldName("type")),
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		m.Params = f.parameters(params)
	}
	return m
}

func (f *file) parameters(n *sitter.Node) []*element.Parameter {
	var out []*element.Parameter
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "formal_parameter":
			out = append(out, &element.Parameter{Decl: f.decl(c), TypeName: f.text(c.ChildByFieldName("type"))})
		case "spread_parameter":
			p := &element.Parameter{}
			for j := 0; j < int(c.NamedChildCount()); j++ {
				part := c.NamedChild(j)
				switch part.Type() {
				case "modifiers":
					p.Mods, p.DeclAnnotations = f.modifiers(part)
				case "variable_declarator":
					p.DeclName = f.text(part.ChildByFieldName("name"))
				default:
					if p.TypeName == "" {
						p.TypeName = f.text(part) + "[]"
					}
				}
			}
			out = append(out, p)
		}
	}
	return out
}

// fields returns one field per declarator: "int a, b;" declares two.
func (f *file) fields(n *sitter.Node) []*element.Field {
	base := f.decl(n)
	typ := f.text(n.ChildByFieldName("type"))
	var out []*element.Field
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() != "variable_declarator" {
			continue
		}
		d := base
		d.DeclName = f.text(c.ChildByFieldName("name"))
		fieldType := typ
		if dims := c.ChildByFieldName("dimensions"); dims != nil {
			fieldType += f.text(dims)
		}
		out = append(out, &element.Field{Decl: d, TypeName: fieldType})
	}
	return out
}

func (f *file) annotation(n *sitter.Node) element.Annotation {
	values := map[string]element.Value{}
	if args := n.ChildByFieldName("arguments"); args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			c := args.NamedChild(i)
			if c.Type() == "element_value_pair" {
				values[f.text(c.ChildByFieldName("key"))] = f.value(c.ChildByFieldName("value"))
				continue
			}
			values["value"] = f.value(c)
		}
	}
	return element.NewAnnotation(f.text(n.ChildByFieldName("name")), values)
}

// value decodes an annotation member value. Constant references such as
// MediaType.TEXT_PLAIN are kept as written; class literals yield the type.
func (f *file) value(n *sitter.Node) element.Value {
	if n == nil {
		return nil
	}
	text := f.text(n)
	switch n.Type() {
	case "string_literal", "character_literal":
		return unquote(text)
	case "text_block":
		return strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, `"""`), `"""`))
	case "true":
		return true
	case "false":
		return false
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal", "binary_integer_literal":
		clean := strings.ReplaceAll(strings.TrimRight(text, "lL"), "_", "")
		if v, err := strconv.ParseInt(clean, 0, 64); err == nil {
			return v
		}
	case "decimal_floating_point_literal":
		clean := strings.ReplaceAll(strings.TrimRight(text, "fFdD"), "_", "")
		if v, err := strconv.ParseFloat(clean, 64); err == nil {
			return v
		}
	case "element_value_array_initializer":
		list := []element.Value{}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			list = append(list, f.value(n.NamedChild(i)))
		}
		return list
	case "annotation", "marker_annotation":
		return f.annotation(n)
	case "class_literal":
		if n.NamedChildCount() > 0 {
			return f.text(n.NamedChild(0))
		}
		return strings.TrimSuffix(text, ".class")
	case "parenthesized_expression":
		if n.NamedChildCount() > 0 {
			return f.value(n.NamedChild(0))
		}
	case "binary_expression":
		left, lok := f.value(n.ChildByFieldName("left")).(string)
		right, rok := f.value(n.ChildByFieldName("right")).(string)
		if lok && rok {
			return left + right
		}
	case "null_literal":
		return nil
	}
	return text
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '\'' {
		s = `"` + s[1:len(s)-1] + `"`
	}
	if v, err := strconv.Unquote(s); err == nil {
		return v
	}
	return strings.Trim(s, `"'`)
}
