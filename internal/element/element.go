// Package element defines the capability set the OpenAPI walker needs from a
// host toolchain: declarations, their modifiers and their annotations.
//
// Host adapters (see javasrc) translate their native declaration model into
// these interfaces. The in-memory Class, Method, Field and Parameter types are
// ready-made implementations adapters can build directly.
package element

// Element is a declaration carrying annotations.
type Element interface {
	Name() string
	// Annotations returns declared annotations in source order.
	Annotations() []Annotation
	// Annotation returns the first declared annotation with the simple name.
	Annotation(name string) (Annotation, bool)
	HasAnnotation(name string) bool

	IsPublic() bool
	IsPrivate() bool
	IsStatic() bool
	IsAbstract() bool
	IsFinal() bool
}

// ClassElement is a class or interface declaration.
type ClassElement interface {
	Element
	SimpleName() string
	IsInner() bool
	Methods() []MethodElement
	Fields() []FieldElement
	InnerClasses() []ClassElement
}

// MethodElement is a method or constructor declaration.
type MethodElement interface {
	Element
	IsConstructor() bool
	ReturnType() string
	Parameters() []ParameterElement
}

// ParameterElement is a formal method parameter.
type ParameterElement interface {
	Element
	Type() string
}

// FieldElement is a field declaration.
type FieldElement interface {
	Element
	Type() string
}

// Modifiers are the declaration modifiers shared by all elements.
type Modifiers struct {
	Public   bool
	Private  bool
	Static   bool
	Abstract bool
	Final    bool
}

// Decl is the common part of the in-memory element implementations.
type Decl struct {
	DeclName        string
	DeclAnnotations []Annotation
	Mods            Modifiers
}

func (d *Decl) Name() string { return d.DeclName }

func (d *Decl) Annotations() []Annotation { return d.DeclAnnotations }

func (d *Decl) Annotation(name string) (Annotation, bool) {
	for _, a := range d.DeclAnnotations {
		if a.Name == name {
			return a, true
		}
	}
	return Annotation{}, false
}

func (d *Decl) HasAnnotation(name string) bool {
	_, ok := d.Annotation(name)
	return ok
}

func (d *Decl) IsPublic() bool   { return d.Mods.Public }
func (d *Decl) IsPrivate() bool  { return d.Mods.Private }
func (d *Decl) IsStatic() bool   { return d.Mods.Static }
func (d *Decl) IsAbstract() bool { return d.Mods.Abstract }
func (d *Decl) IsFinal() bool    { return d.Mods.Final }

// Class is an in-memory ClassElement.
type Class struct {
	Decl
	// Package is the declaring package, empty for the default package.
	Package string
	Inner   bool
	Members []*Method
	Props   []*Field
	Nested  []*Class
}

// Name returns the qualified class name.
func (c *Class) Name() string {
	if c.Package == "" {
		return c.DeclName
	}
	return c.Package + "." + c.DeclName
}

func (c *Class) SimpleName() string { return c.DeclName }
func (c *Class) IsInner() bool      { return c.Inner }

func (c *Class) Methods() []MethodElement {
	out := make([]MethodElement, 0, len(c.Members))
	for _, m := range c.Members {
		out = append(out, m)
	}
	return out
}

func (c *Class) Fields() []FieldElement {
	out := make([]FieldElement, 0, len(c.Props))
	for _, f := range c.Props {
		out = append(out, f)
	}
	return out
}

func (c *Class) InnerClasses() []ClassElement {
	out := make([]ClassElement, 0, len(c.Nested))
	for _, n := range c.Nested {
		out = append(out, n)
	}
	return out
}

// Method is an in-memory MethodElement.
type Method struct {
	Decl
	Constructor bool
	Returns     string
	Params      []*Parameter
}

func (m *Method) IsConstructor() bool { return m.Constructor }
func (m *Method) ReturnType() string  { return m.Returns }

func (m *Method) Parameters() []ParameterElement {
	out := make([]ParameterElement, 0, len(m.Params))
	for _, p := range m.Params {
		out = append(out, p)
	}
	return out
}

// Parameter is an in-memory ParameterElement.
type Parameter struct {
	Decl
	TypeName string
}

func (p *Parameter) Type() string { return p.TypeName }

// Field is an in-memory FieldElement.
type Field struct {
	Decl
	TypeName string
}

func (f *Field) Type() string { return f.TypeName }
