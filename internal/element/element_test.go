package element

import (
	"reflect"
	"testing"
)

func tag(name string) Annotation {
	return NewAnnotation("Tag", map[string]Value{"name": name})
}

func TestRepeatableSingleAndContainerAgree(t *testing.T) {
	direct := &Class{Decl: Decl{DeclName: "A", DeclAnnotations: []Annotation{
		tag("one"), tag("two"), tag("three"),
	}}}
	wrapped := &Class{Decl: Decl{DeclName: "B", DeclAnnotations: []Annotation{
		NewAnnotation("Tags", map[string]Value{"value": []Value{tag("one"), tag("two"), tag("three")}}),
	}}}

	got := Tags.Collect(direct)
	want := Tags.Collect(wrapped)
	if len(got) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(got))
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("direct and container forms differ:\n%v\n%v", got, want)
	}
	for i, name := range []string{"one", "two", "three"} {
		if got[i].String("name") != name {
			t.Errorf("tag %d: expected %s, got %s", i, name, got[i].String("name"))
		}
	}
}

func TestRepeatableEmpty(t *testing.T) {
	c := &Class{Decl: Decl{DeclName: "C"}}
	if got := Servers.Collect(c); len(got) != 0 {
		t.Errorf("expected no servers, got %v", got)
	}
	if got := Repeatable(nil, "Tags", "Tag"); got != nil {
		t.Errorf("expected nil for nil element, got %v", got)
	}
}

func TestRepeatableContainerWithSingleValue(t *testing.T) {
	c := &Class{Decl: Decl{DeclName: "C", DeclAnnotations: []Annotation{
		NewAnnotation("Tags", map[string]Value{"value": tag("solo")}),
	}}}
	got := Tags.Collect(c)
	if len(got) != 1 || got[0].String("name") != "solo" {
		t.Errorf("unexpected tags %v", got)
	}
}

func TestAnnotationAccessors(t *testing.T) {
	a := NewAnnotation("io.micronaut.http.annotation.Controller", map[string]Value{
		"value":    "/one",
		"produces": []Value{"text/json"},
		"consumes": "application/json",
		"hidden":   true,
		"count":    int64(3),
		"nested":   []Value{NewAnnotation("Schema", map[string]Value{"type": "string"})},
	})

	if a.Name != "Controller" {
		t.Errorf("expected simple name Controller, got %s", a.Name)
	}
	if a.String("value") != "/one" {
		t.Errorf("unexpected value %q", a.String("value"))
	}
	if got := a.Strings("consumes"); !reflect.DeepEqual(got, []string{"application/json"}) {
		t.Errorf("single string not promoted: %v", got)
	}
	if got := a.String("produces"); got != "text/json" {
		t.Errorf("one-element array not unwrapped: %q", got)
	}
	if !a.Bool("hidden") || a.Bool("missing") {
		t.Errorf("unexpected bool accessors")
	}
	if a.String("count") != "3" {
		t.Errorf("unexpected int formatting %q", a.String("count"))
	}
	n, ok := a.Nested("nested")
	if !ok || n.String("type") != "string" {
		t.Errorf("nested annotation not found: %v", n)
	}
	if _, ok := a.StringOK("absent"); ok {
		t.Errorf("absent member reported as present")
	}
}

func TestSimpleName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Get", "Get"},
		{"@Get", "Get"},
		{"io.swagger.v3.oas.annotations.tags.Tag", "Tag"},
		{" Tags ", "Tags"},
	}
	for _, tt := range tests {
		if got := SimpleName(tt.in); got != tt.want {
			t.Errorf("SimpleName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassAccessors(t *testing.T) {
	c := &Class{
		Decl:    Decl{DeclName: "OneController", Mods: Modifiers{Public: true}},
		Package: "example.api",
		Members: []*Method{{Decl: Decl{DeclName: "get"}}},
		Props:   []*Field{{Decl: Decl{DeclName: "name"}, TypeName: "String"}},
		Nested:  []*Class{{Decl: Decl{DeclName: "Inner"}, Inner: true}},
	}
	if c.Name() != "example.api.OneController" || c.SimpleName() != "OneController" {
		t.Errorf("unexpected names %s %s", c.Name(), c.SimpleName())
	}
	if !c.IsPublic() || c.IsStatic() {
		t.Errorf("unexpected modifiers")
	}
	if len(c.Methods()) != 1 || len(c.Fields()) != 1 || len(c.InnerClasses()) != 1 {
		t.Errorf("unexpected member counts")
	}
	if !c.InnerClasses()[0].IsInner() {
		t.Errorf("inner class not flagged")
	}
}
