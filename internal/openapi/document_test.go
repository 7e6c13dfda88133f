package openapi

import (
	"strings"
	"testing"

	"github.com/moamenhredeen/oasgen/internal/element"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"github.com/pb33f/libopenapi/orderedmap"
)

type recorder struct {
	warnings []string
}

func (r *recorder) Warn(msg string, _ element.Element) {
	r.warnings = append(r.warnings, msg)
}

func newTestDocument() (*Document, *recorder) {
	r := &recorder{}
	return NewDocument(nil, r, DefaultOptions()), r
}

func ann(name string, kv ...any) element.Annotation {
	values := map[string]element.Value{}
	for i := 0; i+1 < len(kv); i += 2 {
		values[kv[i].(string)] = kv[i+1]
	}
	return element.NewAnnotation(name, values)
}

func method(name string, anns ...element.Annotation) *element.Method {
	return &element.Method{Decl: element.Decl{DeclName: name, DeclAnnotations: anns, Mods: element.Modifiers{Public: true}}}
}

func build(t *testing.T, d *Document, cc *ClassContext, m *element.Method) Route {
	t.Helper()
	mapping, ok := d.Options().Mappings.Resolve(m)
	if !ok {
		t.Fatalf("method %s has no routing annotation", m.Name())
	}
	route := d.BuildOperation(cc, m, mapping)
	d.AddRoute(route.Path, route.Method, route.Operation)
	return route
}

func TestUniqueOperationIDsFollowVisitOrder(t *testing.T) {
	d, _ := newTestDocument()
	var ids []string
	for _, path := range []string{"/one", "/two", "/three"} {
		cc := &ClassContext{Path: path}
		route := build(t, d, cc, method("foo", ann("Get")))
		ids = append(ids, route.Operation.OperationId)
	}
	want := []string{"foo", "foo_1", "foo_2"}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("operation %d: expected id %s, got %s", i, want[i], ids[i])
		}
	}
}

func TestUniqueOperationIDIgnoresCase(t *testing.T) {
	d, _ := newTestDocument()
	if got := d.UniqueOperationID("listPets"); got != "listPets" {
		t.Fatalf("unexpected first id %s", got)
	}
	if got := d.UniqueOperationID("LISTPETS"); got != "LISTPETS_1" {
		t.Errorf("expected LISTPETS_1, got %s", got)
	}
}

func TestUniqueOperationIDSeesSeedAndCallbacks(t *testing.T) {
	seed := &v3.Document{Paths: &v3.Paths{PathItems: orderedmap.New[string, *v3.PathItem]()}}
	cbItem := &v3.PathItem{Post: &v3.Operation{OperationId: "notify"}}
	callbacks := orderedmap.New[string, *v3.Callback]()
	cb := &v3.Callback{Expression: orderedmap.New[string, *v3.PathItem]()}
	cb.Expression.Set("{$request.body#/url}", cbItem)
	callbacks.Set("onEvent", cb)
	seed.Paths.PathItems.Set("/events", &v3.PathItem{Get: &v3.Operation{OperationId: "events", Callbacks: callbacks}})

	d := NewDocument(seed, &recorder{}, DefaultOptions())
	if got := d.UniqueOperationID("events"); got != "events_1" {
		t.Errorf("expected events_1, got %s", got)
	}
	if got := d.UniqueOperationID("notify"); got != "notify_1" {
		t.Errorf("expected callback id to be taken, got %s", got)
	}
}

func TestGetAndPostShareOnePath(t *testing.T) {
	d, r := newTestDocument()
	cc := &ClassContext{Path: "/one"}
	build(t, d, cc, method("list", ann("Get", "value", "/{uriArg}")))
	build(t, d, cc, method("create", ann("Post", "value", "/{uriArg}")))

	doc := d.Finish()
	if doc.Paths.PathItems.Len() != 1 {
		t.Fatalf("expected 1 path, got %d", doc.Paths.PathItems.Len())
	}
	item, ok := doc.Paths.PathItems.Get("/one/{uriArg}")
	if !ok {
		t.Fatalf("path /one/{uriArg} missing")
	}
	if item.Get == nil || item.Post == nil {
		t.Errorf("expected GET and POST on one path item")
	}
	if len(r.warnings) != 0 {
		t.Errorf("unexpected warnings %v", r.warnings)
	}
}

func TestAddRouteWarnings(t *testing.T) {
	d, r := newTestDocument()
	if d.AddRoute("/a", "FETCH", &v3.Operation{}) {
		t.Errorf("unknown verb accepted")
	}
	if d.Model().Paths != nil {
		t.Errorf("unknown verb created a path entry")
	}
	d.AddRoute("/a", "get", &v3.Operation{OperationId: "first"})
	d.AddRoute("/a", "GET", &v3.Operation{OperationId: "second"})
	if len(r.warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", r.warnings)
	}
	if !strings.Contains(r.warnings[1], "first") {
		t.Errorf("replacement warning should name the replaced operation: %s", r.warnings[1])
	}
	item, _ := d.Model().Paths.PathItems.Get("/a")
	if item.Get.OperationId != "second" {
		t.Errorf("expected the later operation to win")
	}
}

func TestFinishWithoutComponents(t *testing.T) {
	d, _ := newTestDocument()
	build(t, d, &ClassContext{Path: "/ping"}, method("ping", ann("Get")))
	doc := d.Finish()
	if doc.Components != nil {
		t.Errorf("components set although nothing was collected")
	}
	if doc.Info == nil || doc.Info.Title != "API" || doc.Info.Version != "1.0.0" {
		t.Errorf("info not filled from options: %+v", doc.Info)
	}
	if doc.Version != Version {
		t.Errorf("unexpected version %s", doc.Version)
	}
}

func TestFinishPlaceholderForUnresolvedRef(t *testing.T) {
	d, r := newTestDocument()
	m := method("get", ann("Get"))
	m.Returns = "Pet"
	m.DeclAnnotations = append(m.DeclAnnotations, ann("ApiResponse",
		"responseCode", "200",
		"content", ann("Content", "mediaType", "application/json"),
	))
	build(t, d, nil, m)

	defined := d.RegisterSchema("Owner")
	d.AddProperty(defined, "name", d.TypeSchema("String"), true)
	d.TypeSchema("Owner")

	doc := d.Finish()
	if doc.Components == nil || doc.Components.Schemas == nil {
		t.Fatalf("components missing")
	}
	pet, ok := doc.Components.Schemas.Get("Pet")
	if !ok || pet.Schema().Type[0] != "object" {
		t.Errorf("expected placeholder schema for Pet")
	}
	if len(r.warnings) != 1 || !strings.Contains(r.warnings[0], "Pet") {
		t.Errorf("expected one warning about Pet, got %v", r.warnings)
	}
	owner, _ := doc.Components.Schemas.Get("Owner")
	if owner.Schema().Properties.Len() != 1 || owner.Schema().Required[0] != "name" {
		t.Errorf("model schema not kept")
	}
}

func TestFinishMergesTags(t *testing.T) {
	seed := &v3.Document{Tags: []*base.Tag{{Name: "pets", Description: "from base"}}}
	d := NewDocument(seed, &recorder{}, DefaultOptions())
	d.AddTag(&base.Tag{Name: "users"})
	d.AddTag(&base.Tag{Name: "pets", Description: "discovered"})
	d.AddTag(&base.Tag{Name: "admin"})
	d.AddTag(&base.Tag{Name: "users", Description: "second"})

	doc := d.Finish()
	var names []string
	for _, tag := range doc.Tags {
		names = append(names, tag.Name)
	}
	if strings.Join(names, ",") != "admin,pets,users" {
		t.Errorf("unexpected tag order %v", names)
	}
	if doc.Tags[1].Description != "from base" {
		t.Errorf("existing tag should win, got %q", doc.Tags[1].Description)
	}
	if doc.Tags[2].Description != "" {
		t.Errorf("first discovered tag should win, got %q", doc.Tags[2].Description)
	}
}

func TestSecuritySchemesBecomeComponents(t *testing.T) {
	d, _ := newTestDocument()
	name, scheme := SecurityScheme(ann("SecurityScheme",
		"name", "bearer", "type", "SecuritySchemeType.HTTP", "scheme", "bearer", "bearerFormat", "JWT"))
	if name != "bearer" {
		t.Fatalf("unexpected name %s", name)
	}
	d.AddSecurityScheme(name, scheme)
	doc := d.Finish()
	got, ok := doc.Components.SecuritySchemes.Get("bearer")
	if !ok || got.Type != "http" || got.BearerFormat != "JWT" {
		t.Errorf("unexpected scheme %+v", got)
	}
	if doc.Components.Schemas != nil {
		t.Errorf("schemas set although none were collected")
	}
}
