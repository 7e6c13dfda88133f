package element

// Repeatable collects a repeatable annotation declared on el.
//
// If the container form is declared, its "value" members are returned. Else
// every directly declared occurrence of the single form is returned in source
// order. Else the result is empty.
func Repeatable(el Element, container, single string) []Annotation {
	if el == nil {
		return nil
	}
	if c, ok := el.Annotation(container); ok {
		return c.NestedAll("value")
	}
	var out []Annotation
	for _, a := range el.Annotations() {
		if a.Name == single {
			out = append(out, a)
		}
	}
	return out
}

// Kind names a repeatable annotation pair.
type Kind struct {
	Container string
	Single    string
}

// Repeatable annotation kinds understood by the walker.
var (
	SecuritySchemes      = Kind{"SecuritySchemes", "SecurityScheme"}
	SecurityRequirements = Kind{"SecurityRequirements", "SecurityRequirement"}
	Tags                 = Kind{"Tags", "Tag"}
	Servers              = Kind{"Servers", "Server"}
	Callbacks            = Kind{"Callbacks", "Callback"}
	Parameters           = Kind{"Parameters", "Parameter"}
	ApiResponses         = Kind{"ApiResponses", "ApiResponse"}
)

// Collect is Repeatable for a Kind.
func (k Kind) Collect(el Element) []Annotation {
	return Repeatable(el, k.Container, k.Single)
}
