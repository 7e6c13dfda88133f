package visitor

import (
	"context"

	"github.com/moamenhredeen/oasgen/internal/element"
)

// Traverse drives v over classes in order: each class, then its fields, its
// methods and its inner classes. Cancellation is checked between top level
// classes; a cancelled traversal returns the context error without
// finishing the document.
func Traverse(ctx context.Context, host Context, v *Visitor, classes []element.ClassElement) error {
	v.Start(host)
	for _, c := range classes {
		if err := ctx.Err(); err != nil {
			return err
		}
		visitClass(host, v, c)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	v.Finish(host)
	return nil
}

func visitClass(host Context, v *Visitor, c element.ClassElement) {
	v.VisitClass(c, host)
	for _, f := range c.Fields() {
		v.VisitField(f, host)
	}
	for _, m := range c.Methods() {
		v.VisitMethod(m, host)
	}
	for _, inner := range c.InnerClasses() {
		visitClass(host, v, inner)
	}
}
