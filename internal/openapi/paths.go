package openapi

import (
	"strings"

	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
)

// HTTP verbs with a slot on a path item.
const (
	MethodGet     = "GET"
	MethodPut     = "PUT"
	MethodPost    = "POST"
	MethodDelete  = "DELETE"
	MethodOptions = "OPTIONS"
	MethodHead    = "HEAD"
	MethodPatch   = "PATCH"
	MethodTrace   = "TRACE"
)

// Methods lists the path item slots in rendering order.
var Methods = []string{
	MethodGet, MethodPut, MethodPost, MethodDelete,
	MethodOptions, MethodHead, MethodPatch, MethodTrace,
}

// JoinPath appends rel to base with exactly one slash at the boundary.
// A rel of "" or "/" adds nothing, runs of slashes collapse and an empty
// result becomes "/".
func JoinPath(base, rel string) string {
	rel = strings.TrimSpace(rel)
	if rel != "" && !strings.HasPrefix(rel, "/") {
		rel = "/" + rel
	}
	if rel == "/" {
		rel = ""
	}
	joined := collapseSlashes(strings.TrimSpace(base) + rel)
	if joined == "" {
		return "/"
	}
	return joined
}

func collapseSlashes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevSlash := false
	for _, r := range s {
		if r == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// PathVariables returns the template variable names of a path such as
// "/pets/{petId}" or "/books/{isbn:[0-9]+}". Query templates ("{?max}") are
// not path variables.
func PathVariables(path string) []string {
	var vars []string
	for {
		start := strings.Index(path, "{")
		if start < 0 {
			break
		}
		end := strings.Index(path[start:], "}")
		if end < 0 {
			break
		}
		expr := path[start+1 : start+end]
		path = path[start+end+1:]
		if strings.HasPrefix(expr, "?") || strings.HasPrefix(expr, "&") {
			continue
		}
		expr = strings.TrimLeft(expr, "+#./;")
		for _, name := range strings.Split(expr, ",") {
			if i := strings.IndexAny(name, ":*"); i >= 0 {
				name = name[:i]
			}
			if name = strings.TrimSpace(name); name != "" {
				vars = append(vars, name)
			}
		}
	}
	return vars
}

func operationSlot(item *v3.PathItem, method string) **v3.Operation {
	switch strings.ToUpper(method) {
	case MethodGet:
		return &item.Get
	case MethodPut:
		return &item.Put
	case MethodPost:
		return &item.Post
	case MethodDelete:
		return &item.Delete
	case MethodOptions:
		return &item.Options
	case MethodHead:
		return &item.Head
	case MethodPatch:
		return &item.Patch
	case MethodTrace:
		return &item.Trace
	}
	return nil
}

// IsMethod reports whether method names a path item slot.
func IsMethod(method string) bool {
	return operationSlot(&v3.PathItem{}, method) != nil
}

// MethodOperation is an operation and the verb it is registered under.
type MethodOperation struct {
	Method    string
	Operation *v3.Operation
}

// Operations returns the operations set on item in Methods order.
func Operations(item *v3.PathItem) []MethodOperation {
	if item == nil {
		return nil
	}
	var ops []MethodOperation
	for _, m := range Methods {
		if op := *operationSlot(item, m); op != nil {
			ops = append(ops, MethodOperation{Method: m, Operation: op})
		}
	}
	return ops
}
