package openapi

import (
	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
)

// ClassContext holds the defaults a controller class passes down to the
// operations built from its methods. Inner classes share the context of
// their enclosing class.
type ClassContext struct {
	Path         string
	Consumes     []string
	Produces     []string
	Tags         []string
	Servers      []*v3.Server
	Security     []*base.SecurityRequirement
	ExternalDocs *base.ExternalDoc
	Hidden       bool

	// Model is the component schema built from the fields of a model class.
	Model     *base.Schema
	ModelName string
}

// NewClassContext returns an empty context.
func NewClassContext() *ClassContext {
	return &ClassContext{}
}

// AddTag records a class tag name once.
func (c *ClassContext) AddTag(name string) {
	if name == "" || contains(c.Tags, name) {
		return
	}
	c.Tags = append(c.Tags, name)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// appendUnique appends the values of add that are not in list yet.
func appendUnique(list []string, add ...string) []string {
	for _, s := range add {
		if s != "" && !contains(list, s) {
			list = append(list, s)
		}
	}
	return list
}
