// Package schema reads rule and parameter annotations off check struct types.
//
// Checks declare metadata declaratively: rule-level attributes as struct tags
// on an embedded rule.Check marker, parameter-level attributes as tags on the
// fields that hold the parameter values. The compiler never touches reflection
// directly; it goes through the Provider seam so the extraction logic stays
// testable with hand-built descriptors.
package schema

import (
	"reflect"
)

// RuleAnnotation is the rule-level metadata carried by a check type.
// All attributes are raw tag strings; blank means the attribute was omitted.
type RuleAnnotation struct {
	Key         string
	Name        string
	Description string
	Priority    string
	Cardinality string
	Status      string
}

// ParamAnnotation is the parameter-level metadata carried by a check field.
type ParamAnnotation struct {
	Key          string
	Description  string
	DefaultValue string
	Type         string
}

// FieldDescriptor describes one (possibly inherited) field of a check type.
type FieldDescriptor struct {
	Name string
	Type reflect.Type
	Tag  reflect.StructTag
}

// Provider resolves annotations for check types. Implementations must treat
// types as read-only input.
type Provider interface {
	// RuleAnnotationOf reports the rule annotation of t, if any.
	RuleAnnotationOf(t reflect.Type) (RuleAnnotation, bool)
	// FieldsOf returns all fields declared on t and inherited through its
	// embedded structs, flattened in declaration order. A field shadowed by
	// a shallower declaration of the same name appears once, shallow wins.
	FieldsOf(t reflect.Type) []FieldDescriptor
	// ParamAnnotationOf reports the parameter annotation of f, if any.
	ParamAnnotationOf(f FieldDescriptor) (ParamAnnotation, bool)
}
