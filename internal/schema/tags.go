package schema

import (
	"reflect"

	"github.com/Farmer51Peace/sonarqube/internal/rule"
)

// Tag keys recognized on the rule.Check marker field.
const (
	tagKey         = "key"
	tagName        = "name"
	tagDescription = "description"
	tagPriority    = "priority"
	tagCardinality = "cardinality"
	tagStatus      = "status"
)

// Tag keys recognized on parameter fields. The presence of `param` marks the
// field as a rule parameter; its value is the parameter key (may be empty).
const (
	tagParam   = "param"
	tagDefault = "default"
	tagType    = "type"
)

var markerType = reflect.TypeOf(rule.Check{})

// TagProvider implements Provider by reading struct tags via reflection.
// The zero value is ready to use.
type TagProvider struct{}

// RuleAnnotationOf scans t for an embedded rule.Check marker, level by level
// through embedded structs. The shallowest marker wins, so a check that embeds
// an annotated base check may override the annotation with its own marker.
func (TagProvider) RuleAnnotationOf(t reflect.Type) (RuleAnnotation, bool) {
	if t.Kind() != reflect.Struct {
		return RuleAnnotation{}, false
	}
	level := []reflect.Type{t}
	for len(level) > 0 {
		var next []reflect.Type
		for _, st := range level {
			for i := 0; i < st.NumField(); i++ {
				f := st.Field(i)
				if !f.Anonymous {
					continue
				}
				if f.Type == markerType {
					return ruleAnnotationFromTag(f.Tag), true
				}
				if f.Type.Kind() == reflect.Struct {
					next = append(next, f.Type)
				}
			}
		}
		level = next
	}
	return RuleAnnotation{}, false
}

func ruleAnnotationFromTag(tag reflect.StructTag) RuleAnnotation {
	return RuleAnnotation{
		Key:         tag.Get(tagKey),
		Name:        tag.Get(tagName),
		Description: tag.Get(tagDescription),
		Priority:    tag.Get(tagPriority),
		Cardinality: tag.Get(tagCardinality),
		Status:      tag.Get(tagStatus),
	}
}

// FieldsOf flattens t's fields, recursing into embedded structs in place of
// the embedding declaration. Field names shadow by depth: the shallowest
// declaration of a name is kept, deeper ones dropped, matching Go's own
// promotion rules.
func (TagProvider) FieldsOf(t reflect.Type) []FieldDescriptor {
	if t.Kind() != reflect.Struct {
		return nil
	}
	type candidate struct {
		desc  FieldDescriptor
		depth int
	}
	var all []candidate
	var walk func(st reflect.Type, depth int)
	walk = func(st reflect.Type, depth int) {
		for i := 0; i < st.NumField(); i++ {
			f := st.Field(i)
			if f.Anonymous {
				if f.Type == markerType {
					continue
				}
				if f.Type.Kind() == reflect.Struct {
					walk(f.Type, depth+1)
					continue
				}
			}
			all = append(all, candidate{
				desc:  FieldDescriptor{Name: f.Name, Type: f.Type, Tag: f.Tag},
				depth: depth,
			})
		}
	}
	walk(t, 0)

	minDepth := make(map[string]int, len(all))
	for _, c := range all {
		if d, ok := minDepth[c.desc.Name]; !ok || c.depth < d {
			minDepth[c.desc.Name] = c.depth
		}
	}
	out := make([]FieldDescriptor, 0, len(all))
	taken := make(map[string]bool, len(all))
	for _, c := range all {
		if c.depth != minDepth[c.desc.Name] || taken[c.desc.Name] {
			continue
		}
		taken[c.desc.Name] = true
		out = append(out, c.desc)
	}
	return out
}

// ParamAnnotationOf reads the `param` tag family off f. Fields without a
// `param` tag are not rule parameters.
func (TagProvider) ParamAnnotationOf(f FieldDescriptor) (ParamAnnotation, bool) {
	key, ok := f.Tag.Lookup(tagParam)
	if !ok {
		return ParamAnnotation{}, false
	}
	return ParamAnnotation{
		Key:          key,
		Description:  f.Tag.Get(tagDescription),
		DefaultValue: f.Tag.Get(tagDefault),
		Type:         f.Tag.Get(tagType),
	}, true
}
