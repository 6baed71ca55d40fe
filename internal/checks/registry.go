package checks

import (
	"reflect"
	"strings"

	"github.com/Farmer51Peace/sonarqube/internal/schema"
)

var (
	builtins []any
	provider schema.TagProvider
)

// Register adds a check to the built-in set. Called from init funcs in this
// package; registration order is preserved.
func Register(c any) {
	builtins = append(builtins, c)
}

// List returns registered checks minus disabled ones, in registration order.
func List() []any {
	out := make([]any, 0, len(builtins))
	for _, c := range builtins {
		if csettings.Disabled[strings.ToUpper(KeyOf(c))] {
			continue
		}
		out = append(out, c)
	}
	return out
}

// KeyOf resolves the rule key a check would compile to: the annotation key if
// set, else the fully-qualified type name. Unannotated checks resolve to the
// type name so they can still be disabled by it.
func KeyOf(c any) string {
	t := reflect.TypeOf(c)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	if ann, ok := provider.RuleAnnotationOf(t); ok && ann.Key != "" {
		return ann.Key
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}
