// Package definitions compiles annotated check types into repository-ready
// rule definition records.
package definitions

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/Farmer51Peace/sonarqube/internal/registry"
	"github.com/Farmer51Peace/sonarqube/internal/rule"
	"github.com/Farmer51Peace/sonarqube/internal/schema"
)

// Loader walks annotated checks and registers their rule and parameter
// definitions into a repository.
type Loader struct {
	provider schema.Provider
	log      *slog.Logger
}

// NewLoader builds a loader reading annotations through provider. Diagnostics
// for skipped checks go to log at warn level; nil falls back to slog.Default.
func NewLoader(provider schema.Provider, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{provider: provider, log: log}
}

// LoadRules compiles each check into repo, one rule per annotated check.
// Checks may be passed as values or pointers; only their type is inspected.
//
// A check without a rule annotation is skipped with a warning. A malformed
// status or explicit parameter type aborts the call with an error; the rule
// and any parameters registered before the failure remain in repo. The
// repository is single-writer for the duration of the call.
func (l *Loader) LoadRules(repo *registry.Repository, checks ...any) error {
	for _, c := range checks {
		t := checkType(c)
		if t == nil {
			l.log.Warn("nil check reference, skipping")
			continue
		}
		ann, ok := l.provider.RuleAnnotationOf(t)
		if !ok {
			l.log.Warn("check carries no rule annotation, skipping",
				"check", typeName(t), "expected", "embedded rule.Check marker")
			continue
		}
		if err := l.loadRule(repo, t, ann); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadRule(repo *registry.Repository, t reflect.Type, ann schema.RuleAnnotation) error {
	status := rule.DefaultStatus
	if ann.Status != "" {
		st, err := rule.ParseStatus(ann.Status)
		if err != nil {
			return fmt.Errorf("check %s: invalid rule status [%s]: %w", typeName(t), ann.Status, err)
		}
		status = st
	}

	nr := repo.NewRule(defaultIfEmpty(ann.Key, typeName(t))).
		SetName(ann.Name).
		SetHTMLDescription(ann.Description).
		SetDefaultSeverity(ann.Priority).
		SetTemplate(ann.Cardinality == rule.CardinalityMultiple).
		SetStatus(status)

	for _, f := range l.provider.FieldsOf(t) {
		if err := l.loadParam(nr, t, f); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadParam(nr *registry.NewRule, t reflect.Type, f schema.FieldDescriptor) error {
	ann, ok := l.provider.ParamAnnotationOf(f)
	if !ok {
		return nil
	}
	// Resolve the type before touching the repository; a field with a bad
	// explicit type must leave no param behind.
	pt := guessType(f.Type)
	if raw := strings.TrimSpace(ann.Type); raw != "" {
		parsed, err := rule.ParseParamType(raw)
		if err != nil {
			return fmt.Errorf("field %s of check %s: invalid property type [%s]: %w",
				f.Name, typeName(t), ann.Type, err)
		}
		pt = parsed
	}
	nr.NewParam(defaultIfEmpty(ann.Key, f.Name)).
		SetDescription(ann.Description).
		SetDefaultValue(ann.DefaultValue).
		SetType(pt)
	return nil
}

// typeForKind maps a field's declared kind to a parameter type. The table is
// closed; every kind outside it resolves to STRING.
var typeForKind = map[reflect.Kind]rule.ParamType{
	reflect.Int:     rule.ParamTypeInteger,
	reflect.Int8:    rule.ParamTypeInteger,
	reflect.Int16:   rule.ParamTypeInteger,
	reflect.Int32:   rule.ParamTypeInteger,
	reflect.Int64:   rule.ParamTypeInteger,
	reflect.Uint:    rule.ParamTypeInteger,
	reflect.Uint8:   rule.ParamTypeInteger,
	reflect.Uint16:  rule.ParamTypeInteger,
	reflect.Uint32:  rule.ParamTypeInteger,
	reflect.Uint64:  rule.ParamTypeInteger,
	reflect.Float32: rule.ParamTypeFloat,
	reflect.Float64: rule.ParamTypeFloat,
	reflect.Bool:    rule.ParamTypeBoolean,
}

// guessType infers a parameter type from a field's declared Go type. Pointer
// fields resolve through their element type, so *int behaves like int.
func guessType(t reflect.Type) rule.ParamType {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if pt, ok := typeForKind[t.Kind()]; ok {
		return pt
	}
	return rule.ParamTypeString
}

func defaultIfEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func checkType(c any) reflect.Type {
	t := reflect.TypeOf(c)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// typeName is the fully-qualified name of a check type, used as the rule key
// fallback when the annotation omits a key.
func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}
