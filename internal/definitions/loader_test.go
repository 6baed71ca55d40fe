package definitions

import (
	"context"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/Farmer51Peace/sonarqube/internal/registry"
	"github.com/Farmer51Peace/sonarqube/internal/rule"
	"github.com/Farmer51Peace/sonarqube/internal/schema"
)

// recordingHandler captures log records so tests can assert on diagnostics.
type recordingHandler struct {
	records []slog.Record
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r)
	return nil
}
func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func newTestLoader() (*Loader, *recordingHandler) {
	h := &recordingHandler{}
	return NewLoader(schema.TagProvider{}, slog.New(h)), h
}

type unannotatedCheck struct {
	Max int `param:"max"`
}

type keylessCheck struct {
	rule.Check `name:"Keyless" priority:"MINOR"`
}

type endToEndCheck struct {
	rule.Check `key:"X1" name:"" description:"desc" priority:"MAJOR" cardinality:"SINGLE" status:"READY"`

	Inverted bool `param:"" type:"BOOLEAN"`
}

type explicitTypeCheck struct {
	rule.Check `key:"E1" priority:"MINOR"`

	Count int `param:"count" type:"BOOLEAN"`
}

type badTypeCheck struct {
	rule.Check `key:"B1" priority:"MINOR"`

	Good int    `param:"good"`
	Bad  string `param:"bad" type:"not-a-type"`
}

type badStatusCheck struct {
	rule.Check `key:"B2" priority:"MINOR" status:"bogus"`
}

type baseParamsCheck struct {
	Format string `param:"format"`
}

type inheritedParamsCheck struct {
	rule.Check `key:"I1" priority:"MAJOR"`
	baseParamsCheck

	Max int `param:"max"`
}

func TestLoadRules_SkipsUnannotatedCheck(t *testing.T) {
	loader, h := newTestLoader()
	repo := registry.New("r", "")

	if err := loader.LoadRules(repo, unannotatedCheck{}); err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if n := len(repo.Definition().Rules); n != 0 {
		t.Fatalf("expected no rules, got %d", n)
	}
	if len(h.records) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", len(h.records))
	}
	rec := h.records[0]
	if rec.Level != slog.LevelWarn {
		t.Fatalf("diagnostic level = %v, want WARN", rec.Level)
	}
	var named bool
	rec.Attrs(func(a slog.Attr) bool {
		if a.Key == "check" && strings.Contains(a.Value.String(), "unannotatedCheck") {
			named = true
		}
		return true
	})
	if !named {
		t.Fatalf("diagnostic does not name the skipped check")
	}
}

func TestLoadRules_KeyFallsBackToTypeName(t *testing.T) {
	loader, _ := newTestLoader()
	repo := registry.New("r", "")

	if err := loader.LoadRules(repo, keylessCheck{}); err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	def := repo.Definition()
	want := "github.com/Farmer51Peace/sonarqube/internal/definitions.keylessCheck"
	if def.Rules[0].Key != want {
		t.Fatalf("key = %q, want %q", def.Rules[0].Key, want)
	}
}

func TestLoadRules_EndToEnd(t *testing.T) {
	loader, h := newTestLoader()
	repo := registry.New("r", "")

	// Checks may be passed by pointer; only the type matters.
	if err := loader.LoadRules(repo, &endToEndCheck{}); err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(h.records) != 0 {
		t.Fatalf("unexpected diagnostics: %d", len(h.records))
	}

	def := repo.Definition()
	if len(def.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(def.Rules))
	}
	r := def.Rules[0]
	if r.Key != "X1" {
		t.Fatalf("key = %q", r.Key)
	}
	if r.Name != "" {
		t.Fatalf("blank name must stay absent, got %q", r.Name)
	}
	if r.HTMLDescription != "desc" {
		t.Fatalf("htmlDescription = %q", r.HTMLDescription)
	}
	if r.DefaultSeverity != "MAJOR" {
		t.Fatalf("defaultSeverity = %q", r.DefaultSeverity)
	}
	if r.Template {
		t.Fatalf("SINGLE cardinality must not be a template")
	}
	if r.Status != rule.StatusReady {
		t.Fatalf("status = %v", r.Status)
	}
	if len(r.Params) != 1 {
		t.Fatalf("expected 1 param, got %d", len(r.Params))
	}
	p := r.Params[0]
	if p.Key != "Inverted" {
		t.Fatalf("param key = %q, want field name fallback", p.Key)
	}
	if p.Type != rule.ParamTypeBoolean {
		t.Fatalf("param type = %v, want BOOLEAN", p.Type)
	}
}

func TestLoadRules_ExplicitTypeOverridesFieldType(t *testing.T) {
	loader, _ := newTestLoader()
	repo := registry.New("r", "")

	if err := loader.LoadRules(repo, explicitTypeCheck{}); err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	p := repo.Definition().Rules[0].Params[0]
	if p.Type != rule.ParamTypeBoolean {
		t.Fatalf("explicit type must win over declared int, got %v", p.Type)
	}
}

func TestLoadRules_InvalidExplicitType(t *testing.T) {
	loader, _ := newTestLoader()
	repo := registry.New("r", "")

	err := loader.LoadRules(repo, badTypeCheck{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "not-a-type") {
		t.Fatalf("error does not name the raw value: %v", err)
	}
	if !strings.Contains(err.Error(), "Bad") {
		t.Fatalf("error does not name the field: %v", err)
	}

	// Partial state: the rule and the param compiled before the failure stay,
	// but the failing field must not register a param at all.
	def := repo.Definition()
	if len(def.Rules) != 1 {
		t.Fatalf("expected partially registered rule")
	}
	if len(def.Rules[0].Params) != 1 || def.Rules[0].Params[0].Key != "good" {
		t.Fatalf("expected only the preceding param, got %+v", def.Rules[0].Params)
	}
	for _, p := range def.Rules[0].Params {
		if p.Key == "bad" {
			t.Fatalf("failing field left a partial param: %+v", p)
		}
	}
}

func TestLoadRules_InvalidStatus(t *testing.T) {
	loader, _ := newTestLoader()
	repo := registry.New("r", "")

	err := loader.LoadRules(repo, badStatusCheck{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "bogus") || !strings.Contains(err.Error(), "badStatusCheck") {
		t.Fatalf("error must name check and raw status: %v", err)
	}
	if n := len(repo.Definition().Rules); n != 0 {
		t.Fatalf("rule must not be registered before status parses, got %d", n)
	}
}

func TestLoadRules_InheritedParams(t *testing.T) {
	loader, _ := newTestLoader()
	repo := registry.New("r", "")

	if err := loader.LoadRules(repo, inheritedParamsCheck{}); err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	params := repo.Definition().Rules[0].Params
	keys := make([]string, len(params))
	for i, p := range params {
		keys[i] = p.Key
	}
	want := []string{"format", "max"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("param keys = %v, want %v", keys, want)
	}
}

func TestLoadRules_Idempotent(t *testing.T) {
	loader, _ := newTestLoader()

	first := registry.New("r", "")
	second := registry.New("r", "")
	if err := loader.LoadRules(first, endToEndCheck{}, explicitTypeCheck{}); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if err := loader.LoadRules(second, endToEndCheck{}, explicitTypeCheck{}); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if !reflect.DeepEqual(first.Definition(), second.Definition()) {
		t.Fatalf("compiling the same checks twice must yield identical definitions")
	}
}

func TestGuessType(t *testing.T) {
	type custom struct{}
	cases := []struct {
		value any
		want  rule.ParamType
	}{
		{int(0), rule.ParamTypeInteger},
		{int8(0), rule.ParamTypeInteger},
		{int16(0), rule.ParamTypeInteger},
		{int32(0), rule.ParamTypeInteger},
		{int64(0), rule.ParamTypeInteger},
		{uint(0), rule.ParamTypeInteger},
		{uint64(0), rule.ParamTypeInteger},
		{new(int), rule.ParamTypeInteger},
		{float32(0), rule.ParamTypeFloat},
		{float64(0), rule.ParamTypeFloat},
		{new(float64), rule.ParamTypeFloat},
		{false, rule.ParamTypeBoolean},
		{new(bool), rule.ParamTypeBoolean},
		{"", rule.ParamTypeString},
		{[]string(nil), rule.ParamTypeString},
		{custom{}, rule.ParamTypeString},
		{new(custom), rule.ParamTypeString},
	}
	for _, c := range cases {
		ft := reflect.TypeOf(c.value)
		if got := guessType(ft); got != c.want {
			t.Fatalf("guessType(%v) = %v, want %v", ft, got, c.want)
		}
	}
}

// fakeProvider proves the compiler works against hand-built descriptors,
// independent of struct tags.
type fakeProvider struct {
	ann    schema.RuleAnnotation
	hasAnn bool
	fields []schema.FieldDescriptor
	params map[string]schema.ParamAnnotation
}

func (f fakeProvider) RuleAnnotationOf(reflect.Type) (schema.RuleAnnotation, bool) {
	return f.ann, f.hasAnn
}
func (f fakeProvider) FieldsOf(reflect.Type) []schema.FieldDescriptor { return f.fields }
func (f fakeProvider) ParamAnnotationOf(fd schema.FieldDescriptor) (schema.ParamAnnotation, bool) {
	ann, ok := f.params[fd.Name]
	return ann, ok
}

func TestLoadRules_FakeProvider(t *testing.T) {
	p := fakeProvider{
		ann: schema.RuleAnnotation{
			Key: "F1", Name: "fake", Priority: "INFO", Cardinality: "MULTIPLE",
		},
		hasAnn: true,
		fields: []schema.FieldDescriptor{
			{Name: "threshold", Type: reflect.TypeOf(float64(0))},
			{Name: "ignored", Type: reflect.TypeOf("")},
		},
		params: map[string]schema.ParamAnnotation{
			"threshold": {Key: "", Description: "limit"},
		},
	}
	loader := NewLoader(p, slog.New(&recordingHandler{}))
	repo := registry.New("r", "")
	if err := loader.LoadRules(repo, struct{}{}); err != nil {
		t.Fatalf("LoadRules: %v", err)
	}

	r := repo.Definition().Rules[0]
	if r.Key != "F1" || !r.Template {
		t.Fatalf("rule = %+v", r)
	}
	if len(r.Params) != 1 || r.Params[0].Key != "threshold" || r.Params[0].Type != rule.ParamTypeFloat {
		t.Fatalf("params = %+v", r.Params)
	}
}
