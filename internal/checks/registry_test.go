package checks

import (
	"log/slog"
	"sort"
	"testing"

	"github.com/Farmer51Peace/sonarqube/internal/definitions"
	"github.com/Farmer51Peace/sonarqube/internal/registry"
	"github.com/Farmer51Peace/sonarqube/internal/schema"
)

func resetSettings() {
	SetSettings(Settings{})
}

func TestBuiltinChecksCompile(t *testing.T) {
	resetSettings()
	t.Cleanup(resetSettings)

	repo := registry.New("builtin", "")
	loader := definitions.NewLoader(schema.TagProvider{}, slog.Default())
	if err := loader.LoadRules(repo, List()...); err != nil {
		t.Fatalf("built-in checks must compile: %v", err)
	}

	def := repo.Definition()
	var keys []string
	for _, r := range def.Rules {
		keys = append(keys, r.Key)
	}
	sort.Strings(keys)
	want := []string{"S100", "S103", "S109", "S1135", "S124", "S1451"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}

	// Template and inherited-param spot checks.
	if r, _ := def.Rule("S124"); !r.Template {
		t.Fatalf("S124 must be a template rule")
	}
	if r, _ := def.Rule("S100"); len(r.Params) != 1 || r.Params[0].Key != "format" {
		t.Fatalf("S100 must inherit the format param, got %+v", r.Params)
	}
	if r, _ := def.Rule("S109"); r.Status != "DEPRECATED" {
		t.Fatalf("S109 status = %v", r.Status)
	}
}

func TestList_FiltersDisabled(t *testing.T) {
	resetSettings()
	t.Cleanup(resetSettings)

	all := len(List())
	SetSettings(Settings{Disabled: map[string]bool{"S103": true}})
	filtered := List()
	if len(filtered) != all-1 {
		t.Fatalf("expected %d checks after disabling one, got %d", all-1, len(filtered))
	}
	for _, c := range filtered {
		if KeyOf(c) == "S103" {
			t.Fatalf("disabled check still listed")
		}
	}
}

func TestKeyOf(t *testing.T) {
	if got := KeyOf(LineLengthCheck{}); got != "S103" {
		t.Fatalf("KeyOf = %q, want S103", got)
	}
	if got := KeyOf(&FunctionNameCheck{}); got != "S100" {
		t.Fatalf("KeyOf pointer = %q, want S100", got)
	}
	type unannotated struct{}
	if got := KeyOf(unannotated{}); got == "" {
		t.Fatalf("unannotated check must fall back to its type name")
	}
}
