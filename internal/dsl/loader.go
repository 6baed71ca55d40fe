// Package dsl loads YAML rule packs into a repository. Packs are the
// non-annotation path for declaring rules, typically shipped next to a
// plugin's binary checks.
package dsl

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Farmer51Peace/sonarqube/internal/registry"
	"github.com/Farmer51Peace/sonarqube/internal/rule"
)

type dslPack struct {
	Rules []dslRule `yaml:"rules"`
}

type dslRule struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"` // may contain markup
	Severity    string `yaml:"severity"`
	Template    bool   `yaml:"template"`
	Status      string `yaml:"status"` // defaults to READY

	Params []dslParam `yaml:"params"`
}

type dslParam struct {
	Key         string `yaml:"key"`
	Description string `yaml:"description"`
	Default     string `yaml:"default"`
	Type        string `yaml:"type"` // ParamType name; defaults to STRING
}

// LoadAndRegister reads a YAML rule pack and registers its rules into repo.
// Returns the number of rules registered. Rules registered before a failing
// entry remain in repo.
func LoadAndRegister(path string, repo *registry.Repository) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read rule pack: %w", err)
	}
	var pack dslPack
	if err := yaml.Unmarshal(b, &pack); err != nil {
		return 0, fmt.Errorf("parse yaml: %w", err)
	}
	var n int
	for _, r := range pack.Rules {
		if err := register(r, repo); err != nil {
			return n, fmt.Errorf("rule %q: %w", r.Key, err)
		}
		n++
	}
	return n, nil
}

func register(r dslRule, repo *registry.Repository) error {
	if r.Key == "" {
		return fmt.Errorf("missing required field key")
	}
	status := rule.DefaultStatus
	if r.Status != "" {
		st, err := rule.ParseStatus(r.Status)
		if err != nil {
			return fmt.Errorf("invalid rule status [%s]: %w", r.Status, err)
		}
		status = st
	}
	nr := repo.NewRule(r.Key).
		SetName(r.Name).
		SetHTMLDescription(r.Description).
		SetDefaultSeverity(r.Severity).
		SetTemplate(r.Template).
		SetStatus(status)

	for _, p := range r.Params {
		if p.Key == "" {
			return fmt.Errorf("param with empty key")
		}
		pt := rule.ParamTypeString
		if p.Type != "" {
			parsed, err := rule.ParseParamType(p.Type)
			if err != nil {
				return fmt.Errorf("param %q: invalid property type [%s]: %w", p.Key, p.Type, err)
			}
			pt = parsed
		}
		nr.NewParam(p.Key).
			SetDescription(p.Description).
			SetDefaultValue(p.Default).
			SetType(pt)
	}
	return nil
}
