package registry

import "github.com/Farmer51Peace/sonarqube/internal/rule"

// RepositoryDefinition is the serializable snapshot of a compiled repository.
type RepositoryDefinition struct {
	Key      string           `json:"key" yaml:"key"`
	Language string           `json:"language,omitempty" yaml:"language,omitempty"`
	Rules    []RuleDefinition `json:"rules" yaml:"rules"`
}

// RuleDefinition is one compiled rule record. Key is never empty; blank
// optional attributes are normalized to the empty string and omitted on the
// wire.
type RuleDefinition struct {
	Key             string            `json:"key" yaml:"key"`
	Name            string            `json:"name,omitempty" yaml:"name,omitempty"`
	HTMLDescription string            `json:"htmlDescription,omitempty" yaml:"htmlDescription,omitempty"`
	DefaultSeverity string            `json:"defaultSeverity,omitempty" yaml:"defaultSeverity,omitempty"`
	Template        bool              `json:"template,omitempty" yaml:"template,omitempty"`
	Status          rule.Status       `json:"status" yaml:"status"`
	Params          []ParamDefinition `json:"params,omitempty" yaml:"params,omitempty"`
}

// ParamDefinition is one compiled parameter record, owned by exactly one rule.
type ParamDefinition struct {
	Key          string         `json:"key" yaml:"key"`
	Description  string         `json:"description,omitempty" yaml:"description,omitempty"`
	DefaultValue string         `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Type         rule.ParamType `json:"type" yaml:"type"`
}

// Rule returns the rule with the given key, if present.
func (d RepositoryDefinition) Rule(key string) (RuleDefinition, bool) {
	for _, r := range d.Rules {
		if r.Key == key {
			return r, true
		}
	}
	return RuleDefinition{}, false
}
