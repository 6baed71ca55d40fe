// Package registry is the append-only builder that receives compiled rule
// definitions. It owns nothing beyond the in-memory records; persistence and
// transport live elsewhere.
package registry

import (
	"github.com/Farmer51Peace/sonarqube/internal/rule"
)

// Repository collects rule definitions for one analyzer repository.
// It is single-writer: concurrent NewRule calls require external coordination.
type Repository struct {
	key      string
	language string
	rules    []*NewRule
}

// New creates an empty repository keyed by key for the given language.
func New(key, language string) *Repository {
	return &Repository{key: key, language: language}
}

// Key returns the repository key.
func (r *Repository) Key() string { return r.key }

// Language returns the language the repository's rules apply to.
func (r *Repository) Language() string { return r.language }

// NewRule appends a rule builder keyed by key. Keys are not deduplicated;
// the compiler guarantees non-empty keys, nothing more.
func (r *Repository) NewRule(key string) *NewRule {
	nr := &NewRule{def: RuleDefinition{Key: key, Status: rule.DefaultStatus}}
	r.rules = append(r.rules, nr)
	return nr
}

// Definition snapshots the repository into plain records.
func (r *Repository) Definition() RepositoryDefinition {
	def := RepositoryDefinition{Key: r.key, Language: r.language}
	for _, nr := range r.rules {
		rd := nr.def
		rd.Params = make([]ParamDefinition, 0, len(nr.params))
		for _, np := range nr.params {
			rd.Params = append(rd.Params, np.def)
		}
		if len(rd.Params) == 0 {
			rd.Params = nil
		}
		def.Rules = append(def.Rules, rd)
	}
	return def
}

// NewRule builds one rule definition. Setters return the receiver so callers
// can chain them.
type NewRule struct {
	def    RuleDefinition
	params []*NewParam
}

func (nr *NewRule) SetName(name string) *NewRule {
	nr.def.Name = name
	return nr
}

func (nr *NewRule) SetHTMLDescription(html string) *NewRule {
	nr.def.HTMLDescription = html
	return nr
}

func (nr *NewRule) SetDefaultSeverity(severity string) *NewRule {
	nr.def.DefaultSeverity = severity
	return nr
}

func (nr *NewRule) SetTemplate(template bool) *NewRule {
	nr.def.Template = template
	return nr
}

func (nr *NewRule) SetStatus(status rule.Status) *NewRule {
	nr.def.Status = status
	return nr
}

// Key returns the rule key the builder was created with.
func (nr *NewRule) Key() string { return nr.def.Key }

// NewParam appends a parameter builder keyed by key.
func (nr *NewRule) NewParam(key string) *NewParam {
	np := &NewParam{def: ParamDefinition{Key: key, Type: rule.ParamTypeString}}
	nr.params = append(nr.params, np)
	return np
}

// NewParam builds one parameter definition attached to a single rule.
type NewParam struct {
	def ParamDefinition
}

func (np *NewParam) SetDescription(desc string) *NewParam {
	np.def.Description = desc
	return np
}

func (np *NewParam) SetDefaultValue(v string) *NewParam {
	np.def.DefaultValue = v
	return np
}

func (np *NewParam) SetType(t rule.ParamType) *NewParam {
	np.def.Type = t
	return np
}
