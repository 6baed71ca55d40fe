package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"sort"

	"github.com/Farmer51Peace/sonarqube/internal/registry"
)

type DiffPayload struct {
	BaseKey string        `json:"base_key"`
	HeadKey string        `json:"head_key"`
	Summary diffSummary   `json:"summary"`
	New     []string      `json:"new"`
	Removed []string      `json:"removed"`
	Changed []diffChanged `json:"changed"`
}

type diffSummary struct {
	NewCount     int `json:"new"`
	RemovedCount int `json:"removed"`
	ChangedCount int `json:"changed"`
}

type diffChanged struct {
	Key     string                  `json:"key"`
	Base    registry.RuleDefinition `json:"base"`
	Head    registry.RuleDefinition `json:"head"`
	Changed []string                `json:"fields_changed"`
}

// Diff compares two compiled repositories rule by rule, keyed by rule key.
// Useful when upgrading a plugin: shows which definitions the new build adds,
// drops, or alters.
func Diff(base, head registry.RepositoryDefinition) DiffPayload {
	bm := map[string]registry.RuleDefinition{}
	hm := map[string]registry.RuleDefinition{}
	for _, r := range base.Rules {
		bm[r.Key] = r
	}
	for _, r := range head.Rules {
		hm[r.Key] = r
	}

	var added, removed []string
	var changed []diffChanged

	for k, hr := range hm {
		br, ok := bm[k]
		if !ok {
			added = append(added, k)
			continue
		}
		var fields []string
		if br.Name != hr.Name {
			fields = append(fields, "name")
		}
		if br.HTMLDescription != hr.HTMLDescription {
			fields = append(fields, "htmlDescription")
		}
		if br.DefaultSeverity != hr.DefaultSeverity {
			fields = append(fields, "defaultSeverity")
		}
		if br.Template != hr.Template {
			fields = append(fields, "template")
		}
		if br.Status != hr.Status {
			fields = append(fields, "status")
		}
		if !reflect.DeepEqual(br.Params, hr.Params) {
			fields = append(fields, "params")
		}
		if len(fields) > 0 {
			changed = append(changed, diffChanged{Key: k, Base: br, Head: hr, Changed: fields})
		}
	}
	for k := range bm {
		if _, ok := hm[k]; !ok {
			removed = append(removed, k)
		}
	}

	sort.Strings(added)
	sort.Strings(removed)
	sort.Slice(changed, func(i, j int) bool { return changed[i].Key < changed[j].Key })

	return DiffPayload{
		BaseKey: base.Key,
		HeadKey: head.Key,
		Summary: diffSummary{
			NewCount:     len(added),
			RemovedCount: len(removed),
			ChangedCount: len(changed),
		},
		New:     added,
		Removed: removed,
		Changed: changed,
	}
}

// WriteDiffJSON writes the diff of two repositories to outDir.
func WriteDiffJSON(outDir string, base, head registry.RepositoryDefinition) (string, error) {
	path := filepath.Join(outDir, "diff_"+base.Key+"__"+head.Key+".json")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(Diff(base, head), "", "  ")
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, b, 0o644)
}
