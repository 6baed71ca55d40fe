package storage

import (
	"time"

	"github.com/Farmer51Peace/sonarqube/internal/registry"
)

// RepoRow is a lightweight listing row for /repositories.
type RepoRow struct {
	Key        string    `json:"key"`
	Language   string    `json:"language,omitempty"`
	CompiledAt time.Time `json:"compiled_at"`
	Rules      int       `json:"rules"`
}

// ListRepositories returns stored repositories with rule counts, most
// recently compiled first.
func (db *DB) ListRepositories(limit, offset int) ([]RepoRow, error) {
	const q = `
		SELECT r.key, r.language, r.compiled_at,
		       (SELECT COUNT(1) FROM rules ru WHERE ru.repo_key = r.key) AS rules
		  FROM repositories r
		 ORDER BY r.compiled_at DESC, r.key
		 LIMIT ? OFFSET ?`
	rows, err := db.conn.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RepoRow
	for rows.Next() {
		var rr RepoRow
		var compiledAtStr string
		if err := rows.Scan(&rr.Key, &rr.Language, &compiledAtStr, &rr.Rules); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, compiledAtStr); err == nil {
			rr.CompiledAt = t
		} else if t2, err2 := time.Parse(time.RFC3339, compiledAtStr); err2 == nil {
			rr.CompiledAt = t2
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

// ListRules returns the rules of a repository, optionally filtered by status,
// ordered by key. Parameters are loaded per rule.
func (db *DB) ListRules(repoKey, status string) ([]registry.RuleDefinition, error) {
	const q = `
		SELECT key, name, html_description, default_severity, template, status
		  FROM rules
		 WHERE repo_key = ?
		   AND (? = '' OR status = ?)
		 ORDER BY key`
	rows, err := db.conn.Query(q, repoKey, status, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []registry.RuleDefinition
	for rows.Next() {
		var rd registry.RuleDefinition
		var tpl int
		if err := rows.Scan(&rd.Key, &rd.Name, &rd.HTMLDescription, &rd.DefaultSeverity, &tpl, &rd.Status); err != nil {
			return nil, err
		}
		rd.Template = tpl != 0
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		params, err := db.listParams(repoKey, out[i].Key)
		if err != nil {
			return nil, err
		}
		out[i].Params = params
	}
	return out, nil
}

func (db *DB) listParams(repoKey, ruleKey string) ([]registry.ParamDefinition, error) {
	const q = `
		SELECT key, description, default_value, type
		  FROM rule_params
		 WHERE repo_key = ? AND rule_key = ?
		 ORDER BY key`
	rows, err := db.conn.Query(q, repoKey, ruleKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []registry.ParamDefinition
	for rows.Next() {
		var pd registry.ParamDefinition
		if err := rows.Scan(&pd.Key, &pd.Description, &pd.DefaultValue, &pd.Type); err != nil {
			return nil, err
		}
		out = append(out, pd)
	}
	return out, rows.Err()
}
