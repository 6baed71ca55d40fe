package export

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Farmer51Peace/sonarqube/internal/registry"
)

func WriteJSON(outDir string, def registry.RepositoryDefinition) (string, error) {
	path := filepath.Join(outDir, def.Key+".json")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false) // descriptions carry markup
	enc.SetIndent("", "  ")
	if err := enc.Encode(def); err != nil {
		return "", err
	}
	return path, nil
}
