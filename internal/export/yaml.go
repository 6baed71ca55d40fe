package export

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Farmer51Peace/sonarqube/internal/registry"
)

func WriteYAML(outDir string, def registry.RepositoryDefinition) (string, error) {
	path := filepath.Join(outDir, def.Key+".yaml")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	defer enc.Close()
	if err := enc.Encode(def); err != nil {
		return "", err
	}
	return path, nil
}
