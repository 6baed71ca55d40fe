package shared

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database struct {
		Driver string `yaml:"driver"` // "sqlite" (default)
		DSN    string `yaml:"dsn"`    // "./rulec.db"
	} `yaml:"database"`

	Repository struct {
		Key      string   `yaml:"key"`      // repository key, e.g. "go-checks"
		Language string   `yaml:"language"` // language the rules apply to
		Packs    []string `yaml:"packs"`    // optional YAML rule packs
	} `yaml:"repository"`

	Checks struct {
		Disabled []string `yaml:"disabled"` // rule keys excluded from compilation
	} `yaml:"checks"`

	Export struct {
		OutDir string `yaml:"out_dir"` // "./out"
	} `yaml:"export"`

	Server struct {
		Addr string `yaml:"addr"` // ":8080"
	} `yaml:"server"`

	Logging struct {
		Format string `yaml:"format"` // "json"|"text"
		Level  string `yaml:"level"`  // "info"|"debug"|"warn"|"error"
	} `yaml:"logging"`
}

func DefaultConfig() Config {
	var c Config
	c.Database.Driver = "sqlite"
	c.Database.DSN = "./rulec.db"
	c.Repository.Key = "checks"
	c.Export.OutDir = "./out"
	c.Server.Addr = ":8080"
	c.Logging.Format = "json"
	c.Logging.Level = "info"
	return c
}

func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(b, &c)
		}
	}
	// Env overrides (simple, explicit)
	if v := os.Getenv("RULEC_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("RULEC_REPO_KEY"); v != "" {
		c.Repository.Key = v
	}
	if v := os.Getenv("RULEC_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("RULEC_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("RULEC_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("RULEC_OUT_DIR"); v != "" {
		c.Export.OutDir = v
	}
	return c, nil
}
