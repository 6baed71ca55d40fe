package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Farmer51Peace/sonarqube/internal/api"
	"github.com/Farmer51Peace/sonarqube/internal/checks"
	"github.com/Farmer51Peace/sonarqube/internal/definitions"
	"github.com/Farmer51Peace/sonarqube/internal/dsl"
	"github.com/Farmer51Peace/sonarqube/internal/export"
	"github.com/Farmer51Peace/sonarqube/internal/registry"
	"github.com/Farmer51Peace/sonarqube/internal/schema"
	"github.com/Farmer51Peace/sonarqube/internal/security"
	"github.com/Farmer51Peace/sonarqube/internal/shared"
	"github.com/Farmer51Peace/sonarqube/internal/storage"
)

const version = "0.3.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "compile":
		compileCmd(os.Args[2:])
	case "serve":
		serveCmd(os.Args[2:])
	case "diff":
		diffCmd(os.Args[2:])
	case "user-add":
		userAddCmd(os.Args[2:])
	case "version":
		fmt.Println("rulec", version)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `rulec – rule definitions compiler

Usage:
  rulec compile  [--key <repo-key>] [--language <lang>] [--pack a.yaml,b.yaml] [--out <dir>] [--db ./rulec.db] [--config ./rulec.yaml]
  rulec serve    [--addr :8080] [--db ./rulec.db] [--config ./rulec.yaml]
  rulec diff     --base <repo-key> --head <repo-key> [--out <dir>] [--db ./rulec.db]
  rulec user-add --username <name> --password <pw> [--role viewer] [--db ./rulec.db]
  rulec version
`)
}

func compileCmd(args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	repoKey := fs.String("key", "", "Repository key")
	language := fs.String("language", "", "Repository language")
	packs := fs.String("pack", "", "Comma-separated YAML rule packs")
	outDir := fs.String("out", "", "Output directory for exports")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	// precedence: flags > config > defaults
	if *repoKey == "" {
		*repoKey = cfg.Repository.Key
	}
	if *language == "" {
		*language = cfg.Repository.Language
	}
	if *outDir == "" {
		*outDir = cfg.Export.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	packList := cfg.Repository.Packs
	if *packs != "" {
		packList = strings.Split(*packs, ",")
	}

	disabled := map[string]bool{}
	for _, k := range cfg.Checks.Disabled {
		disabled[strings.ToUpper(strings.TrimSpace(k))] = true
	}
	checks.SetSettings(checks.Settings{Disabled: disabled})

	repo := registry.New(*repoKey, *language)
	loader := definitions.NewLoader(schema.TagProvider{}, logger)
	if err := loader.LoadRules(repo, checks.List()...); err != nil {
		logger.Error("compile failed", "error", err)
		os.Exit(1)
	}
	for _, p := range packList {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := dsl.LoadAndRegister(p, repo)
		if err != nil {
			logger.Error("rule pack failed", "pack", p, "error", err)
			os.Exit(1)
		}
		logger.Info("rule pack loaded", "pack", p, "rules", n)
	}

	def := repo.Definition()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logger.Error("create out dir", "error", err)
		os.Exit(1)
	}
	for _, write := range []func(string, registry.RepositoryDefinition) (string, error){
		export.WriteJSON, export.WriteYAML, export.WriteHTML,
	} {
		path, err := write(*outDir, def)
		if err != nil {
			logger.Error("export failed", "error", err)
			os.Exit(1)
		}
		logger.Info("export written", "path", path)
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		logger.Error("open db", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		logger.Error("create schema", "error", err)
		os.Exit(1)
	}
	if err := db.SaveRepository(def, time.Now()); err != nil {
		logger.Error("save repository", "error", err)
		os.Exit(1)
	}
	logger.Info("repository compiled", "key", def.Key, "rules", len(def.Rules))
}

func serveCmd(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	addr := fs.String("addr", "", "Listen address")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
	if *addr == "" {
		*addr = cfg.Server.Addr
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		logger.Error("open db", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		logger.Error("create schema", "error", err)
		os.Exit(1)
	}

	srv := &api.Server{
		DB:              db,
		UserStore:       db,
		Logger:          logger,
		SessionDuration: 12 * time.Hour,
	}
	logger.Info("listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, srv.Routes()); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func diffCmd(args []string) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	base := fs.String("base", "", "Base repository key")
	head := fs.String("head", "", "Head repository key")
	outDir := fs.String("out", "", "Output directory")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
	if *outDir == "" {
		*outDir = cfg.Export.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *base == "" || *head == "" {
		fmt.Fprintln(os.Stderr, "diff requires --base and --head")
		os.Exit(2)
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		logger.Error("open db", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	baseDef, err := db.LoadRepository(*base)
	if err != nil {
		logger.Error("load base repository", "key", *base, "error", err)
		os.Exit(1)
	}
	headDef, err := db.LoadRepository(*head)
	if err != nil {
		logger.Error("load head repository", "key", *head, "error", err)
		os.Exit(1)
	}
	path, err := export.WriteDiffJSON(*outDir, baseDef, headDef)
	if err != nil {
		logger.Error("write diff", "error", err)
		os.Exit(1)
	}
	logger.Info("diff written", "path", path)
}

func userAddCmd(args []string) {
	fs := flag.NewFlagSet("user-add", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	username := fs.String("username", "", "Username")
	password := fs.String("password", "", "Password")
	role := fs.String("role", "viewer", "Role (viewer|admin)")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "user-add requires --username and --password")
		os.Exit(2)
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		logger.Error("open db", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		logger.Error("create schema", "error", err)
		os.Exit(1)
	}

	hash, err := security.HashPassword(*password)
	if err != nil {
		logger.Error("hash password", "error", err)
		os.Exit(1)
	}
	id, err := db.CreateUser(*username, hash, *role)
	if err != nil {
		logger.Error("create user", "error", err)
		os.Exit(1)
	}
	logger.Info("user created", "id", id, "username", *username, "role", *role)
}
