// Package cli implements the coursegen commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/limaJavier/coursegen/internal/config"
	"github.com/limaJavier/coursegen/internal/logging"
	"github.com/limaJavier/coursegen/pkg/generator"
	"github.com/limaJavier/coursegen/pkg/model"
	"github.com/limaJavier/coursegen/pkg/store"
)

// Exit codes of the schedule commands
const (
	ExitFound        = 10
	ExitExhausted    = 20
	ExitVerifyFailed = 15
)

// session carries the flags of one invocation and its outcome
type session struct {
	configPath  string
	dbPath      string
	catalogPath string
	logLevel    string

	exitCode int
}

// NewRootCommand builds the command tree. ExitCode reports the outcome of the executed command.
func NewRootCommand() (*cobra.Command, func() int) {
	s := &session{}
	root := &cobra.Command{
		Use:           "coursegen",
		Short:         "Enumerate conflict-free course schedules",
		Long:          "Walks every conflict-free combination of sections for a set of courses, one schedule at a time, forward or backward from a given state.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&s.configPath, "config", "c", "", "Config file (default: config.yaml or config.json next to the executable)")
	root.PersistentFlags().StringVarP(&s.dbPath, "db", "d", "", "SQLite catalog database (overrides the config)")
	root.PersistentFlags().StringVar(&s.catalogPath, "catalog", "", "JSON or CSV catalog served from memory instead of the database (overrides the config)")
	root.PersistentFlags().StringVar(&s.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides the config)")

	root.AddCommand(
		s.nextCommand(),
		s.exportCommand(),
		s.verifyCommand(),
		s.importCommand(),
		s.coursesCommand(),
	)

	return root, func() int { return s.exitCode }
}

// Execute runs the command line and returns the process exit code
func Execute() int {
	root, exitCode := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return exitCode()
}

// environment is everything a command needs once the configuration is resolved
type environment struct {
	config *config.Config
	logger *zap.Logger
	store  store.Store
}

func (s *session) loadConfig() (*config.Config, error) {
	path := s.configPath
	if path == "" {
		path = defaultConfigPath()
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	//** Flags override the file
	if s.dbPath != "" {
		cfg.Database = s.dbPath
	}
	if s.catalogPath != "" {
		cfg.Catalog = s.catalogPath
	}
	if s.logLevel != "" {
		cfg.Log.Level = s.logLevel
	}
	return cfg, cfg.Validate()
}

// Looks for a config file next to the executable
func defaultConfigPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	return config.Find(filepath.Dir(execPath))
}

func (s *session) setup() (*environment, error) {
	cfg, err := s.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	catalogStore, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug("environment ready",
		zap.String("database", cfg.Database),
		zap.String("catalog", cfg.Catalog),
		zap.String("stalePolicy", cfg.StalePolicy),
	)
	return &environment{config: cfg, logger: logger, store: catalogStore}, nil
}

func (env *environment) close() {
	env.store.Close()
	env.logger.Sync()
}

// Serves the catalog file when one is configured, the database otherwise
func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.Catalog == "" {
		sqliteStore, err := store.NewSQLiteStore(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return sqliteStore, nil
	}

	catalog, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return store.NewCatalogStore(catalog), nil
}

func loadCatalog(path string) (model.Catalog, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return model.CatalogFromCsvFile(path, ',')
	}
	return model.CatalogFromJson(path)
}

// Resolves the --courses flag into courses, in the given order and without repeats
func (env *environment) courses(ctx context.Context, names []string) ([]model.Course, error) {
	if len(names) == 0 {
		return nil, errors.New("at least one course must be given")
	}

	keys := make([]model.CourseKey, 0, len(names))
	for _, name := range names {
		key, err := model.ParseCourseKey(name)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return env.store.Courses(ctx, lo.Uniq(keys))
}

func (env *environment) generator() (generator.Generator, error) {
	policy, err := env.config.Policy()
	if err != nil {
		return nil, err
	}
	return generator.NewGenerator(policy, env.logger), nil
}

func (env *environment) location() (*time.Location, error) {
	return env.config.Location()
}
