package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/limaJavier/coursegen/pkg/model"
	"github.com/limaJavier/coursegen/pkg/store"
)

func (s *session) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <catalog.json|catalog.csv>",
		Short: "Load a catalog into the database",
		Long:  "Load a JSON or CSV catalog into the SQLite database, replacing whatever it held.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.loadConfig()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			catalog, err := loadCatalog(args[0])
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}

			sqliteStore, err := store.NewSQLiteStore(cfg.Database)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer sqliteStore.Close()

			if err := sqliteStore.Persist(cmd.Context(), catalog); err != nil {
				return fmt.Errorf("import: %w", err)
			}

			sections := 0
			for _, course := range catalog.Courses {
				sections += len(course.Components)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d courses and %d sections into %v\n", len(catalog.Courses), sections, cfg.Database)
			return nil
		},
	}
}

func (s *session) coursesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "courses [query]",
		Short: "List the courses of the catalog",
		Long:  `List the courses of the catalog, only those matching query (e.g. "csc1", "MATH 1") when given.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := s.setup()
			if err != nil {
				return err
			}
			defer env.close()

			var keys []model.CourseKey
			if len(args) == 1 {
				keys, err = env.store.Search(cmd.Context(), args[0])
			} else {
				keys, err = env.store.Keys(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("courses: %w", err)
			}

			env.logger.Debug("listed courses", zap.Int("count", len(keys)))
			for _, key := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}
}
