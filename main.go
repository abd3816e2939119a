package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go-micro.dev/v5/logger"

	"clientgraph/config"
	"clientgraph/handler"
	"clientgraph/server"
	"clientgraph/store"
)

func main() {
	if err := newRootCmd(config.Load()).ExecuteContext(context.Background()); err != nil {
		logger.Fatalf("clientgraph: %v", err)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "clientgraph",
		Short:         "GraphQL API for clients and their profiles",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfg.DBDialect, "dialect", cfg.DBDialect, "Database dialect: sqlite3 or postgres")
	rootCmd.PersistentFlags().StringVar(&cfg.DBDSN, "dsn", cfg.DBDSN, "Database connection string")
	rootCmd.Flags().StringVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	rootCmd.Flags().BoolVar(&cfg.GraphiQL, "graphiql", cfg.GraphiQL, "Serve GraphiQL to browsers")
	rootCmd.Flags().StringVar(&cfg.Registry, "registry", cfg.Registry, "Service registry: mdns or memory")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the client and profile tables and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer s.Close()
			logger.Info("Schema is up to date")
			return nil
		},
	})
	return rootCmd
}

// openStore connects to the database and runs the auto migration.
func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	s, err := store.Open(ctx, cfg.DBDialect, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	s, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	schema, err := handler.NewResolver(s).Schema()
	if err != nil {
		return fmt.Errorf("failed to build schema: %w", err)
	}

	service := server.New(ctx, &schema, server.Options{
		Addr:     cfg.Addr(),
		GraphiQL: cfg.GraphiQL,
		Registry: cfg.Registry,
	})
	if err := service.Run(); err != nil {
		return fmt.Errorf("failed to run server: %w", err)
	}
	return nil
}
