package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"reelquery/internal/catalog"
	"reelquery/internal/config"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the title catalog",
	}
	catalogCmd.AddCommand(newCatalogImportCommand(ctx))
	catalogCmd.AddCommand(newCatalogStatsCommand(ctx))
	return catalogCmd
}

func newCatalogImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dataset.json>",
		Short: "Load a JSON dataset into the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open dataset: %w", err)
			}
			defer file.Close()

			dataset, err := catalog.LoadDataset(file)
			if err != nil {
				return err
			}

			return ctx.withCatalog(func(cfg *config.Config, store *catalog.Store) error {
				lock := catalog.NewImportLock(store.Path())
				if err := lock.Acquire(); err != nil {
					return err
				}
				defer func() { _ = lock.Release() }()

				summary, err := store.Import(cmd.Context(), dataset)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d titles (%d metadata, %d popularity, %d availability rows) into %s\n",
					summary.Titles, summary.Metadata, summary.Popularity, summary.Availability, store.Path())
				return nil
			})
		},
	}
}

func newCatalogStatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog row counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(cfg *config.Config, store *catalog.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, stats)
				}
				rows := [][]string{
					{"titles", strconv.FormatInt(stats.Titles, 10)},
					{"title_metadata", strconv.FormatInt(stats.Metadata, 10)},
					{"popularity", strconv.FormatInt(stats.Popularity, 10)},
					{"availability", strconv.FormatInt(stats.Availability, 10)},
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Catalog: %s\n", store.Path())
				fmt.Fprintln(out, renderTable([]string{"Table", "Rows"}, rows, []columnAlignment{alignLeft, alignRight}))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output counts as JSON")
	return cmd
}
