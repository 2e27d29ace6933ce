package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reelquery/internal/catalog"
	"reelquery/internal/config"
	"reelquery/internal/identification"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var topK int
	var minSimilarity float64
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <term...>",
		Short: "Fuzzy-search catalog titles",
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.Join(args, " ")
			return ctx.withCatalog(func(cfg *config.Config, store *catalog.Store) error {
				if topK <= 0 {
					topK = cfg.Search.TopK
				}
				if minSimilarity <= 0 {
					minSimilarity = cfg.Search.MinSimilarity
				}
				searcher := identification.NewSearcher(store, nil, ctx.loggerValue())
				candidates, err := searcher.Search(cmd.Context(), term, topK, minSimilarity)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, candidates)
				}

				out := cmd.OutOrStdout()
				if len(candidates) == 0 {
					fmt.Fprintf(out, "No titles at or above similarity %.2f\n", minSimilarity)
					return nil
				}
				rows := make([][]string, 0, len(candidates))
				for _, c := range candidates {
					rows = append(rows, []string{
						c.CatalogUID, c.DisplayTitle, yearText(c.ReleaseYear), string(c.Kind),
						c.ExternalID, fmt.Sprintf("%.3f", c.Similarity),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"UID", "Title", "Year", "Kind", "External ID", "Similarity"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignRight}))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&topK, "top", 0, "Maximum number of results (default from config)")
	cmd.Flags().Float64Var(&minSimilarity, "min-similarity", 0, "Minimum trigram similarity (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output candidates as JSON")
	return cmd
}
