package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reelquery/internal/catalog"
	"reelquery/internal/config"
	"reelquery/internal/metrics"
	"reelquery/internal/router"
	"reelquery/internal/sqlguard"
)

type askOptions struct {
	uid         string
	externalID  string
	country     string
	from        string
	to          string
	refine      string
	asJSON      bool
	showMetrics bool
}

func newAskCommand(ctx *commandContext) *cobra.Command {
	var opts askOptions

	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Answer a question about the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return ctx.withCatalog(func(cfg *config.Config, store *catalog.Store) error {
				reg := metrics.New()
				r, err := router.New(router.Dependencies{
					Config:  cfg,
					Store:   store,
					Metrics: reg,
					Logger:  ctx.loggerValue(),
				})
				if err != nil {
					return err
				}
				resp, err := r.Answer(cmd.Context(), req)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if opts.asJSON {
					if err := writeJSON(cmd, resp); err != nil {
						return err
					}
				} else {
					renderResponse(out, resp, shouldColorize(out))
				}
				if opts.showMetrics {
					return renderMetrics(out, reg)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.uid, "uid", "", "Catalog uid of the title")
	cmd.Flags().StringVar(&opts.externalID, "external-id", "", "External reference id of the title (tt...)")
	cmd.Flags().StringVar(&opts.country, "country", "", "Country as ISO2 code or name")
	cmd.Flags().StringVar(&opts.from, "from", "", "Window start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.to, "to", "", "Window end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.refine, "choose", "", "Answer to an earlier disambiguation (ordinal, year or director)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Output the response as JSON")
	cmd.Flags().BoolVar(&opts.showMetrics, "metrics", false, "Print route and cache counters after the answer")
	return cmd
}

func (o askOptions) request(question string) (router.Request, error) {
	req := router.Request{
		Question:   question,
		CatalogUID: o.uid,
		ExternalID: o.externalID,
		Country:    o.country,
		Refine:     o.refine,
	}
	if (o.from == "") != (o.to == "") {
		return router.Request{}, errors.New("--from and --to must be given together")
	}
	if o.from != "" {
		from, err := time.Parse(time.DateOnly, strings.TrimSpace(o.from))
		if err != nil {
			return router.Request{}, fmt.Errorf("parse --from: %w", err)
		}
		to, err := time.Parse(time.DateOnly, strings.TrimSpace(o.to))
		if err != nil {
			return router.Request{}, fmt.Errorf("parse --to: %w", err)
		}
		req.From, req.To = &from, &to
	}
	return req, nil
}

func renderResponse(out io.Writer, resp router.Response, colorize bool) {
	kind := statusOK
	switch resp.Status {
	case router.StatusNeedsDisambiguation:
		kind = statusWarn
	case router.StatusGuidance:
		kind = statusInfo
	case router.StatusNotFound:
		kind = statusError
	}
	detail := resp.Route
	if resp.Cached {
		detail += " (cached)"
	}
	fmt.Fprintln(out, renderStatusLine(string(resp.Status), kind, detail, colorize))
	fmt.Fprintln(out, resp.Text)

	switch {
	case resp.Ranking != nil:
		rows := make([][]string, 0, len(resp.Ranking.Rows))
		for _, row := range resp.Ranking.Rows {
			rows = append(rows, []string{
				strconv.Itoa(row.Rank), row.DisplayTitle, yearText(row.ReleaseYear), string(row.Kind), strconv.FormatInt(row.Hits, 10),
			})
		}
		fmt.Fprintln(out, renderTable([]string{"#", "Title", "Year", "Kind", "Hits"}, rows,
			[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignRight}))
	case resp.Disambiguation != nil:
		rows := make([][]string, 0, len(resp.Disambiguation.Choices))
		for i, choice := range resp.Disambiguation.Choices {
			rows = append(rows, []string{
				strconv.Itoa(i + 1), choice.DisplayTitle, yearText(choice.ReleaseYear),
				strings.Join(choice.Directors, ", "), fmt.Sprintf("%.2f", choice.Similarity),
			})
		}
		fmt.Fprintln(out, renderTable([]string{"#", "Title", "Year", "Directors", "Similarity"}, rows,
			[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignRight}))
	case resp.Popularity != nil && len(resp.Popularity.Breakdown) > 0:
		rows := make([][]string, 0, len(resp.Popularity.Breakdown))
		for _, row := range resp.Popularity.Breakdown {
			rows = append(rows, []string{row.Country, strconv.FormatInt(row.Hits, 10)})
		}
		fmt.Fprintln(out, renderTable([]string{"Country", "Hits"}, rows, []columnAlignment{alignLeft, alignRight}))
	case resp.Rows != nil:
		fmt.Fprintln(out, renderRows(resp.Rows.Rows))
	}
}

func renderRows(rows []sqlguard.Row) string {
	if len(rows) == 0 {
		return ""
	}
	columns := make([]string, 0, len(rows[0]))
	for column := range rows[0] {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, column := range columns {
			if value := row[column]; value != nil {
				cells[i] = fmt.Sprint(value)
			}
		}
		table = append(table, cells)
	}
	return renderTable(columns, table, nil)
}

func renderMetrics(out io.Writer, reg *metrics.Registry) error {
	samples, err := reg.Snapshot()
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(samples))
	for _, sample := range samples {
		rows = append(rows, []string{sample.Name, sample.Labels, strconv.FormatFloat(sample.Value, 'f', -1, 64)})
	}
	fmt.Fprintln(out, renderTable([]string{"Metric", "Labels", "Value"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight}))
	return nil
}

func yearText(year int) string {
	if year <= 0 {
		return ""
	}
	return strconv.Itoa(year)
}
