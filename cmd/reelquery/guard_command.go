package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reelquery/internal/sqlguard"
)

func newGuardCommand(ctx *commandContext) *cobra.Command {
	guardCmd := &cobra.Command{
		Use:   "guard",
		Short: "Inspect the generated-query safety gate",
	}
	guardCmd.AddCommand(newGuardCheckCommand(ctx))
	guardCmd.AddCommand(newGuardTablesCommand(ctx))
	return guardCmd
}

func (c *commandContext) gate() (*sqlguard.Gate, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return sqlguard.NewGate(sqlguard.NewPolicy(cfg.Guard.Tables), cfg.Guard.MaxQueryLength), nil
}

func newGuardCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check <sql...>",
		Short: "Report whether a query would pass the gate",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gate, err := ctx.gate()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			_, err = gate.Validate(strings.Join(args, " "))
			if err == nil {
				fmt.Fprintln(out, renderStatusLine("query", statusOK, "accepted", colorize))
				return nil
			}
			var rejection *sqlguard.RejectionError
			if !errors.As(err, &rejection) {
				return err
			}
			message := rejection.Reason
			if rejection.Detail != "" {
				message += " (" + rejection.Detail + ")"
			}
			fmt.Fprintln(out, renderStatusLine("query", statusError, message, colorize))
			return fmt.Errorf("query rejected: %s", rejection.Reason)
		},
	}
}

func newGuardTablesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the whitelisted tables and columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			gate, err := ctx.gate()
			if err != nil {
				return err
			}
			policy := gate.Policy()
			rows := make([][]string, 0, len(policy.Tables()))
			for _, table := range policy.Tables() {
				rows = append(rows, []string{table, strings.Join(policy.Columns(table), ", ")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Table", "Columns"}, rows, nil))
			return nil
		},
	}
}
