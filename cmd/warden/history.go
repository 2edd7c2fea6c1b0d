package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/warden/internal/history"
)

// historyFlags holds the parsed flags for the history command.
type historyFlags struct {
	db     string
	limit  int
	format string
}

func newHistoryCmd() *cobra.Command {
	var flags historyFlags
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved classification runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.db, "db", "", "SQLite history file written by classify --db")
	f.IntVar(&flags.limit, "limit", history.DefaultLimit, "Maximum number of runs to list")
	f.StringVar(&flags.format, "format", "table", "Output format: table or json")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}

func runHistory(ctx context.Context, w io.Writer, flags historyFlags) error {
	if flags.format != "table" && flags.format != "json" {
		return codeError(exitUsage, "--format must be table or json, got %q", flags.format)
	}

	store, err := history.Open(ctx, flags.db)
	if err != nil {
		return codeError(exitInput, "opening history: %s", err)
	}
	defer store.Close()

	runs, err := store.List(ctx, flags.limit)
	if err != nil {
		return codeError(exitInput, "reading history: %s", err)
	}

	if flags.format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tTIER\tSCORE\tREVIEW\tNAME\tSOURCE")
	for _, r := range runs {
		review := ""
		if r.NeedsReview {
			review = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
			r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Tier, r.Score, review, r.Name, r.Source)
	}
	return tw.Flush()
}
