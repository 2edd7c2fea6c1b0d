package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/warden/internal/history"
	"github.com/JaimeStill/warden/risk"
)

// classifyFlags holds the parsed flags for the classify command.
type classifyFlags struct {
	format string
	db     string
	failOn string
}

// outcome is the classification of one profile file.
type outcome struct {
	Source  string       `json:"source"`
	Profile risk.Profile `json:"-"`
	Name    string       `json:"name"`
	Result  risk.Result  `json:"result"`
}

func newClassifyCmd() *cobra.Command {
	var flags classifyFlags
	cmd := &cobra.Command{
		Use:   "classify <profile-file>...",
		Short: "Classify one or more system profiles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd.Context(), cmd.OutOrStdout(), args, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.format, "format", "json", "Output format: json or md")
	f.StringVar(&flags.db, "db", "", "Save each run into this SQLite history file")
	f.StringVar(&flags.failOn, "fail-on", "", "Exit 2 if any result is at or above this tier")
	return cmd
}

func runClassify(ctx context.Context, w io.Writer, paths []string, flags classifyFlags) error {
	if flags.format != "json" && flags.format != "md" {
		return codeError(exitUsage, "--format must be json or md, got %q", flags.format)
	}

	var threshold risk.Tier
	if flags.failOn != "" {
		t, err := risk.ParseTier(flags.failOn)
		if err != nil {
			return codeError(exitUsage, "invalid --fail-on: %s", err)
		}
		threshold = t
	}

	outcomes, err := classifyAll(ctx, paths)
	if err != nil {
		return codeError(exitInput, "loading profile: %s", err)
	}

	if flags.db != "" {
		if err := saveRuns(ctx, flags.db, outcomes); err != nil {
			return codeError(exitInput, "saving history: %s", err)
		}
	}

	switch flags.format {
	case "md":
		err = writeMarkdown(w, outcomes)
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(outcomes)
	}
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if threshold != "" {
		tiers := make([]risk.Tier, len(outcomes))
		for i, o := range outcomes {
			tiers[i] = o.Result.Tier
		}
		if top := risk.Highest(tiers...); top.AtLeast(threshold) {
			return codeError(exitFailOn, "highest tier %s is at or above --fail-on %s", top, threshold)
		}
	}
	return nil
}

// classifyAll loads and classifies every path concurrently.
// Outcomes are returned in argument order.
func classifyAll(ctx context.Context, paths []string) ([]outcome, error) {
	outcomes := make([]outcome, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := loadProfile(path)
			if err != nil {
				return err
			}
			outcomes[i] = outcome{
				Source:  path,
				Profile: p,
				Name:    p.Name,
				Result:  risk.Classify(p),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func saveRuns(ctx context.Context, path string, outcomes []outcome) error {
	store, err := history.Open(ctx, path)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, o := range outcomes {
		if _, err := store.Save(ctx, o.Source, o.Profile, o.Result); err != nil {
			return err
		}
	}
	return nil
}
