package main

import (
	"bytes"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/warden/annex"
	"github.com/JaimeStill/warden/risk"
)

// annexFlags holds the parsed flags for the annex command.
type annexFlags struct {
	format string
	out    string
}

func newAnnexCmd() *cobra.Command {
	var flags annexFlags
	cmd := &cobra.Command{
		Use:   "annex <profile-file>",
		Short: "Render Annex IV technical documentation for a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnex(cmd.OutOrStdout(), args[0], flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.format, "format", "text", "Output format: text, markdown, or json")
	f.StringVar(&flags.out, "out", "", "Write output to file instead of stdout")
	return cmd
}

func runAnnex(w io.Writer, path string, flags annexFlags) error {
	format, err := annex.ParseFormat(flags.format)
	if err != nil {
		return codeError(exitUsage, "invalid --format: %s", err)
	}

	p, err := loadProfile(path)
	if err != nil {
		return codeError(exitInput, "loading profile: %s", err)
	}

	doc := annex.Generate(p, risk.Classify(p))

	var buf bytes.Buffer
	if err := annex.Render(&buf, doc, format); err != nil {
		return codeError(exitInput, "rendering document: %s", err)
	}

	if flags.out != "" {
		if err := os.WriteFile(flags.out, buf.Bytes(), 0o644); err != nil {
			return codeError(exitInput, "writing output file: %s", err)
		}
		return nil
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return codeError(exitInput, "writing output: %s", err)
	}
	return nil
}
