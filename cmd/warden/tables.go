package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/warden/risk"
)

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Print the classifier reference tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeTables(cmd.OutOrStdout())
		},
	}
}

func writeTables(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(risk.Snapshot())
}
