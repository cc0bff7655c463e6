package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/agvfleet/app"
	"github.com/kilianp07/agvfleet/pkg/export"
)

var (
	whatIfFormat  string
	whatIfOutput  string
	whatIfTimeout time.Duration
)

var whatIfCmd = &cobra.Command{
	Use:   "whatif REQUEST",
	Short: "Compare a request against alternative availability and traffic scenarios",
	Long: `Sizes the request as the baseline, then every scenario listed in the
request file. Without scenarios, a stricter availability target, heavy
traffic and both combined are compared.`,
	Args: cobra.ExactArgs(1),
	RunE: runWhatIf,
}

func init() {
	whatIfCmd.Flags().StringVarP(&whatIfFormat, "format", "f", "csv", "output format: csv or json")
	whatIfCmd.Flags().StringVarP(&whatIfOutput, "output", "o", "", "output file (stdout when empty)")
	whatIfCmd.Flags().DurationVar(&whatIfTimeout, "timeout", 30*time.Second, "overall timeout")
	rootCmd.AddCommand(whatIfCmd)
}

func runWhatIf(cmd *cobra.Command, args []string) error {
	if whatIfFormat != "csv" && whatIfFormat != "json" {
		return fmt.Errorf("unknown format %q", whatIfFormat)
	}
	req, err := app.LoadRequest(args[0])
	if err != nil {
		return err
	}
	req.Source = "cli"

	cfg, teardown, err := setup()
	if err != nil {
		return err
	}
	defer teardown()

	ctx, cancel := withTimeout(whatIfTimeout)
	defer cancel()
	svc, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	run, err := svc.WhatIf(ctx, req, nil)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), whatIfOutput, func(w io.Writer) error {
		if whatIfFormat == "json" {
			return export.WriteJSON(w, run)
		}
		return export.WriteWhatIfCSV(w, run.Report)
	})
}
