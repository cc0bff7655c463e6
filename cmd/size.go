package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/agvfleet/app"
	"github.com/kilianp07/agvfleet/pkg/export"
)

var (
	sizeFormat  string
	sizeOutput  string
	sizeTimeout time.Duration
)

var sizeCmd = &cobra.Command{
	Use:   "size REQUEST",
	Short: "Size the fleet for a request file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSize,
}

func init() {
	sizeCmd.Flags().StringVarP(&sizeFormat, "format", "f", "json", "output format: json, routes-csv, battery-csv or html")
	sizeCmd.Flags().StringVarP(&sizeOutput, "output", "o", "", "output file (stdout when empty)")
	sizeCmd.Flags().DurationVar(&sizeTimeout, "timeout", 30*time.Second, "overall timeout")
	rootCmd.AddCommand(sizeCmd)
}

func runSize(cmd *cobra.Command, args []string) error {
	write, err := resultWriter(sizeFormat)
	if err != nil {
		return err
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

	ctx, cancel := withTimeout(sizeTimeout)
	defer cancel()
	svc, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	run, err := svc.Size(ctx, req)
	if err != nil {
		return err
	}
	for _, re := range run.Result.RouteErrors {
		if _, ferr := fmt.Fprintf(cmd.ErrOrStderr(), "skipped %v\n", re); ferr != nil {
			return ferr
		}
	}
	return writeOutput(cmd.OutOrStdout(), sizeOutput, func(w io.Writer) error {
		return write(w, run)
	})
}

type runWriter func(io.Writer, app.Run) error

func resultWriter(format string) (runWriter, error) {
	switch format {
	case "json":
		return func(w io.Writer, r app.Run) error { return export.WriteJSON(w, r) }, nil
	case "routes-csv":
		return func(w io.Writer, r app.Run) error { return export.WriteRoutesCSV(w, r.Result) }, nil
	case "battery-csv":
		return func(w io.Writer, r app.Run) error { return export.WriteBatteryCSV(w, r.Result) }, nil
	case "html":
		return func(w io.Writer, r app.Run) error { return export.WriteHTML(w, r.Result) }, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func writeOutput(stdout io.Writer, path string, fn func(io.Writer) error) (err error) {
	if path == "" {
		return fn(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(f)
}
