package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/agvfleet/app"
	corecatalog "github.com/kilianp07/agvfleet/core/catalog"
	"github.com/kilianp07/agvfleet/pkg/units"
)

var (
	catalogImperial bool
	catalogFormat   string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Vehicle catalog commands",
}

var catalogLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the configured vehicle types",
	Args:  cobra.NoArgs,
	RunE:  runCatalogLs,
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the configured catalog as YAML or JSON",
	Args:  cobra.NoArgs,
	RunE:  runCatalogExport,
}

func init() {
	catalogLsCmd.Flags().BoolVar(&catalogImperial, "imperial", false, "show feet, pounds and mph")
	catalogExportCmd.Flags().StringVarP(&catalogFormat, "format", "f", "yaml", "yaml or json")
	catalogCmd.AddCommand(catalogLsCmd, catalogExportCmd)
	rootCmd.AddCommand(catalogCmd)
}

func loadCatalogService(cmd *cobra.Command) (*app.Service, func(), error) {
	cfg, teardown, err := setup()
	if err != nil {
		return nil, nil, err
	}
	svc, err := app.New(cmd.Context(), cfg)
	if err != nil {
		teardown()
		return nil, nil, err
	}
	return svc, func() {
		_ = svc.Close()
		teardown()
	}, nil
}

func runCatalogLs(cmd *cobra.Command, _ []string) error {
	svc, done, err := loadCatalogService(cmd)
	if err != nil {
		return err
	}
	defer done()

	sys := units.Metric
	if catalogImperial {
		sys = units.Imperial
	}
	cat := svc.Catalog()
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "CODE\tNAME\tPAYLOAD (%s)\tSPEED (%s)\tBATTERY (Ah)\tACCESSORIES\n", sys.WeightUnit(), sys.SpeedUnit())
	for _, code := range cat.Codes() {
		v := cat[code]
		acc := make([]string, len(v.Accessories))
		for i, a := range v.Accessories {
			acc[i] = a.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			code, v.Name, sys.Weight(v.MaxPayload), sys.Speed(v.MaxSpeed),
			strconv.FormatFloat(v.BatteryCapacity, 'f', -1, 64), strings.Join(acc, ", "))
	}
	return tw.Flush()
}

func runCatalogExport(cmd *cobra.Command, _ []string) error {
	format := corecatalog.Format(strings.ToLower(catalogFormat))
	if format != corecatalog.FormatYAML && format != corecatalog.FormatJSON {
		return fmt.Errorf("unknown format %q", catalogFormat)
	}
	svc, done, err := loadCatalogService(cmd)
	if err != nil {
		return err
	}
	defer done()
	return corecatalog.Encode(cmd.OutOrStdout(), svc.Catalog(), format)
}
