// Command chartly builds renderable charts from tabular data files.
//
// Input is a column-oriented JSON file or a CSV file; roles are bound to
// columns with repeated --map role=column flags:
//
//	chartly render --kind bar --input sales.csv --map x=region --map y=revenue
//	chartly save --kind sankey --input flows.json --map source=src --map target=dst --map value=amt --out flows.html
//	chartly validate --kind candlestick --input ohlc.csv --map x=date --map open=open ...
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chartly-org/chartly/engine"
	"github.com/chartly-org/chartly/helpers"
	"github.com/chartly-org/chartly/logging"
)

var (
	flagKind    string
	flagInput   string
	flagMap     []string
	flagOut     string
	flagVerbose bool
)

func main() {
	root := &cobra.Command{
		Use:           "chartly",
		Short:         "Build renderable charts from tabular data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagKind, "kind", "", "chart kind (see 'chartly list')")
	root.PersistentFlags().StringVar(&flagInput, "input", "", "dataset file (.json or .csv)")
	root.PersistentFlags().StringArrayVar(&flagMap, "map", nil, "role=column binding, repeatable")
	root.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "debug logging")

	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Render a chart to a standalone HTML file",
		RunE:  runSave,
	}
	saveCmd.Flags().StringVar(&flagOut, "out", "chart.html", "output HTML path")

	root.AddCommand(
		&cobra.Command{
			Use:   "render",
			Short: "Print the chart's option JSON to stdout",
			RunE:  runRender,
		},
		saveCmd,
		&cobra.Command{
			Use:   "open",
			Short: "Render a chart and open it in the default browser",
			RunE:  runOpen,
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Check a role mapping against a dataset without rendering",
			RunE:  runValidate,
		},
		&cobra.Command{
			Use:   "list",
			Short: "List available chart kinds",
			RunE:  runList,
		},
		&cobra.Command{
			Use:   "sample",
			Short: "Print sample data for a chart kind",
			RunE:  runSample,
		},
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRenderer() *engine.Renderer {
	cfg := logging.Config{Service: "chartly"}
	if flagVerbose {
		cfg.Level = slog.LevelDebug
	}
	return engine.New(engine.WithLogger(logging.New(cfg)))
}

// loadDatasetJSON reads --input and normalizes it to column-oriented JSON.
func loadDatasetJSON() (string, error) {
	if flagInput == "" {
		return "", fmt.Errorf("--input is required")
	}
	raw, err := os.ReadFile(flagInput)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}

	if strings.EqualFold(filepath.Ext(flagInput), ".csv") {
		ds, err := helpers.ParseCSVDataset(raw)
		if err != nil {
			return "", fmt.Errorf("parse csv: %w", err)
		}
		out, err := json.Marshal(ds)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	return string(raw), nil
}

// parseMappings turns repeated role=column flags into a RoleMapping.
func parseMappings(pairs []string) (engine.RoleMapping, error) {
	mapping := make(engine.RoleMapping, len(pairs))
	for _, pair := range pairs {
		role, column, ok := strings.Cut(pair, "=")
		if !ok || role == "" || column == "" {
			return nil, fmt.Errorf("invalid --map %q, expected role=column", pair)
		}
		mapping[role] = column
	}
	return mapping, nil
}

func requireKind() error {
	if flagKind == "" {
		return fmt.Errorf("--kind is required")
	}
	return nil
}

func runRender(cmd *cobra.Command, _ []string) error {
	if err := requireKind(); err != nil {
		return err
	}
	datasetJSON, err := loadDatasetJSON()
	if err != nil {
		return err
	}
	mapping, err := parseMappings(flagMap)
	if err != nil {
		return err
	}

	out, err := newRenderer().RenderChart(flagKind, datasetJSON, mapping)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func runSave(cmd *cobra.Command, _ []string) error {
	if err := requireKind(); err != nil {
		return err
	}
	datasetJSON, err := loadDatasetJSON()
	if err != nil {
		return err
	}
	mapping, err := parseMappings(flagMap)
	if err != nil {
		return err
	}

	path, err := newRenderer().SaveChartAsFile(flagKind, datasetJSON, mapping, flagOut)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Saved:", path)
	return nil
}

func runOpen(cmd *cobra.Command, _ []string) error {
	if err := requireKind(); err != nil {
		return err
	}
	datasetJSON, err := loadDatasetJSON()
	if err != nil {
		return err
	}
	mapping, err := parseMappings(flagMap)
	if err != nil {
		return err
	}

	path, err := helpers.OpenChartInBrowser(newRenderer(), flagKind, datasetJSON, mapping)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Opened:", path)
	return nil
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if err := requireKind(); err != nil {
		return err
	}
	datasetJSON, err := loadDatasetJSON()
	if err != nil {
		return err
	}
	mapping, err := parseMappings(flagMap)
	if err != nil {
		return err
	}

	result := newRenderer().ValidateChartMappings(flagKind, datasetJSON, mapping)
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	if !result.Valid {
		os.Exit(2)
	}
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	for _, kind := range engine.New().AvailableCharts() {
		fmt.Fprintln(cmd.OutOrStdout(), kind)
	}
	return nil
}

func runSample(cmd *cobra.Command, _ []string) error {
	if err := requireKind(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), engine.SampleData(flagKind))
	return nil
}
