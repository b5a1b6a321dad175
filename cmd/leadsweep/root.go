package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/usecase"
)

type cliOptions struct {
	category   string
	location   string
	target     int
	outputPath string
	configPath string

	driverPath string
	engine     string
	headless   bool
	logLevel   string
	statusAddr string
}

// flagKeys maps CLI flags onto the configuration keys they override.
var flagKeys = map[string]string{
	"driver-path": "browser.driver_path",
	"engine":      "browser.engine",
	"headless":    "browser.headless",
	"log-level":   "log.level",
	"status-addr": "status.addr",
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:   "leadsweep",
		Short: "Collect business leads from a map search",
		Long: `leadsweep searches a map service for "<category> in <location>", scrolls the
results feed until enough listings are loaded, opens each one and writes the
business name, address, website and phone number to a CSV or XLSX file.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, configOverrides(cmd.Flags()))
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.category, "category", "c", "", "business category to search for, e.g. \"dentist\"")
	f.StringVarP(&opts.location, "location", "l", "", "location to search in, e.g. \"Austin, TX\"")
	f.IntVarP(&opts.target, "target", "n", usecase.DefaultTarget, "number of listings to collect")
	f.StringVarP(&opts.outputPath, "output", "o", usecase.DefaultOutputPath, "output file; .xlsx writes a workbook, anything else CSV")
	f.StringVar(&opts.configPath, "config", "", "YAML config file")
	f.StringVar(&opts.driverPath, "driver-path", "", "browser executable (default: engine lookup)")
	f.StringVar(&opts.engine, "engine", "chromedp", "browser engine: chromedp or rod")
	f.BoolVar(&opts.headless, "headless", false, "run the browser without a window")
	f.StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")
	f.StringVar(&opts.statusAddr, "status-addr", "", "serve /metrics and /api/progress on this address")

	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("location")

	return cmd
}

// configOverrides returns the explicitly set flags keyed by config key, so
// unset flags leave file and environment values alone.
func configOverrides(flags *pflag.FlagSet) map[string]any {
	overrides := make(map[string]any)
	for flag, key := range flagKeys {
		f := flags.Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		switch f.Value.Type() {
		case "bool":
			v, _ := flags.GetBool(flag)
			overrides[key] = v
		default:
			overrides[key] = f.Value.String()
		}
	}
	return overrides
}
