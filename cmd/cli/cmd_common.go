package main

import (
	"flag"

	"github.com/cybertimeline/cybertimeline/pkg/config"
	"github.com/cybertimeline/cybertimeline/pkg/entity"
	"github.com/cybertimeline/cybertimeline/pkg/ingest"
	"github.com/cybertimeline/cybertimeline/pkg/snapshot"
	"github.com/cybertimeline/cybertimeline/pkg/ui"
)

// commonFlags are accepted by every subcommand.
type commonFlags struct {
	configPath *string
	silent     *bool
	noColor    *bool
}

func addCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		configPath: fs.String("config", "cybertl.yaml", "Pipeline config file"),
		silent:     fs.Bool("silent", false, "Suppress status output"),
		noColor:    fs.Bool("no-color", false, "Disable colored output"),
	}
}

// apply loads the config and sets the global UI state. Must be called
// after fs.Parse.
func (c commonFlags) apply() *config.Config {
	ui.SetSilent(*c.silent)
	ui.SetNoColor(*c.noColor)

	cfg, err := config.Load(*c.configPath)
	if err != nil {
		exitWithError("Loading config: %v", err)
	}
	return cfg
}

// parseMonth validates the required -month flag.
func parseMonth(raw, usage string) entity.Month {
	if raw == "" {
		exitWithUsage("-month is required.", usage)
	}
	month, err := entity.ParseMonth(raw)
	if err != nil {
		exitWithError("Invalid month: %v", err)
	}
	return month
}

func openStore(dir string) *snapshot.Store {
	store, err := snapshot.NewStore(dir)
	if err != nil {
		exitWithError("Opening snapshot store %s: %v", dir, err)
	}
	return store
}

func printWarnings(warnings []ingest.Warning) {
	for _, w := range warnings {
		ui.PrintWarning(w.Message)
	}
}
