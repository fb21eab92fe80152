// Package cli wires the cobra command tree. Commands talk to the core
// through the driving ports; the dependencies are injected once by
// SetServices before Execute runs.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jimbaxley/codaframer/internal/core/ports/driven"
	"github.com/jimbaxley/codaframer/internal/core/ports/driving"
	"github.com/jimbaxley/codaframer/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Injected dependencies. Nil until SetServices is called; each command
// checks the ones it needs.
var (
	importer    driving.Importer
	dataSource  driven.DataSource
	registry    driven.CollectionRegistry
	configStore driven.ConfigStore
)

// newDataSource builds a data source from a token. Swapped by tests.
var newDataSource func(ctx context.Context, token string) driven.DataSource

// verboseFlag enables debug logging.
var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "codaframer",
	Short: "Sync Coda tables into content collections",
	Long: `codaframer maps Coda table schemas onto collection field types,
transforms cell values, resolves cross-table references, and keeps a
destination collection in step with its source table.

Start with 'codaframer auth' to store an API token, browse with
'codaframer docs' and 'codaframer tables', then run 'codaframer sync'.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose logging")
}

// Deps carries everything the commands need.
type Deps struct {
	Importer      driving.Importer
	DataSource    driven.DataSource
	Registry      driven.CollectionRegistry
	ConfigStore   driven.ConfigStore
	NewDataSource func(ctx context.Context, token string) driven.DataSource
}

// SetServices injects the command dependencies.
func SetServices(deps Deps) {
	importer = deps.Importer
	dataSource = deps.DataSource
	registry = deps.Registry
	configStore = deps.ConfigStore
	newDataSource = deps.NewDataSource
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
