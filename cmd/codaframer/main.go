package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jimbaxley/codaframer/internal/adapters/driven/collection/sqlite"
	"github.com/jimbaxley/codaframer/internal/adapters/driven/config/file"
	"github.com/jimbaxley/codaframer/internal/adapters/driving/cli"
	"github.com/jimbaxley/codaframer/internal/connectors/coda"
	"github.com/jimbaxley/codaframer/internal/core/domain"
	"github.com/jimbaxley/codaframer/internal/core/ports/driven"
	"github.com/jimbaxley/codaframer/internal/core/services"
)

// version is set at build time via
// -ldflags "-X main.version=x.y.z".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening collection store: %w", err)
	}
	defer store.Close()

	deps := cli.Deps{
		Registry:    store,
		ConfigStore: configStore,
		NewDataSource: func(ctx context.Context, token string) driven.DataSource {
			return coda.New(ctx, token)
		},
	}

	// Commands that talk to the API or run syncs need a stored token;
	// auth and settings still work without one.
	if token := configStore.GetString(driven.ConfigKeyAPIToken); token != "" {
		source := coda.New(context.Background(), token)
		settings := domain.Settings{
			Use12HourClock: configStore.GetBool(driven.ConfigKey12HourClock),
		}
		deps.DataSource = source
		deps.Importer = services.NewImporter(source, store, settings)
	}

	cli.SetServices(deps)
	cli.SetVersion(version)
	return cli.Execute()
}
