package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jimbaxley/codaframer/internal/core/domain"
	"github.com/jimbaxley/codaframer/internal/core/ports/driven"
	"github.com/jimbaxley/codaframer/internal/core/ports/driving"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync a table into a collection",
	Long: `Fetch a table's schema and rows, map them onto collection fields,
and reconcile the destination collection to match.

A collection remembers the document, table, and slug column it was
synced from, so a bare 'codaframer sync --collection <id>' repeats the
previous mapping.

Examples:
  codaframer sync --collection 1f0e... --doc abC123 --table grid-xyz
  codaframer sync --collection 1f0e... --slug-column c-title
  codaframer sync --new-collection "Posts" --doc abC123 --table grid-xyz
  codaframer sync --collection 1f0e... --dry-run`,
	RunE: runSync,
}

// Flags for sync.
var (
	syncCollectionID  string
	syncNewCollection string
	syncDocID         string
	syncTableID       string
	syncSlugColumn    string
	syncDryRun        bool
)

func init() {
	syncCmd.Flags().StringVar(&syncCollectionID, "collection", "", "Destination collection ID")
	syncCmd.Flags().StringVar(&syncNewCollection, "new-collection", "", "Create a new collection with this name")
	syncCmd.Flags().StringVar(&syncDocID, "doc", "", "Source document ID")
	syncCmd.Flags().StringVar(&syncTableID, "table", "", "Source table or view ID")
	syncCmd.Flags().StringVar(&syncSlugColumn, "slug-column", "",
		fmt.Sprintf("Column ID for item slugs (%q for the row ID)", domain.RowIDField))
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Compute the plan without writing")

	rootCmd.AddCommand(syncCmd)
}

// collectionCreator is the optional registry capability used by
// --new-collection. The sqlite store implements it.
type collectionCreator interface {
	Create(ctx context.Context, name string) (driven.Collection, error)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if importer == nil {
		return errors.New("importer not configured")
	}

	ctx := context.Background()

	docID := syncDocID
	tableID := syncTableID
	if configStore != nil {
		if docID == "" {
			docID = configStore.GetString(driven.ConfigKeyDocID)
		}
		if tableID == "" {
			tableID = configStore.GetString(driven.ConfigKeyTableID)
		}
	}

	collectionID := syncCollectionID
	if syncNewCollection != "" {
		if collectionID != "" {
			return fmt.Errorf("%w: --collection and --new-collection are mutually exclusive", domain.ErrInvalidInput)
		}
		creator, ok := registry.(collectionCreator)
		if !ok {
			return errors.New("the configured registry cannot create collections")
		}
		created, err := creator.Create(ctx, syncNewCollection)
		if err != nil {
			return fmt.Errorf("creating collection: %w", err)
		}
		collectionID = created.ID()
		cmd.Printf("Created collection %s (%s)\n", created.Name(), collectionID)
	}
	if collectionID == "" {
		return fmt.Errorf("%w: --collection or --new-collection is required", domain.ErrInvalidInput)
	}

	result, err := importer.Sync(ctx, driving.SyncRequest{
		CollectionID: collectionID,
		DocID:        docID,
		TableID:      tableID,
		SlugFieldID:  syncSlugColumn,
		DryRun:       syncDryRun,
	})
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	if syncDryRun {
		cmd.Printf("Dry run: %d fields, %d items to upsert, %d to remove, %d rows skipped\n",
			result.Fields, result.Upserted, result.Removed, result.SkippedRows)
		return nil
	}

	cmd.Printf("Synced: %d fields, %d items upserted, %d removed, %d rows skipped\n",
		result.Fields, result.Upserted, result.Removed, result.SkippedRows)
	return nil
}
