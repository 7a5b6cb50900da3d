package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gachadex/catalogsync/internal/adapters/driven/catalogfile"
	"github.com/gachadex/catalogsync/internal/core/domain"
	"github.com/gachadex/catalogsync/internal/core/ports/driving"
	"github.com/gachadex/catalogsync/internal/core/services"
	"github.com/gachadex/catalogsync/internal/logger"
)

var (
	syncStore string
	syncWatch bool
)

var syncCmd = &cobra.Command{
	Use:   "sync [agents|engines]...",
	Short: "Reconcile catalog files into the record store",
	Long: `Upserts every catalog entry into the record store by its upstream ID and
writes the store-assigned IDs back into the catalog files. With no arguments
all catalogs are synchronised. With --watch the command keeps running and
re-synchronises whenever a catalog file changes.`,
	ValidArgs: []string{domain.CatalogAgents.String(), domain.CatalogEngines.String()},
	Args:      cobra.OnlyValidArgs,
	RunE:      runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncStore, "store", "", "record store driver: mongo, sqlite or memory")
	syncCmd.Flags().BoolVar(&syncWatch, "watch", false, "re-run when catalog files change")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if syncStore != "" {
		settings.Store.Driver = domain.StoreDriver(syncStore)
	}
	if err := services.ValidateForSync(settings); err != nil {
		return err
	}

	ctx := cmd.Context()
	db, err := openDatabase(ctx, settings.Store)
	if err != nil {
		return fmt.Errorf("open %s store: %w", settings.Store.Driver, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("Closing store: %v", err)
		}
	}()

	synchroniser := services.NewSynchroniser(db, catalogfile.New(settings.Paths), services.NewReconciler())
	catalogs := make([]domain.Catalog, 0, len(args))
	for _, arg := range args {
		catalogs = append(catalogs, domain.Catalog(arg))
	}

	run := func(ctx context.Context) error {
		return syncCatalogs(ctx, cmd, synchroniser, catalogs)
	}
	if err := run(ctx); err != nil {
		if !syncWatch {
			return err
		}
		logger.Error("Sync failed: %v", err)
	}
	if !syncWatch {
		return nil
	}

	return watchCatalogs(ctx, cmd, run, catalogPaths(settings.Paths, catalogs))
}

// syncCatalogs runs one sync pass and prints a line per catalog.
func syncCatalogs(ctx context.Context, cmd *cobra.Command, s driving.Synchroniser, catalogs []domain.Catalog) error {
	var (
		summaries []driving.SyncSummary
		err       error
	)
	if len(catalogs) == 0 {
		summaries, err = s.SyncAll(ctx)
	} else {
		for _, catalog := range catalogs {
			var summary *driving.SyncSummary
			summary, err = s.Sync(ctx, catalog)
			if summary != nil {
				summaries = append(summaries, *summary)
			}
			if err != nil {
				err = fmt.Errorf("sync %s: %w", catalog, err)
				break
			}
		}
	}

	for _, summary := range summaries {
		cmd.Println(successStyle.Render(fmt.Sprintf("%s: %d records", summary.Catalog, summary.Records)) +
			" " + mutedStyle.Render(fmt.Sprintf("(%d backfilled)", summary.Backfilled)))
	}
	return err
}

// catalogPaths returns the files backing catalogs, or every catalog file
// when catalogs is empty.
func catalogPaths(paths domain.PathSettings, catalogs []domain.Catalog) []string {
	if len(catalogs) == 0 {
		catalogs = domain.AllCatalogs()
	}
	out := make([]string, 0, len(catalogs))
	for _, catalog := range catalogs {
		switch catalog {
		case domain.CatalogAgents:
			out = append(out, paths.Characters)
		case domain.CatalogEngines:
			out = append(out, paths.Weapons)
		}
	}
	return out
}
