package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gachadex/catalogsync/internal/core/ports/driving"
	"github.com/gachadex/catalogsync/internal/core/services"
	"github.com/gachadex/catalogsync/internal/logger"
)

var (
	refreshNoUpload bool
	refreshNoWrite  bool
)

var refreshCmd = &cobra.Command{
	Use:   "refresh [characters|weapons|avatars]...",
	Short: "Rebuild catalog files from the upstream source",
	Long: `Fetches character, weapon and avatar metadata from the upstream source,
republishes their images to the configured GitHub repository and rewrites
the catalog files. With no arguments all three catalogs are refreshed.`,
	ValidArgs: []string{services.KindCharacters, services.KindWeapons, services.KindAvatars},
	Args:      cobra.OnlyValidArgs,
	RunE:      runRefresh,
}

func init() {
	refreshCmd.Flags().BoolVar(&refreshNoUpload, "no-upload", false, "skip uploading images; only compute their URLs")
	refreshCmd.Flags().BoolVar(&refreshNoWrite, "no-write", false, "skip writing catalog files")
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if err := services.ValidateForRefresh(settings); err != nil {
		return err
	}

	if !refreshNoUpload {
		if err := checkCredentials(cmd.Context(), settings.GitHub); err != nil {
			return fmt.Errorf("github credentials: %w", err)
		}
	}

	refresher, err := buildRefresher(cmd.Context(), settings)
	if err != nil {
		return err
	}

	kinds := args
	if len(kinds) == 0 {
		kinds = []string{services.KindCharacters, services.KindWeapons, services.KindAvatars}
	}
	opts := driving.RefreshOptions{Upload: !refreshNoUpload, Write: !refreshNoWrite}

	for _, kind := range kinds {
		cmd.Println(titleStyle.Render("Refreshing " + kind))

		result, err := refreshKind(cmd.Context(), refresher, kind, opts)
		if err != nil {
			logger.WithField("catalog", kind).Errorf("Refresh aborted: %v", err)
			return fmt.Errorf("refresh %s: %w", kind, err)
		}
		cmd.Println(formatRefreshResult(result))
	}
	return nil
}

func refreshKind(ctx context.Context, r driving.Refresher, kind string, opts driving.RefreshOptions) (*driving.RefreshResult, error) {
	switch kind {
	case services.KindCharacters:
		return r.RefreshCharacters(ctx, opts)
	case services.KindWeapons:
		return r.RefreshWeapons(ctx, opts)
	case services.KindAvatars:
		return r.RefreshAvatars(ctx, opts)
	default:
		return nil, fmt.Errorf("unknown catalog %q", kind)
	}
}

func formatRefreshResult(result *driving.RefreshResult) string {
	line := successStyle.Render(fmt.Sprintf("%s: %d entries", result.Kind, result.Entries))
	if result.Skipped > 0 {
		line += " " + warningStyle.Render(fmt.Sprintf("(%d skipped)", result.Skipped))
	}
	return line
}
