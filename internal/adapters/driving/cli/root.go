// Package cli implements the catalogsync command line interface.
package cli

import (
	"context"
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gachadex/catalogsync/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Persistent flag values.
var (
	verbose   bool
	configDir string
	envFile   string
)

var rootCmd = &cobra.Command{
	Use:   "catalogsync",
	Short: "Maintain game catalog files and their database mirror",
	Long: `catalogsync rebuilds character, weapon and avatar catalog files from the
upstream game data source, republishes their images to a GitHub repository,
and reconciles the catalogs into a document database by upstream ID.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.catalogsync)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading settings")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		rootCmd.PrintErrln(errorStyle.Render("Error: " + err.Error()))
	}
	return err
}

// setup configures logging and loads the dotenv file. Variables already set
// in the environment are not overridden.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if envFile == "" {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("env-file") {
			return nil
		}
		return err
	}
	logger.Debug("Loaded %s", envFile)
	return nil
}
