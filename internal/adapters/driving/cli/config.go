package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gachadex/catalogsync/internal/core/domain"
	"github.com/gachadex/catalogsync/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write the config file",
	Long: `Reads and writes ~/.catalogsync/config.toml (or the file under --config-dir).
Environment variables still override file values when commands run.

Keys:
  ` + strings.Join(services.ConfigKeys(), "\n  "),
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a config value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openConfig()
		if err != nil {
			return err
		}
		val, ok := store.Get(args[0])
		if !ok {
			return fmt.Errorf("%w: %s is not set", domain.ErrNotFound, args[0])
		}
		cmd.Println(formatConfigValue(val))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Long: `Sets a config value and saves the file. List values (source.locales,
exclude.characters, exclude.weapons) are comma-separated; an empty value
clears the list.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		val, err := services.ParseConfigValue(args[0], args[1])
		if err != nil {
			return err
		}
		store, err := openConfig()
		if err != nil {
			return err
		}
		if err := store.Set(args[0], val); err != nil {
			return err
		}
		cmd.Println(successStyle.Render(fmt.Sprintf("%s = %s", args[0], formatConfigValue(val))))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openConfig()
		if err != nil {
			return err
		}
		cmd.Println(store.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// formatConfigValue renders lists comma-separated, as set accepts them.
func formatConfigValue(val any) string {
	switch v := val.(type) {
	case []string:
		return strings.Join(v, ",")
	case []int:
		parts := make([]string, len(v))
		for i, n := range v {
			parts[i] = fmt.Sprint(n)
		}
		return strings.Join(parts, ",")
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}
