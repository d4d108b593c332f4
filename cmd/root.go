package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/lexiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "lexiz",
	Short: "Adaptive vocabulary review and proficiency tracking",
	Long: `Lexiz schedules vocabulary reviews with SM-2, estimates CEFR proficiency
from placement tests, and composes time-boxed study sessions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is fine; a malformed one is not.
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LEXIZ_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("content", "", "Path to a JSON content pack (defaults to the built-in corpus)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(exerciseCmd)
	rootCmd.AddCommand(levelTestCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(weaknessCmd)
	rootCmd.AddCommand(contentCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the config file or LEXIZ_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
