package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/packsmith/packsmith/resolver"
)

var rootCmd = &cobra.Command{
	Use:   "packsmith",
	Short: "Turn a loose mod list into a verified, versioned dependency set",
	Long: `packsmith resolves a plan file of loosely-named mods against Modrinth and
CurseForge, stabilizes the loader/Minecraft version pair, and produces an
ordered, cycle-free dependency set ready for packaging.`,
}

// systemResources is detected once per process; every batch in this run
// shares the concurrency bound derived from it.
var systemResources resolver.SystemResources

func Execute() {
	systemResources = resolver.DetectSystemResources()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the command logger, debug-level behind --verbose.
func newLogger() *log.Logger {
	level := log.WarnLevel
	if viper.GetBool("verbose") {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ".packsmith-cache"
	}
	return base + string(os.PathSeparator) + "packsmith"
}

func init() {
	rootCmd.PersistentFlags().String("plan", "packsmith.toml", "The plan file to resolve")
	rootCmd.PersistentFlags().String("cache-dir", defaultCacheDir(), "Directory for the response cache")
	rootCmd.PersistentFlags().String("platform", "modrinth", "Preferred platform to search first (modrinth or curseforge)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Never prompt; take the best automatic choice")
	rootCmd.PersistentFlags().Int("max-jobs", 0, "Cap parallel resolution jobs (0 = resource-based)")

	_ = viper.BindPFlag("plan", rootCmd.PersistentFlags().Lookup("plan"))
	_ = viper.BindPFlag("cache-dir", rootCmd.PersistentFlags().Lookup("cache-dir"))
	_ = viper.BindPFlag("platform", rootCmd.PersistentFlags().Lookup("platform"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("non-interactive", rootCmd.PersistentFlags().Lookup("non-interactive"))
	_ = viper.BindPFlag("max-jobs", rootCmd.PersistentFlags().Lookup("max-jobs"))
}
