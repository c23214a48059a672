package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/packsmith/packsmith/internal/shared"
	"github.com/packsmith/packsmith/netio"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the platform response cache",
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the cache directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(viper.GetString("cache-dir"))
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached platform response",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cache := netio.OpenResponseCache(viper.GetString("cache-dir"), newLogger())
		count := cache.Len()
		if err := cache.Clear(); err != nil {
			shared.Exitln(err)
		}
		fmt.Printf("Removed %d cached responses\n", count)
	},
}

func init() {
	cacheCmd.AddCommand(cacheDirCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
