package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/packsmith/packsmith/fileio"
	"github.com/packsmith/packsmith/internal/shared"
)

// versionsCmd represents the versions command
var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "Stabilize and print the plan's loader and Minecraft versions without resolving mods",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		plan, err := fileio.LoadPlan(viper.GetString("plan"))
		if err != nil {
			shared.Exitln(err)
		}

		eng, err := buildEngine(plan.NeoForgeCompat)
		if err != nil {
			shared.Exitln(err)
		}

		defaults, err := plan.Defaults()
		if err != nil {
			shared.Exitln(err)
		}
		versions, err := eng.versions.Stabilize(cmd.Context(), defaults.Loader, plan.Minecraft, plan.LoaderVersion)
		if err != nil {
			shared.Exitln(err)
		}
		printVersions(versions)
	},
}

func init() {
	rootCmd.AddCommand(versionsCmd)
}
