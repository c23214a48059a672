package cmd

import (
	"fmt"

	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/packsmith/packsmith/core"
	"github.com/packsmith/packsmith/fileio"
	"github.com/packsmith/packsmith/internal/shared"
)

// openCmd represents the open command
var openCmd = &cobra.Command{
	Use:     "open [key]",
	Short:   "Open a plan mod's project page in your browser",
	Aliases: []string{"doc"},
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		plan, err := fileio.LoadPlan(viper.GetString("plan"))
		if err != nil {
			shared.Exitln(err)
		}
		specs, _, err := plan.Specs()
		if err != nil {
			shared.Exitln(err)
		}

		var spec *core.DependencySpec
		for i := range specs {
			if specs[i].Key == args[0] {
				spec = &specs[i]
				break
			}
		}
		if spec == nil {
			shared.Exitf("no mod %q in %s\n", args[0], plan.GetFilePath())
		}

		eng, err := buildEngine(plan.NeoForgeCompat)
		if err != nil {
			shared.Exitln(err)
		}

		project, err := eng.projects.Resolve(cmd.Context(), *spec)
		if err != nil {
			shared.Exitln(err)
		}

		url := projectPageURL(project)
		fmt.Println("Opening browser...")
		if err := open.Start(url); err != nil {
			fmt.Println("Opening page failed, direct link:")
			fmt.Println(url)
		}
	},
}

func projectPageURL(project core.ResolvedProject) string {
	if project.Platform == core.PlatformCurseforge {
		return "https://www.curseforge.com/projects/" + project.ProjectID
	}
	return "https://modrinth.com/mod/" + project.ProjectID
}

func init() {
	rootCmd.AddCommand(openCmd)
}
