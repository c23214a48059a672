package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vbauerster/mpb/v4"
	"github.com/vbauerster/mpb/v4/decor"

	"github.com/packsmith/packsmith/core"
	"github.com/packsmith/packsmith/fileio"
	"github.com/packsmith/packsmith/internal/shared"
	"github.com/packsmith/packsmith/resolver"
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve every mod in the plan into a versioned, ordered dependency set",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		plan, err := fileio.LoadPlan(viper.GetString("plan"))
		if err != nil {
			shared.Exitln(err)
		}
		specs, requires, err := plan.Specs()
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
		versions, err := eng.versions.Stabilize(ctx, defaults.Loader, plan.Minecraft, plan.LoaderVersion)
		if err != nil {
			shared.Exitln(err)
		}
		printVersions(versions)

		manager, err := resolver.NewManager(systemResources, viper.GetInt("max-jobs"))
		if err != nil {
			shared.Exitln(err)
		}
		eng.logger.Debug("resolving batch", "mods", len(specs), "jobs", manager.Jobs())

		progress := mpb.New(mpb.WithWidth(64))
		bar := progress.AddBar(int64(len(specs)),
			mpb.PrependDecorators(
				decor.Name("resolving "),
				decor.CountersNoUnit("%d / %d"),
			),
			mpb.AppendDecorators(decor.Percentage()),
		)

		results, err := manager.ResolveAll(ctx, specs, func(ctx context.Context, spec core.DependencySpec) (core.ResolvedProject, error) {
			defer bar.Increment()
			return eng.projects.Resolve(ctx, spec)
		})
		progress.Wait()
		if err != nil {
			shared.Exitln(err)
		}

		if !viper.GetBool("non-interactive") {
			retryNoMatches(ctx, eng, results)
		}

		graph := core.NewDependencyGraph()
		for _, spec := range specs {
			graph.AddNode(spec.Key, requires[spec.Key]...)
		}
		order, err := graph.ResolveAll()
		if err != nil {
			var cycleErr *core.CycleError
			if errors.As(err, &cycleErr) {
				shared.Exitln(err, "\nedit the plan's requires lists to break the cycle")
			}
			shared.Exitln(err)
		}

		byKey := make(map[string]*resolver.JobResult, len(results))
		for i := range results {
			byKey[results[i].Spec.Key] = &results[i]
		}

		fmt.Println("\nResolution order:")
		failed := 0
		for i, key := range order {
			result, ok := byKey[key]
			if !ok {
				fmt.Printf("%3d. %s (required, not in plan)\n", i+1, key)
				continue
			}
			if result.Err != nil {
				failed++
				fmt.Printf("%3d. %s: FAILED: %v\n", i+1, key, result.Err)
				continue
			}
			fmt.Printf("%3d. %s -> %s (%s %s)\n", i+1, key,
				result.Project.Name,
				result.Project.Platform.FriendlyName(),
				result.Project.ProjectID)
		}

		if failed > 0 {
			shared.Exitf("\n%d of %d mods failed to resolve\n", failed, len(results))
		}
	},
}

func printVersions(versions core.ResolvedVersions) {
	if versions.Loader == core.LoaderVanilla {
		fmt.Printf("Target: Vanilla Minecraft %s\n", versions.MinecraftVersion)
		return
	}
	note := ""
	if !versions.CompatibilityValidated {
		note = " (compatibility not verified)"
	}
	fmt.Printf("Target: %s %s on Minecraft %s%s\n",
		versions.Loader.FriendlyName(), versions.LoaderVersion, versions.MinecraftVersion, note)
}

// retryNoMatches walks the batch for mods with no confident match and lets
// the user pick from the scored candidates instead.
func retryNoMatches(ctx context.Context, eng *engine, results []resolver.JobResult) {
	for i := range results {
		result := &results[i]
		var noMatch *core.NoMatchError
		if result.Err == nil || !errors.As(result.Err, &noMatch) {
			continue
		}
		project, err := pickProject(ctx, eng, result.Spec)
		if err != nil {
			continue
		}
		result.Project = project
		result.Err = nil
	}
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
