package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/packsmith/packsmith/config"
	"github.com/packsmith/packsmith/core"
	"github.com/packsmith/packsmith/netio"
	"github.com/packsmith/packsmith/resolver"
	"github.com/packsmith/packsmith/sources"
)

// engine bundles the wired resolution stack shared by the commands.
type engine struct {
	logger   *log.Logger
	projects *resolver.ProjectResolver
	versions *resolver.VersionResolver
}

// buildEngine wires clients, sources and resolvers from the flag set. The
// CurseForge source is skipped with a warning when its API key is absent,
// unless it is the preferred platform.
func buildEngine(neoForgeCompat map[string]string) (*engine, error) {
	logger := newLogger()
	cache := netio.OpenResponseCache(viper.GetString("cache-dir"), logger)

	preferred, err := core.ParsePlatform(viper.GetString("platform"))
	if err != nil {
		return nil, err
	}

	mrClient := netio.NewClient(core.PlatformModrinth, "", cache, logger)
	projectSources := []resolver.ProjectSource{sources.NewModrinthSource(mrClient)}

	cfKey, err := config.APIKey(core.PlatformCurseforge)
	if err != nil {
		if preferred == core.PlatformCurseforge {
			return nil, err
		}
		logger.Warn("CurseForge unavailable, searching Modrinth only", "err", err)
	} else {
		cfClient := netio.NewClient(core.PlatformCurseforge, cfKey, cache, logger)
		projectSources = append(projectSources, sources.NewCurseforgeSource(cfClient))
	}

	// The Mojang manifest and loader mavens are unauthenticated and cheap;
	// they ride the Modrinth client's generous pacing and shared cache.
	feed := sources.NewVersionFeed(mrClient)
	feed.NeoForgeCompat = neoForgeCompat

	return &engine{
		logger:   logger,
		projects: resolver.NewProjectResolver(preferred, logger, projectSources...),
		versions: resolver.NewVersionResolver(feed, logger),
	}, nil
}
