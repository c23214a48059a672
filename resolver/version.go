package resolver

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/slices"

	"github.com/packsmith/packsmith/core"
)

// VersionSource serves the platform version feeds: the Minecraft release
// manifest and per-loader version lists.
type VersionSource interface {
	// LatestMinecraftRelease returns the newest stable Minecraft version.
	LatestMinecraftRelease(ctx context.Context) (string, error)
	// LoaderVersions lists versions of the loader compatible with the given
	// Minecraft version, newest first. Loaders whose versions are
	// Minecraft-agnostic ignore mcVersion.
	LoaderVersions(ctx context.Context, loader core.ModLoader, mcVersion string) ([]string, error)
}

// VersionResolver stabilizes a partial {loader, Minecraft version, loader
// version} input into one validated triple.
type VersionResolver struct {
	feed   VersionSource
	logger *log.Logger
}

func NewVersionResolver(feed VersionSource, logger *log.Logger) *VersionResolver {
	if logger == nil {
		logger = log.Default()
	}
	return &VersionResolver{feed: feed, logger: logger}
}

// Stabilize fills whatever is missing: no loader defaults to NeoForge, a
// missing Minecraft version becomes the latest stable release, a missing
// loader version becomes the newest compatible one. A fully specified triple
// is validated instead of filled. Vanilla never carries a loader version.
func (r *VersionResolver) Stabilize(ctx context.Context, loader core.ModLoader, mcVersion, loaderVersion string) (core.ResolvedVersions, error) {
	if loader == "" {
		loader = core.DefaultLoader
		r.logger.Debug("no loader specified, defaulting", "loader", loader)
	}

	if mcVersion == "" {
		latest, err := r.feed.LatestMinecraftRelease(ctx)
		if err != nil {
			return core.ResolvedVersions{}, fmt.Errorf("looking up latest Minecraft release: %w", err)
		}
		mcVersion = latest
		r.logger.Debug("filled Minecraft version", "version", mcVersion)
	}

	resolved := core.ResolvedVersions{
		Loader:           loader,
		MinecraftVersion: mcVersion,
	}

	if loader == core.LoaderVanilla {
		// No loader, no loader version to stabilize.
		resolved.CompatibilityValidated = true
		return resolved, nil
	}

	if loaderVersion != "" {
		validated, err := r.validatePairing(ctx, loader, mcVersion, loaderVersion)
		if err != nil {
			return core.ResolvedVersions{}, err
		}
		resolved.LoaderVersion = loaderVersion
		resolved.CompatibilityValidated = validated
		return resolved, nil
	}

	versions, err := r.feed.LoaderVersions(ctx, loader, mcVersion)
	if err != nil {
		return core.ResolvedVersions{}, fmt.Errorf("looking up %s versions for Minecraft %s: %w", loader.FriendlyName(), mcVersion, err)
	}
	if len(versions) == 0 {
		return core.ResolvedVersions{}, fmt.Errorf("no %s versions available for Minecraft %s", loader.FriendlyName(), mcVersion)
	}

	resolved.LoaderVersion = versions[0]
	resolved.CompatibilityValidated = true
	return resolved, nil
}

// validatePairing checks that a user-supplied loader version plausibly
// targets the Minecraft version. Fabric and Quilt loaders work with any
// Minecraft version; other loaders must appear in the compatible list.
func (r *VersionResolver) validatePairing(ctx context.Context, loader core.ModLoader, mcVersion, loaderVersion string) (bool, error) {
	if loader.VersionAgnostic() {
		return true, nil
	}

	versions, err := r.feed.LoaderVersions(ctx, loader, mcVersion)
	if err != nil {
		return false, fmt.Errorf("validating %s %s against Minecraft %s: %w", loader.FriendlyName(), loaderVersion, mcVersion, err)
	}
	if !slices.Contains(versions, loaderVersion) {
		return false, fmt.Errorf("%s %s is not compatible with Minecraft %s", loader.FriendlyName(), loaderVersion, mcVersion)
	}
	return true, nil
}
