package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/unascribed/FlexVer/go/flexver"

	"github.com/packsmith/packsmith/core"
	"github.com/packsmith/packsmith/netio"
)

const (
	fabricMavenURL   = "https://maven.fabricmc.net/net/fabricmc/fabric-loader/maven-metadata.xml"
	quiltMavenURL    = "https://maven.quiltmc.org/repository/release/org/quiltmc/quilt-loader/maven-metadata.xml"
	forgeMavenURL    = "https://maven.minecraftforge.net/net/minecraftforge/forge/maven-metadata.xml"
	neoforgeMavenURL = "https://maven.neoforged.net/releases/net/neoforged/neoforge/maven-metadata.xml"
)

// VersionFeed serves loader and Minecraft version lookups, all through the
// rate-limited caching client. It implements resolver.VersionSource.
type VersionFeed struct {
	// Endpoint overrides for tests; zero values use the public feeds.
	ManifestURL      string
	FabricMavenURL   string
	QuiltMavenURL    string
	ForgeMavenURL    string
	NeoForgeMavenURL string

	// NeoForgeCompat overrides the major.minor -> Minecraft release
	// heuristic for lines where the scheme broke. Keyed by NeoForge
	// major.minor ("20.4"), valued by Minecraft release ("1.20.4").
	NeoForgeCompat map[string]string

	client *netio.Client
}

func NewVersionFeed(client *netio.Client) *VersionFeed {
	return &VersionFeed{
		ManifestURL:      mojangVersionManifestURL,
		FabricMavenURL:   fabricMavenURL,
		QuiltMavenURL:    quiltMavenURL,
		ForgeMavenURL:    forgeMavenURL,
		NeoForgeMavenURL: neoforgeMavenURL,
		client:           client,
	}
}

// LatestMinecraftRelease returns the newest stable Minecraft version from
// the Mojang manifest.
func (f *VersionFeed) LatestMinecraftRelease(ctx context.Context) (string, error) {
	info, err := fetchMinecraftVersions(ctx, f.client, f.ManifestURL)
	if err != nil {
		return "", err
	}
	if info.Latest == "" {
		return "", fmt.Errorf("Minecraft version manifest has no latest release")
	}
	return info.Latest, nil
}

// LoaderVersions lists loader versions compatible with the given Minecraft
// version, newest first. Fabric and Quilt ship Minecraft-agnostic loaders,
// so their full lists come back unfiltered.
func (f *VersionFeed) LoaderVersions(ctx context.Context, loader core.ModLoader, mcVersion string) ([]string, error) {
	switch loader {
	case core.LoaderFabric:
		return f.fetchMavenList(ctx, f.FabricMavenURL, func(version string) string {
			// Skip versions containing "+" (build metadata variants)
			if strings.Contains(version, "+") {
				return ""
			}
			return version
		})
	case core.LoaderQuilt:
		return f.fetchMavenList(ctx, f.QuiltMavenURL, func(version string) string {
			return version
		})
	case core.LoaderForge:
		return f.fetchForgeVersions(ctx, mcVersion)
	case core.LoaderNeoForge:
		return f.fetchNeoForgeVersions(ctx, mcVersion)
	case core.LoaderVanilla:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown loader %s", loader)
}

// fetchForgeVersions filters the Forge maven list, whose versions are in
// mcVersion-loaderVersion form.
func (f *VersionFeed) fetchForgeVersions(ctx context.Context, mcVersion string) ([]string, error) {
	return f.fetchMavenList(ctx, f.ForgeMavenURL, func(version string) string {
		parts := strings.SplitN(version, "-", 2)
		if len(parts) < 2 || parts[0] != mcVersion {
			return ""
		}
		return parts[1]
	})
}

// fetchNeoForgeVersions filters the NeoForge maven list down to versions
// whose major.minor line tracks the given Minecraft release, stable builds
// first.
func (f *VersionFeed) fetchNeoForgeVersions(ctx context.Context, mcVersion string) ([]string, error) {
	all, err := f.fetchMavenList(ctx, f.NeoForgeMavenURL, func(version string) string {
		return version
	})
	if err != nil {
		return nil, err
	}

	var stable, unstable []string
	for _, version := range all {
		line, ok := f.neoForgeMinecraftLine(version)
		if !ok || line != mcVersion {
			continue
		}
		if NeoForgeVersionStable(version) {
			stable = append(stable, version)
		} else {
			unstable = append(unstable, version)
		}
	}
	return append(stable, unstable...), nil
}

// NeoForgeVersionStable classifies a NeoForge version as stable when its
// identifier carries no pre-release marker.
func NeoForgeVersionStable(version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return !strings.Contains(version, "-beta") && !strings.Contains(version, "-alpha")
	}
	return v.Prerelease() == ""
}

// neoForgeMinecraftLine maps a NeoForge version to the Minecraft release
// line it tracks: major.minor X.Y follows Minecraft 1.X.Y, with 1.X for the
// .0 line. The compat table overrides the heuristic where the scheme
// diverged.
func (f *VersionFeed) neoForgeMinecraftLine(version string) (string, bool) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return "", false
	}

	key := fmt.Sprintf("%d.%d", v.Major(), v.Minor())
	if line, ok := f.NeoForgeCompat[key]; ok {
		return line, true
	}
	if v.Minor() == 0 {
		return fmt.Sprintf("1.%d", v.Major()), true
	}
	return fmt.Sprintf("1.%d.%d", v.Major(), v.Minor()), true
}

type mavenXMLMetadata struct {
	Versioning struct {
		Versions struct {
			Version []string `xml:"version"`
		} `xml:"versions"`
	} `xml:"versioning"`
}

// fetchMavenList pulls a maven-metadata.xml document and returns its
// versions newest first, mapped through versionCb; an empty mapping drops
// the version.
func (f *VersionFeed) fetchMavenList(ctx context.Context, url string, versionCb func(version string) string) ([]string, error) {
	resp, err := f.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if resp.Status != 200 {
		return nil, fmt.Errorf("maven metadata %s returned status %d", url, resp.Status)
	}

	var metadata mavenXMLMetadata
	if err := xml.Unmarshal(resp.Data, &metadata); err != nil {
		return nil, fmt.Errorf("maven metadata %s: %w", url, err)
	}

	var versions []string
	for _, version := range metadata.Versioning.Versions.Version {
		if version == "" {
			continue
		}
		processed := versionCb(version)
		if processed == "" {
			continue
		}
		versions = append(versions, processed)
	}

	return SortDescending(versions), nil
}

// SortDescending orders versions newest first using FlexVer semantics.
func SortDescending(versions []string) []string {
	flexver.VersionSlice(versions).Sort()
	for i, j := 0, len(versions)-1; i < j; i, j = i+1, j-1 {
		versions[i], versions[j] = versions[j], versions[i]
	}
	return versions
}
