package resolver

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packsmith/packsmith/core"
)

type stubVersionFeed struct {
	latestRelease  string
	loaderVersions map[core.ModLoader][]string
	feedErr        error
}

func (s *stubVersionFeed) LatestMinecraftRelease(ctx context.Context) (string, error) {
	if s.feedErr != nil {
		return "", s.feedErr
	}
	return s.latestRelease, nil
}

func (s *stubVersionFeed) LoaderVersions(ctx context.Context, loader core.ModLoader, mcVersion string) ([]string, error) {
	if s.feedErr != nil {
		return nil, s.feedErr
	}
	return s.loaderVersions[loader], nil
}

func testFeed() *stubVersionFeed {
	return &stubVersionFeed{
		latestRelease: "1.21.1",
		loaderVersions: map[core.ModLoader][]string{
			core.LoaderNeoForge: {"21.1.62", "21.1.61", "21.1.42"},
			core.LoaderFabric:   {"0.16.5", "0.16.4"},
			core.LoaderQuilt:    {"0.26.4"},
			core.LoaderForge:    {"47.3.0"},
		},
	}
}

func TestStabilizeZeroConfig(t *testing.T) {
	r := NewVersionResolver(testFeed(), nil)

	resolved, err := r.Stabilize(context.Background(), "", "", "")
	require.NoError(t, err)

	assert.Equal(t, core.LoaderNeoForge, resolved.Loader)
	assert.Equal(t, "1.21.1", resolved.MinecraftVersion)
	assert.Equal(t, "21.1.62", resolved.LoaderVersion)
	assert.True(t, resolved.CompatibilityValidated)
}

func TestStabilizePartialInput(t *testing.T) {
	r := NewVersionResolver(testFeed(), nil)

	resolved, err := r.Stabilize(context.Background(), core.LoaderFabric, "1.20.1", "")
	require.NoError(t, err)

	assert.Equal(t, core.LoaderFabric, resolved.Loader)
	assert.Equal(t, "1.20.1", resolved.MinecraftVersion)
	assert.Equal(t, "0.16.5", resolved.LoaderVersion)
	assert.True(t, resolved.CompatibilityValidated)
}

func TestStabilizeFullySpecified(t *testing.T) {
	r := NewVersionResolver(testFeed(), nil)

	resolved, err := r.Stabilize(context.Background(), core.LoaderNeoForge, "1.21.1", "21.1.42")
	require.NoError(t, err)

	assert.Equal(t, "21.1.42", resolved.LoaderVersion)
	assert.True(t, resolved.CompatibilityValidated)
}

func TestStabilizeRejectsImplausiblePairing(t *testing.T) {
	r := NewVersionResolver(testFeed(), nil)

	_, err := r.Stabilize(context.Background(), core.LoaderNeoForge, "1.21.1", "20.4.80")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "20.4.80")
	assert.Contains(t, err.Error(), "1.21.1")
}

func TestStabilizeVanillaHasNoLoaderVersion(t *testing.T) {
	feed := testFeed()
	r := NewVersionResolver(feed, nil)

	resolved, err := r.Stabilize(context.Background(), core.LoaderVanilla, "", "")
	require.NoError(t, err)

	assert.Equal(t, core.LoaderVanilla, resolved.Loader)
	assert.Equal(t, "1.21.1", resolved.MinecraftVersion)
	assert.Empty(t, resolved.LoaderVersion)
	assert.True(t, resolved.CompatibilityValidated)
}

func TestStabilizeFabricAcceptsAnyMinecraftVersion(t *testing.T) {
	r := NewVersionResolver(testFeed(), nil)

	// 0.15.0 is not in the feed list, but Fabric loader versions are
	// Minecraft-agnostic so the pairing is accepted as supplied.
	resolved, err := r.Stabilize(context.Background(), core.LoaderFabric, "1.18.2", "0.15.0")
	require.NoError(t, err)
	assert.True(t, resolved.CompatibilityValidated)
}

func TestStabilizeFeedErrorNamesLookup(t *testing.T) {
	feed := testFeed()
	feed.feedErr = fmt.Errorf("connection refused")
	r := NewVersionResolver(feed, nil)

	_, err := r.Stabilize(context.Background(), "", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Minecraft release")
}
